// Package service orchestrates member operations: load, mutate through
// the aggregate, save with optimistic concurrency, and keep the
// read-side cache coherent. Domain logic stays thin here.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mirathi/internal/geo"
	"mirathi/internal/identity"
	"mirathi/internal/member"
	"mirathi/internal/member/metrics"
	"mirathi/internal/member/store"
	"mirathi/internal/person"
	"mirathi/internal/succession"
	"mirathi/pkg/domain"
	"mirathi/pkg/platform/sentinel"
)

// conflictRetries bounds reload-and-retry on concurrent writes before
// the conflict surfaces to the caller.
const conflictRetries = 3

// Cache is the read-side projection cache. All methods are best-effort
// from the service's point of view; a cache failure never fails the
// operation.
type Cache interface {
	Get(ctx context.Context, id domain.MemberID) (member.Projection, error)
	Set(ctx context.Context, p member.Projection) error
	Invalidate(ctx context.Context, id domain.MemberID) error
}

// Service is the application layer over the member aggregate.
type Service struct {
	store       store.Store
	cache       Cache
	metrics     *metrics.Metrics
	logger      *log.Logger
	tracer      trace.Tracer
	now         func() time.Time
	housePolicy succession.HouseheadPolicy
	quality     member.QualityPolicy
}

// Option configures a Service.
type Option func(*Service)

func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock injects the reference clock. Tests pin it; production uses
// time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHouseheadPolicy overrides the statutory default house rule.
func WithHouseheadPolicy(p succession.HouseheadPolicy) Option {
	return func(s *Service) { s.housePolicy = p }
}

// WithQualityPolicy overrides the advisory-versus-error boundary for
// data-quality anomalies.
func WithQualityPolicy(q member.QualityPolicy) Option {
	return func(s *Service) { s.quality = q }
}

func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:       st,
		tracer:      otel.Tracer("mirathi/member"),
		now:         time.Now,
		housePolicy: succession.DefaultHouseheadPolicy(),
		quality:     member.DefaultQualityPolicy(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates a new member. A nil ID in the facts gets generated
// here; the domain never generates IDs mid-mutation.
func (s *Service) Register(ctx context.Context, facts member.CreateFacts) (member.Projection, error) {
	ctx, span := s.tracer.Start(ctx, "member.register")
	defer span.End()
	start := time.Now()

	if facts.ID.IsNil() {
		facts.ID = domain.NewMemberID()
	}
	if facts.Quality == nil {
		q := s.quality
		facts.Quality = &q
	}
	now := s.now()

	m, err := member.New(facts, now)
	if err != nil {
		s.record("register", "invalid", start)
		return member.Projection{}, err
	}
	span.SetAttributes(attribute.String("member.id", m.ID().String()))

	p := m.Projection(now)
	events := m.DrainEvents()
	if err := s.store.Insert(ctx, p, events); err != nil {
		s.record("register", "error", start)
		return member.Projection{}, err
	}
	s.cacheSet(ctx, p)
	s.recordEvents(events)
	s.record("register", "ok", start)
	s.logf("member registered id=%s family=%s", p.ID, p.FamilyID)
	return p, nil
}

// Get returns the member projection, preferring the cache.
func (s *Service) Get(ctx context.Context, id domain.MemberID) (member.Projection, error) {
	ctx, span := s.tracer.Start(ctx, "member.get",
		trace.WithAttributes(attribute.String("member.id", id.String())))
	defer span.End()

	if s.cache != nil {
		if p, err := s.cache.Get(ctx, id); err == nil {
			if s.metrics != nil {
				s.metrics.CacheHits.Inc()
			}
			return p, nil
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			s.logf("cache get failed id=%s: %v", id, err)
		}
		if s.metrics != nil {
			s.metrics.CacheMisses.Inc()
		}
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return member.Projection{}, err
	}
	s.cacheSet(ctx, p)
	return p, nil
}

// ListByFamily returns every member of a family, uncached.
func (s *Service) ListByFamily(ctx context.Context, familyID domain.FamilyID) ([]member.Projection, error) {
	ctx, span := s.tracer.Start(ctx, "member.list_by_family",
		trace.WithAttributes(attribute.String("family.id", familyID.String())))
	defer span.End()
	return s.store.ListByFamily(ctx, familyID)
}

// UpdatePersonalInfo applies a partial personal-fact update.
func (s *Service) UpdatePersonalInfo(ctx context.Context, id domain.MemberID, update member.PersonalUpdate) (member.Projection, error) {
	return s.mutate(ctx, "update_personal_info", id, func(m *member.FamilyMember, now time.Time) error {
		return m.UpdatePersonalInfo(update, now)
	})
}

// UpdateContactInfo replaces the member's contact details.
func (s *Service) UpdateContactInfo(ctx context.Context, id domain.MemberID, contact person.ContactInfo) (member.Projection, error) {
	return s.mutate(ctx, "update_contact_info", id, func(m *member.FamilyMember, now time.Time) error {
		return m.UpdateContactInfo(contact, now)
	})
}

// DeathFacts carries everything a death registration records.
type DeathFacts struct {
	DateOfDeath  time.Time
	PlaceOfDeath string
	CauseOfDeath string
	Certificate  *identity.DeathCertificate
	RecordedBy   string
}

// MarkDeceased registers a death and archives the member.
func (s *Service) MarkDeceased(ctx context.Context, id domain.MemberID, facts DeathFacts) (member.Projection, error) {
	return s.mutate(ctx, "mark_deceased", id, func(m *member.FamilyMember, now time.Time) error {
		return m.MarkDeceased(facts.DateOfDeath, facts.PlaceOfDeath, facts.CauseOfDeath, facts.Certificate, facts.RecordedBy, now)
	})
}

// MarkMissing records a disappearance.
func (s *Service) MarkMissing(ctx context.Context, id domain.MemberID, missingSince time.Time, lastSeen *geo.Location) (member.Projection, error) {
	return s.mutate(ctx, "mark_missing", id, func(m *member.FamilyMember, now time.Time) error {
		return m.MarkMissing(missingSince, lastSeen, now)
	})
}

// MarkFound returns a missing member to the living record.
func (s *Service) MarkFound(ctx context.Context, id domain.MemberID) (member.Projection, error) {
	return s.mutate(ctx, "mark_found", id, func(m *member.FamilyMember, now time.Time) error {
		return m.MarkFound(now)
	})
}

// AssignToHouse places the member in a polygamous house under the
// configured statutory rule.
func (s *Service) AssignToHouse(ctx context.Context, id domain.MemberID, houseID domain.HouseID, order int) (member.Projection, error) {
	return s.mutate(ctx, "assign_to_house", id, func(m *member.FamilyMember, now time.Time) error {
		return m.AssignToHouse(houseID, order, s.housePolicy, now)
	})
}

// Archive soft-deactivates the member.
func (s *Service) Archive(ctx context.Context, id domain.MemberID, reason, actor string) (member.Projection, error) {
	return s.mutate(ctx, "archive", id, func(m *member.FamilyMember, now time.Time) error {
		return m.Archive(reason, actor, now)
	})
}

// Unarchive reactivates an archived member.
func (s *Service) Unarchive(ctx context.Context, id domain.MemberID) (member.Projection, error) {
	return s.mutate(ctx, "unarchive", id, func(m *member.FamilyMember, now time.Time) error {
		return m.Unarchive(now)
	})
}

// VerifyNationalID records a successful national ID verification.
func (s *Service) VerifyNationalID(ctx context.Context, id domain.MemberID, by string, method identity.VerificationMethod) (member.Projection, error) {
	return s.mutate(ctx, "verify_national_id", id, func(m *member.FamilyMember, now time.Time) error {
		return m.VerifyNationalID(by, method, now)
	})
}

// VerifyKRAPin records a successful KRA PIN verification.
func (s *Service) VerifyKRAPin(ctx context.Context, id domain.MemberID, by string, method identity.VerificationMethod) (member.Projection, error) {
	return s.mutate(ctx, "verify_kra_pin", id, func(m *member.FamilyMember, now time.Time) error {
		return m.VerifyKRAPin(by, method, now)
	})
}

// mutate is the load-apply-save loop shared by every mutation. On a
// version conflict it reloads and reapplies, up to conflictRetries.
func (s *Service) mutate(ctx context.Context, operation string, id domain.MemberID, apply func(*member.FamilyMember, time.Time) error) (member.Projection, error) {
	ctx, span := s.tracer.Start(ctx, "member."+operation,
		trace.WithAttributes(attribute.String("member.id", id.String())))
	defer span.End()
	start := time.Now()

	for attempt := 0; ; attempt++ {
		stored, err := s.store.Get(ctx, id)
		if err != nil {
			s.record(operation, "error", start)
			return member.Projection{}, err
		}
		m, err := member.Reconstruct(stored)
		if err != nil {
			s.record(operation, "error", start)
			return member.Projection{}, err
		}
		m.ApplyQualityPolicy(s.quality)

		now := s.now()
		if err := apply(m, now); err != nil {
			s.record(operation, "rejected", start)
			return member.Projection{}, err
		}

		p := m.Projection(now)
		events := m.DrainEvents()
		err = s.store.Update(ctx, p, stored.Version, events)
		if err == nil {
			s.cacheSet(ctx, p)
			s.recordEvents(events)
			s.record(operation, "ok", start)
			return p, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			s.record(operation, "error", start)
			return member.Projection{}, err
		}

		if s.metrics != nil {
			s.metrics.VersionConflicts.Inc()
		}
		s.cacheInvalidate(ctx, id)
		if attempt >= conflictRetries {
			s.record(operation, "conflict", start)
			s.logf("giving up after %d conflicts op=%s id=%s", attempt+1, operation, id)
			return member.Projection{}, err
		}
	}
}

func (s *Service) cacheSet(ctx context.Context, p member.Projection) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, p); err != nil {
		s.logf("cache set failed id=%s: %v", p.ID, err)
	}
}

func (s *Service) cacheInvalidate(ctx context.Context, id domain.MemberID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logf("cache invalidate failed id=%s: %v", id, err)
	}
}

func (s *Service) record(operation, outcome string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordOperation(operation, outcome, start)
	}
}

func (s *Service) recordEvents(events []member.Event) {
	if s.metrics == nil {
		return
	}
	types := make([]string, len(events))
	for i, ev := range events {
		types[i] = string(ev.Type)
	}
	s.metrics.RecordEvents(types)
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
