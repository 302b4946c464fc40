//go:build integration

package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"mirathi/internal/member"
	"mirathi/internal/member/store"
	"mirathi/internal/outbox"
	"mirathi/internal/person"
	"mirathi/internal/platform/config"
	"mirathi/internal/platform/logger"
	"mirathi/pkg/domain"
	"mirathi/pkg/testutil"
	"mirathi/pkg/testutil/containers"
)

type RelaySuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redpanda *containers.RedpandaContainer
	pool     *pgxpool.Pool
	store    *store.PostgresStore
}

func TestRelaySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.redpanda = mgr.GetRedpanda(s.T())

	pool, err := pgxpool.New(context.Background(), s.postgres.DSN)
	s.Require().NoError(err)
	s.pool = pool
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *RelaySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *RelaySuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "family_members", "outbox")
	s.Require().NoError(err)
}

func (s *RelaySuite) TestPublishesOutboxToKafka() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	now := testutil.Date(2026, 3, 1)

	topic := "mirathi.member.events.relay-test"
	kafkaCfg := config.KafkaConfig{
		Brokers:      s.redpanda.Brokers,
		Topic:        topic,
		Partitions:   1,
		ReplicaCount: 1,
	}
	relayCfg := config.RelayConfig{PollInterval: 100 * time.Millisecond, BatchSize: 50}

	producer, err := kgo.NewClient(kgo.SeedBrokers(s.redpanda.Brokers...))
	s.Require().NoError(err)
	defer producer.Close()

	relay := outbox.NewRelay(s.pool, producer, kafkaCfg, relayCfg, logger.New("relay-test"))
	s.Require().NoError(relay.EnsureTopic(ctx))

	// Two members, five events total in the outbox.
	var memberID domain.MemberID
	for i := 0; i < 2; i++ {
		name, err := person.NewFullName("Amani", "", "Chebet")
		s.Require().NoError(err)
		m, err := member.New(member.CreateFacts{
			ID:       domain.NewMemberID(),
			FamilyID: domain.NewFamilyID(),
			Name:     name,
		}, now)
		s.Require().NoError(err)
		if i == 0 {
			memberID = m.ID()
			s.Require().NoError(m.Archive("relay test", "clerk", now))
		}
		s.Require().NoError(s.store.Insert(ctx, m.Projection(now), m.DrainEvents()))
	}

	relayCtx, stopRelay := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = relay.Run(relayCtx)
	}()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) < 5 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(fetches.Err())
		records = append(records, fetches.Records()...)
	}
	stopRelay()
	<-done

	s.Len(records, 5)

	// Events for one member share a key, so partition order holds.
	var forMember []string
	for _, rec := range records {
		if string(rec.Key) == memberID.String() {
			for _, h := range rec.Headers {
				if h.Key == "event_type" {
					forMember = append(forMember, string(h.Value))
				}
			}
		}
	}
	s.Equal([]string{
		string(member.EventCreated),
		string(member.EventDependencyAssessed),
		string(member.EventArchived),
	}, forMember)

	// Every row is marked published.
	var unpublished int
	err = s.postgres.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM outbox WHERE published_at IS NULL`).Scan(&unpublished)
	s.Require().NoError(err)
	s.Zero(unpublished)
}
