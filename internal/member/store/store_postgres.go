package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"mirathi/internal/member"
	"mirathi/pkg/domain"
	"mirathi/pkg/platform/sentinel"
)

// Schema is the DDL for the member tables. Applied by migrations in
// deployment and by the container manager in integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS family_members (
	id         UUID PRIMARY KEY,
	family_id  UUID NOT NULL,
	version    INT NOT NULL,
	projection JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_family_members_family_id ON family_members (family_id);

CREATE TABLE IF NOT EXISTS outbox (
	id             UUID PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id   UUID NOT NULL,
	event_type     TEXT NOT NULL,
	payload        JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	published_at   TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_outbox_unpublished ON outbox (created_at) WHERE published_at IS NULL;
`

const uniqueViolation = "23505"

// PostgresStore is the durable Store. The projection row and the
// drained events commit in one transaction; a relay worker publishes
// the outbox rows afterwards.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, p member.Projection, events []member.Event) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal member projection: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert member: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO family_members (id, family_id, version, projection, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.FamilyID, p.Version, body, time.Now().UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return sentinel.ErrAlreadyExists
		}
		return fmt.Errorf("insert member: %w", err)
	}

	if err := appendOutbox(ctx, tx, events); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert member: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id domain.MemberID) (member.Projection, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT projection FROM family_members WHERE id = $1
	`, id.String()).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return member.Projection{}, sentinel.ErrNotFound
	}
	if err != nil {
		return member.Projection{}, fmt.Errorf("query member: %w", err)
	}

	var p member.Projection
	if err := json.Unmarshal(body, &p); err != nil {
		return member.Projection{}, fmt.Errorf("unmarshal member projection: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListByFamily(ctx context.Context, familyID domain.FamilyID) ([]member.Projection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT projection FROM family_members WHERE family_id = $1 ORDER BY updated_at
	`, familyID.String())
	if err != nil {
		return nil, fmt.Errorf("query family members: %w", err)
	}
	defer rows.Close()

	var out []member.Projection
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan member row: %w", err)
		}
		var p member.Projection
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("unmarshal member projection: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate family members: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, p member.Projection, expectedVersion int, events []member.Event) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal member projection: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update member: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE family_members
		SET version = $1, projection = $2, updated_at = $3
		WHERE id = $4 AND version = $5
	`, p.Version, body, time.Now().UTC(), p.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update member rows affected: %w", err)
	}
	if affected == 0 {
		// Distinguish a stale version from a missing row.
		var exists bool
		if err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM family_members WHERE id = $1)
		`, p.ID).Scan(&exists); err != nil {
			return fmt.Errorf("check member exists: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}

	if err := appendOutbox(ctx, tx, events); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update member: %w", err)
	}
	return nil
}

// appendOutbox keys each row by the event's own ID so a redelivered
// row stays deduplicable downstream.
func appendOutbox(ctx context.Context, tx *sql.Tx, events []member.Event) error {
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("marshal member event: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, ev.ID, "family_member", ev.MemberID.String(), string(ev.Type), payload, ev.OccurredAt.UTC())
		if err != nil {
			return fmt.Errorf("insert outbox entry: %w", err)
		}
	}
	return nil
}
