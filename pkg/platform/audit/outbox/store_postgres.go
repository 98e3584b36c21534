package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	txcontext "talentlink/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Drain(ctx context.Context, limit int, fn func(ctx context.Context, records []Record) error) (int, error) {
	var published int
	err := txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		exec := txcontext.ExecutorFrom(ctx, s.db)
		rows, err := exec.QueryContext(ctx, `
			SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
			FROM outbox
			WHERE published_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		`, limit)
		if err != nil {
			return fmt.Errorf("claim outbox rows: %w", err)
		}
		records, err := scanRecords(rows)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}

		if err := fn(ctx, records); err != nil {
			return err
		}

		ids := make([]uuid.UUID, len(records))
		for i, r := range records {
			ids[i] = r.ID
		}
		if _, err := exec.ExecContext(ctx, `
			UPDATE outbox SET published_at = $1 WHERE id = ANY($2::uuid[])
		`, time.Now(), pq.Array(uuidStrings(ids))); err != nil {
			return fmt.Errorf("mark outbox rows published: %w", err)
		}
		published = len(records)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()
	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.AggregateType, &r.AggregateID, &r.EventType, &r.Payload, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox rows: %w", err)
	}
	return records, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, u := range ids {
		out[i] = u.String()
	}
	return out
}
