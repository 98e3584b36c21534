package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "talentlink/pkg/domain"
	audit "talentlink/pkg/platform/audit"
	txcontext "talentlink/pkg/platform/tx"
)

// Store implements audit.Store using the transactional outbox pattern.
// Each entry is written to audit_entries and, in the same transaction, to the
// outbox table from which the relay publishes to Kafka.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// OutboxPayload is the JSON structure published to Kafka.
type OutboxPayload struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	Timestamp    string `json:"timestamp"`
	ActorID      string `json:"actor_id"`
	ActorRole    string `json:"actor_role,omitempty"`
	SubjectID    string `json:"subject_id"`
	Action       string `json:"action"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	PremiumGated bool   `json:"premium_gated"`
	LegalBasis   string `json:"legal_basis,omitempty"`
	RequestID    string `json:"request_id,omitempty"`
}

// Append writes the entry and its outbox row. When ctx carries a transaction both
// inserts join it; otherwise they run in a transaction of their own.
func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	if uuid.UUID(entry.ID) == uuid.Nil {
		entry.ID = id.AuditEntryID(uuid.New())
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	payload, err := json.Marshal(OutboxPayload{
		ID:           entry.ID.String(),
		Category:     string(entry.Action.Category()),
		Timestamp:    entry.Timestamp.UTC().Format(time.RFC3339Nano),
		ActorID:      entry.ActorID.String(),
		ActorRole:    entry.ActorRole.String(),
		SubjectID:    entry.SubjectID.String(),
		Action:       string(entry.Action),
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		PremiumGated: entry.PremiumGated,
		LegalBasis:   entry.LegalBasis,
		RequestID:    entry.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	return txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		exec := txcontext.ExecutorFrom(ctx, s.db)
		_, err := exec.ExecContext(ctx, `
			INSERT INTO audit_entries (
				id, actor_id, actor_role, subject_id, action, category,
				resource_type, resource_id, premium_gated, legal_basis, request_id, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`,
			uuid.UUID(entry.ID),
			uuid.UUID(entry.ActorID),
			entry.ActorRole.String(),
			uuid.UUID(entry.SubjectID),
			string(entry.Action),
			string(entry.Action.Category()),
			entry.ResourceType,
			entry.ResourceID,
			entry.PremiumGated,
			entry.LegalBasis,
			entry.RequestID,
			entry.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert audit entry: %w", err)
		}

		_, err = exec.ExecContext(ctx, `
			INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			uuid.New(),
			entry.ResourceType,
			entry.ResourceID,
			string(entry.Action),
			payload,
			time.Now(),
		)
		if err != nil {
			return fmt.Errorf("insert outbox entry: %w", err)
		}
		return nil
	})
}

const selectEntries = `
	SELECT id, actor_id, actor_role, subject_id, action,
		   resource_type, resource_id, premium_gated, legal_basis, request_id, created_at
	FROM audit_entries
`

// ListBySubject returns entries about a subject, newest first.
func (s *Store) ListBySubject(ctx context.Context, subjectID id.UserID) ([]audit.Entry, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		selectEntries+` WHERE subject_id = $1 ORDER BY created_at DESC`, uuid.UUID(subjectID))
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ListByResource returns entries for a resource, newest first.
func (s *Store) ListByResource(ctx context.Context, resourceType, resourceID string) ([]audit.Entry, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		selectEntries+` WHERE resource_type = $1 AND resource_id = $2 ORDER BY created_at DESC`,
		resourceType, resourceID)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]audit.Entry, error) {
	var entries []audit.Entry
	for rows.Next() {
		var (
			entry   audit.Entry
			entryID uuid.UUID
			actor   uuid.UUID
			subject uuid.UUID
			role    string
			action  string
		)
		if err := rows.Scan(
			&entryID,
			&actor,
			&role,
			&subject,
			&action,
			&entry.ResourceType,
			&entry.ResourceID,
			&entry.PremiumGated,
			&entry.LegalBasis,
			&entry.RequestID,
			&entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.ID = id.AuditEntryID(entryID)
		entry.ActorID = id.UserID(actor)
		entry.ActorRole = id.Role(role)
		entry.SubjectID = id.UserID(subject)
		entry.Action = audit.Action(action)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
