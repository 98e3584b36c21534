package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"talentlink/internal/messaging/models"
	id "talentlink/pkg/domain"
	"talentlink/pkg/platform/sentinel"
	txcontext "talentlink/pkg/platform/tx"
)

// Postgres persists messages in the messages table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, msg *models.Message) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO messages (id, application_id, sender_id, recipient_id, sender_role, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		uuid.UUID(msg.ID), uuid.UUID(msg.ApplicationID), uuid.UUID(msg.SenderID), uuid.UUID(msg.RecipientID),
		msg.SenderRole.String(), msg.Body, msg.SentAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("message %s: %w", msg.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *Postgres) ListByApplication(ctx context.Context, appID id.ApplicationID) ([]*models.Message, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT id, application_id, sender_id, recipient_id, sender_role, body, created_at
		FROM messages
		WHERE application_id = $1
		ORDER BY created_at ASC, id ASC
	`, uuid.UUID(appID))
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []*models.Message
	for rows.Next() {
		var (
			m           models.Message
			msgID       uuid.UUID
			application uuid.UUID
			senderID    uuid.UUID
			recipientID uuid.UUID
			senderRole  string
		)
		if err := rows.Scan(&msgID, &application, &senderID, &recipientID, &senderRole, &m.Body, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.ID = id.MessageID(msgID)
		m.ApplicationID = id.ApplicationID(application)
		m.SenderID = id.UserID(senderID)
		m.RecipientID = id.UserID(recipientID)
		m.SenderRole = id.Role(senderRole)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return out, nil
}

func (s *Postgres) HasThread(ctx context.Context, appID id.ApplicationID) (bool, error) {
	var exists bool
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM messages WHERE application_id = $1)
	`, uuid.UUID(appID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check thread: %w", err)
	}
	return exists, nil
}

func (s *Postgres) HasThreadBetween(ctx context.Context, candidateID, industryID id.UserID) (bool, error) {
	var exists bool
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM messages m
			JOIN applications a ON a.id = m.application_id
			WHERE a.candidate_id = $1 AND a.industry_id = $2
		)
	`, uuid.UUID(candidateID), uuid.UUID(industryID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check thread between parties: %w", err)
	}
	return exists, nil
}

// ListThreads returns the latest message and count of every thread userID is part of.
func (s *Postgres) ListThreads(ctx context.Context, userID id.UserID) ([]models.Thread, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT DISTINCT ON (m.application_id)
			m.application_id, a.candidate_id, a.industry_id, m.body, m.created_at,
			COUNT(*) OVER (PARTITION BY m.application_id)
		FROM messages m
		JOIN applications a ON a.id = m.application_id
		WHERE a.candidate_id = $1 OR a.industry_id = $1
		ORDER BY m.application_id, m.created_at DESC
	`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("query threads: %w", err)
	}
	defer rows.Close()

	var out []models.Thread
	for rows.Next() {
		var (
			t           models.Thread
			appID       uuid.UUID
			candidateID uuid.UUID
			industryID  uuid.UUID
		)
		if err := rows.Scan(&appID, &candidateID, &industryID, &t.LastMessage, &t.LastMessageAt, &t.MessageCount); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		t.ApplicationID = id.ApplicationID(appID)
		t.CandidateID = id.UserID(candidateID)
		t.IndustryID = id.UserID(industryID)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate threads: %w", err)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].LastMessageAt.After(out[b].LastMessageAt) })
	return out, nil
}
