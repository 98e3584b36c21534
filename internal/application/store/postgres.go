package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"talentlink/internal/application/models"
	id "talentlink/pkg/domain"
	"talentlink/pkg/platform/sentinel"
	txcontext "talentlink/pkg/platform/tx"
)

// Postgres persists opportunities and applications.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Postgres) CreateOpportunity(ctx context.Context, opp *models.Opportunity) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO opportunities (id, industry_id, title, created_at)
		VALUES ($1, $2, $3, $4)
	`, uuid.UUID(opp.ID), uuid.UUID(opp.IndustryID), opp.Title, opp.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("opportunity %s: %w", opp.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert opportunity: %w", err)
	}
	return nil
}

func (s *Postgres) FindOpportunity(ctx context.Context, opportunityID id.OpportunityID) (*models.Opportunity, error) {
	var (
		opp        models.Opportunity
		oppID      uuid.UUID
		industryID uuid.UUID
	)
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, industry_id, title, created_at FROM opportunities WHERE id = $1
	`, uuid.UUID(opportunityID)).Scan(&oppID, &industryID, &opp.Title, &opp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find opportunity: %w", err)
	}
	opp.ID = id.OpportunityID(oppID)
	opp.IndustryID = id.UserID(industryID)
	return &opp, nil
}

func (s *Postgres) Create(ctx context.Context, app *models.Application) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO applications (
			id, opportunity_id, candidate_id, industry_id, status, cover_letter,
			contact_viewed, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8)
	`,
		uuid.UUID(app.ID), uuid.UUID(app.OpportunityID), uuid.UUID(app.CandidateID), uuid.UUID(app.IndustryID),
		app.Status.String(), app.CoverLetter, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("application for opportunity %s: %w", app.OpportunityID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

const selectApplications = `
	SELECT id, opportunity_id, candidate_id, industry_id, status, cover_letter,
		   contact_viewed, contact_viewed_at, reviewed_at, rejection_reason, interview_at,
		   created_at, updated_at
	FROM applications
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app             models.Application
		appID           uuid.UUID
		opportunityID   uuid.UUID
		candidateID     uuid.UUID
		industryID      uuid.UUID
		status          string
		contactViewedAt sql.NullTime
		reviewedAt      sql.NullTime
		interviewAt     sql.NullTime
	)
	if err := row.Scan(
		&appID, &opportunityID, &candidateID, &industryID, &status, &app.CoverLetter,
		&app.ContactViewed, &contactViewedAt, &reviewedAt, &app.RejectionReason, &interviewAt,
		&app.CreatedAt, &app.UpdatedAt,
	); err != nil {
		return nil, err
	}
	app.ID = id.ApplicationID(appID)
	app.OpportunityID = id.OpportunityID(opportunityID)
	app.CandidateID = id.UserID(candidateID)
	app.IndustryID = id.UserID(industryID)
	app.Status = models.Status(status)
	app.ContactViewedAt = nullTime(contactViewedAt)
	app.ReviewedAt = nullTime(reviewedAt)
	app.InterviewAt = nullTime(interviewAt)
	return &app, nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func (s *Postgres) findOne(ctx context.Context, query string, appID id.ApplicationID) (*models.Application, error) {
	row := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(appID))
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

func (s *Postgres) FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	return s.findOne(ctx, selectApplications+` WHERE id = $1`, appID)
}

// FindForUpdate locks the row until the surrounding transaction ends.
func (s *Postgres) FindForUpdate(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	return s.findOne(ctx, selectApplications+` WHERE id = $1 FOR UPDATE`, appID)
}

func (s *Postgres) list(ctx context.Context, where string, args ...any) ([]*models.Application, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		selectApplications+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	var out []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return out, nil
}

func (s *Postgres) ListByCandidate(ctx context.Context, candidateID id.UserID) ([]*models.Application, error) {
	return s.list(ctx, ` WHERE candidate_id = $1`, uuid.UUID(candidateID))
}

func (s *Postgres) ListByIndustry(ctx context.Context, industryID id.UserID) ([]*models.Application, error) {
	return s.list(ctx, ` WHERE industry_id = $1`, uuid.UUID(industryID))
}

func (s *Postgres) ListBetween(ctx context.Context, candidateID, industryID id.UserID) ([]*models.Application, error) {
	return s.list(ctx, ` WHERE candidate_id = $1 AND industry_id = $2`, uuid.UUID(candidateID), uuid.UUID(industryID))
}

func (s *Postgres) UpdateStatus(ctx context.Context, app *models.Application) error {
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE applications
		SET status = $2, reviewed_at = $3, rejection_reason = $4, interview_at = $5, updated_at = $6
		WHERE id = $1
	`, uuid.UUID(app.ID), app.Status.String(), app.ReviewedAt, app.RejectionReason, app.InterviewAt, app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// MarkContactViewed is a conditional update: it changes a row only while
// contact_viewed is still false, so concurrent callers cannot both succeed.
func (s *Postgres) MarkContactViewed(ctx context.Context, appID id.ApplicationID, now time.Time) (bool, error) {
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE applications
		SET contact_viewed = TRUE, contact_viewed_at = $2
		WHERE id = $1 AND contact_viewed = FALSE
	`, uuid.UUID(appID), now)
	if err != nil {
		return false, fmt.Errorf("mark contact viewed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
