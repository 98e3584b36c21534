package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"talentlink/internal/profile/models"
	id "talentlink/pkg/domain"
	"talentlink/pkg/platform/sentinel"
	txcontext "talentlink/pkg/platform/tx"
)

const uniqueViolation = "23505"

// Postgres persists accounts and subject profiles.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (s *Postgres) CreateAccount(ctx context.Context, a *models.Account) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO accounts (id, role, is_premium, premium_expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(a.ID), a.Role.String(), a.IsPremium, a.PremiumExpiresAt, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account %s: %w", a.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Postgres) FindAccount(ctx context.Context, userID id.UserID) (*models.Account, error) {
	var (
		a         models.Account
		accountID uuid.UUID
		role      string
		expiresAt sql.NullTime
	)
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT id, role, is_premium, premium_expires_at, created_at
		FROM accounts WHERE id = $1
	`, uuid.UUID(userID)).Scan(&accountID, &role, &a.IsPremium, &expiresAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	a.ID = id.UserID(accountID)
	a.Role = id.Role(role)
	if expiresAt.Valid {
		t := expiresAt.Time
		a.PremiumExpiresAt = &t
	}
	return &a, nil
}

func (s *Postgres) SetPremium(ctx context.Context, userID id.UserID, isPremium bool, expiresAt *time.Time) error {
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE accounts SET is_premium = $2, premium_expires_at = $3 WHERE id = $1
	`, uuid.UUID(userID), isPremium, expiresAt)
	if err != nil {
		return fmt.Errorf("update premium: %w", err)
	}
	return requireOneRow(res)
}

func (s *Postgres) CreateCandidate(ctx context.Context, c *models.Candidate) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO candidates (
			id, anonymous_id, full_name, email, phone, location, headline, skills,
			show_full_name, show_contact, show_location, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		uuid.UUID(c.ID), c.AnonymousID, c.FullName, c.Email, c.Phone, c.Location, c.Headline,
		pq.Array(c.Skills),
		c.Visibility.ShowFullName, c.Visibility.ShowContact, c.Visibility.ShowLocation,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("candidate %s: %w", c.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (s *Postgres) CreateCompany(ctx context.Context, c *models.Company) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO companies (
			id, anonymous_id, company_name, contact_email, contact_phone, location, sector, description,
			show_company_name, show_contact, show_location, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		uuid.UUID(c.ID), c.AnonymousID, c.CompanyName, c.ContactEmail, c.ContactPhone, c.Location,
		c.Sector, c.Description,
		c.Visibility.ShowCompanyName, c.Visibility.ShowContact, c.Visibility.ShowLocation,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("company %s: %w", c.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

const selectCandidates = `
	SELECT id, anonymous_id, full_name, email, phone, location, headline, skills,
		   show_full_name, show_contact, show_location, created_at, updated_at
	FROM candidates
`

const selectCompanies = `
	SELECT id, anonymous_id, company_name, contact_email, contact_phone, location, sector, description,
		   show_company_name, show_contact, show_location, created_at, updated_at
	FROM companies
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var (
		c           models.Candidate
		candidateID uuid.UUID
		skills      pq.StringArray
	)
	if err := row.Scan(
		&candidateID, &c.AnonymousID, &c.FullName, &c.Email, &c.Phone, &c.Location, &c.Headline, &skills,
		&c.Visibility.ShowFullName, &c.Visibility.ShowContact, &c.Visibility.ShowLocation,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.ID = id.UserID(candidateID)
	c.Skills = []string(skills)
	return &c, nil
}

func scanCompany(row rowScanner) (*models.Company, error) {
	var (
		c         models.Company
		companyID uuid.UUID
	)
	if err := row.Scan(
		&companyID, &c.AnonymousID, &c.CompanyName, &c.ContactEmail, &c.ContactPhone, &c.Location,
		&c.Sector, &c.Description,
		&c.Visibility.ShowCompanyName, &c.Visibility.ShowContact, &c.Visibility.ShowLocation,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.ID = id.UserID(companyID)
	return &c, nil
}

func (s *Postgres) FindCandidate(ctx context.Context, candidateID id.UserID) (*models.Candidate, error) {
	row := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, selectCandidates+` WHERE id = $1`, uuid.UUID(candidateID))
	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	return c, nil
}

func (s *Postgres) FindCompany(ctx context.Context, companyID id.UserID) (*models.Company, error) {
	row := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, selectCompanies+` WHERE id = $1`, uuid.UUID(companyID))
	c, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return c, nil
}

func idStrings(ids []id.UserID) []string {
	out := make([]string, len(ids))
	for i, u := range ids {
		out[i] = u.String()
	}
	return out
}

// FindCandidates loads a batch of candidates in one round trip.
func (s *Postgres) FindCandidates(ctx context.Context, ids []id.UserID) (map[id.UserID]*models.Candidate, error) {
	out := make(map[id.UserID]*models.Candidate, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		selectCandidates+` WHERE id = ANY($1::uuid[])`, pq.Array(idStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

func (s *Postgres) FindCompanies(ctx context.Context, ids []id.UserID) (map[id.UserID]*models.Company, error) {
	out := make(map[id.UserID]*models.Company, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		selectCompanies+` WHERE id = ANY($1::uuid[])`, pq.Array(idStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return out, nil
}

func (s *Postgres) UpdateCandidateVisibility(ctx context.Context, candidateID id.UserID, v models.CandidateVisibility, now time.Time) error {
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE candidates
		SET show_full_name = $2, show_contact = $3, show_location = $4, updated_at = $5
		WHERE id = $1
	`, uuid.UUID(candidateID), v.ShowFullName, v.ShowContact, v.ShowLocation, now)
	if err != nil {
		return fmt.Errorf("update candidate visibility: %w", err)
	}
	return requireOneRow(res)
}

func (s *Postgres) UpdateCompanyVisibility(ctx context.Context, companyID id.UserID, v models.CompanyVisibility, now time.Time) error {
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE companies
		SET show_company_name = $2, show_contact = $3, show_location = $4, updated_at = $5
		WHERE id = $1
	`, uuid.UUID(companyID), v.ShowCompanyName, v.ShowContact, v.ShowLocation, now)
	if err != nil {
		return fmt.Errorf("update company visibility: %w", err)
	}
	return requireOneRow(res)
}

func (s *Postgres) UpdateCandidateName(ctx context.Context, candidateID id.UserID, name string, now time.Time) error {
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE candidates SET full_name = $2, updated_at = $3 WHERE id = $1
	`, uuid.UUID(candidateID), name, now)
	if err != nil {
		return fmt.Errorf("update candidate name: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
