package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"talentlink/internal/profile/models"
	id "talentlink/pkg/domain"
	"talentlink/pkg/platform/sentinel"
)

// InMemory stores accounts and subject profiles in process memory.
// Returned entities are copies; callers cannot mutate stored state.
type InMemory struct {
	mu         sync.RWMutex
	accounts   map[id.UserID]*models.Account
	candidates map[id.UserID]*models.Candidate
	companies  map[id.UserID]*models.Company
}

func NewInMemory() *InMemory {
	return &InMemory{
		accounts:   make(map[id.UserID]*models.Account),
		candidates: make(map[id.UserID]*models.Candidate),
		companies:  make(map[id.UserID]*models.Company),
	}
}

func (s *InMemory) CreateAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; ok {
		return fmt.Errorf("account %s: %w", account.ID, sentinel.ErrConflict)
	}
	cp := *account
	s.accounts[account.ID] = &cp
	return nil
}

func (s *InMemory) FindAccount(_ context.Context, userID id.UserID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// SetPremium mirrors the billing collaborator's write path.
func (s *InMemory) SetPremium(_ context.Context, userID id.UserID, isPremium bool, expiresAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	a.IsPremium = isPremium
	a.PremiumExpiresAt = expiresAt
	return nil
}

func (s *InMemory) CreateCandidate(_ context.Context, c *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.candidates[c.ID]; ok {
		return fmt.Errorf("candidate %s: %w", c.ID, sentinel.ErrConflict)
	}
	s.candidates[c.ID] = c.Clone()
	return nil
}

func (s *InMemory) CreateCompany(_ context.Context, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[c.ID]; ok {
		return fmt.Errorf("company %s: %w", c.ID, sentinel.ErrConflict)
	}
	s.companies[c.ID] = c.Clone()
	return nil
}

func (s *InMemory) FindCandidate(_ context.Context, candidateID id.UserID) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.candidates[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *InMemory) FindCompany(_ context.Context, companyID id.UserID) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[companyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

// FindCandidates returns the candidates that exist among ids; missing ids are absent
// from the result.
func (s *InMemory) FindCandidates(_ context.Context, ids []id.UserID) (map[id.UserID]*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.UserID]*models.Candidate, len(ids))
	for _, cid := range ids {
		if c, ok := s.candidates[cid]; ok {
			out[cid] = c.Clone()
		}
	}
	return out, nil
}

func (s *InMemory) FindCompanies(_ context.Context, ids []id.UserID) (map[id.UserID]*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.UserID]*models.Company, len(ids))
	for _, cid := range ids {
		if c, ok := s.companies[cid]; ok {
			out[cid] = c.Clone()
		}
	}
	return out, nil
}

func (s *InMemory) UpdateCandidateVisibility(_ context.Context, candidateID id.UserID, v models.CandidateVisibility, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[candidateID]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.ApplyVisibility(v, now)
	return nil
}

func (s *InMemory) UpdateCompanyVisibility(_ context.Context, companyID id.UserID, v models.CompanyVisibility, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[companyID]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.ApplyVisibility(v, now)
	return nil
}

func (s *InMemory) UpdateCandidateName(_ context.Context, candidateID id.UserID, name string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[candidateID]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.FullName = name
	c.UpdatedAt = now
	return nil
}
