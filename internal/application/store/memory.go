package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"talentlink/internal/application/models"
	id "talentlink/pkg/domain"
	"talentlink/pkg/platform/sentinel"
)

type pairKey struct {
	candidate   id.UserID
	opportunity id.OpportunityID
}

// InMemory stores opportunities and applications in process memory.
type InMemory struct {
	mu            sync.RWMutex
	opportunities map[id.OpportunityID]*models.Opportunity
	applications  map[id.ApplicationID]*models.Application
	byPair        map[pairKey]id.ApplicationID
}

func NewInMemory() *InMemory {
	return &InMemory{
		opportunities: make(map[id.OpportunityID]*models.Opportunity),
		applications:  make(map[id.ApplicationID]*models.Application),
		byPair:        make(map[pairKey]id.ApplicationID),
	}
}

func (s *InMemory) CreateOpportunity(_ context.Context, opp *models.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.opportunities[opp.ID]; ok {
		return fmt.Errorf("opportunity %s: %w", opp.ID, sentinel.ErrConflict)
	}
	cp := *opp
	s.opportunities[opp.ID] = &cp
	return nil
}

func (s *InMemory) FindOpportunity(_ context.Context, opportunityID id.OpportunityID) (*models.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opp, ok := s.opportunities[opportunityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *opp
	return &cp, nil
}

func (s *InMemory) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{candidate: app.CandidateID, opportunity: app.OpportunityID}
	if _, ok := s.byPair[key]; ok {
		return fmt.Errorf("application for opportunity %s: %w", app.OpportunityID, sentinel.ErrConflict)
	}
	s.applications[app.ID] = app.Clone()
	s.byPair[key] = app.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, appID id.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.applications[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return app.Clone(), nil
}

// FindForUpdate is FindByID; in-memory callers serialize through tx.ShardedRunner.
func (s *InMemory) FindForUpdate(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	return s.FindByID(ctx, appID)
}

func (s *InMemory) list(match func(*models.Application) bool) []*models.Application {
	var out []*models.Application
	for _, app := range s.applications {
		if match(app) {
			out = append(out, app.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *InMemory) ListByCandidate(_ context.Context, candidateID id.UserID) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(func(a *models.Application) bool { return a.CandidateID == candidateID }), nil
}

func (s *InMemory) ListByIndustry(_ context.Context, industryID id.UserID) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(func(a *models.Application) bool { return a.IndustryID == industryID }), nil
}

func (s *InMemory) ListBetween(_ context.Context, candidateID, industryID id.UserID) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.list(func(a *models.Application) bool {
		return a.CandidateID == candidateID && a.IndustryID == industryID
	}), nil
}

// UpdateStatus persists the status fields of app. Contact-view fields are not touched.
func (s *InMemory) UpdateStatus(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.applications[app.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	stored.Status = app.Status
	stored.ReviewedAt = app.ReviewedAt
	stored.RejectionReason = app.RejectionReason
	stored.InterviewAt = app.InterviewAt
	stored.UpdatedAt = app.UpdatedAt
	return nil
}

// MarkContactViewed sets the flag only if it is still false and reports whether this
// call set it.
func (s *InMemory) MarkContactViewed(_ context.Context, appID id.ApplicationID, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[appID]
	if !ok {
		return false, sentinel.ErrNotFound
	}
	if app.ContactViewed {
		return false, nil
	}
	app.ApplyContactViewed(now)
	return true, nil
}
