package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"talentlink/internal/messaging/models"
	id "talentlink/pkg/domain"
	"talentlink/pkg/platform/sentinel"
)

// InMemory keeps messages grouped by application.
type InMemory struct {
	mu        sync.RWMutex
	byApp     map[id.ApplicationID][]*models.Message
	messageID map[id.MessageID]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{
		byApp:     make(map[id.ApplicationID][]*models.Message),
		messageID: make(map[id.MessageID]struct{}),
	}
}

func (s *InMemory) Create(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messageID[msg.ID]; ok {
		return fmt.Errorf("message %s: %w", msg.ID, sentinel.ErrConflict)
	}
	cp := *msg
	s.byApp[msg.ApplicationID] = append(s.byApp[msg.ApplicationID], &cp)
	s.messageID[msg.ID] = struct{}{}
	return nil
}

// ListByApplication returns the thread in send order.
func (s *InMemory) ListByApplication(_ context.Context, appID id.ApplicationID) ([]*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.byApp[appID]
	out := make([]*models.Message, 0, len(msgs))
	for _, m := range msgs {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (s *InMemory) HasThread(_ context.Context, appID id.ApplicationID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byApp[appID]) > 0, nil
}

// HasThreadBetween reports whether any application thread links the two parties.
func (s *InMemory) HasThreadBetween(_ context.Context, candidateID, industryID id.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, msgs := range s.byApp {
		if len(msgs) == 0 {
			continue
		}
		c, i := parties(msgs[0])
		if c == candidateID && i == industryID {
			return true, nil
		}
	}
	return false, nil
}

// ListThreads returns one summary per thread userID takes part in, newest first.
func (s *InMemory) ListThreads(_ context.Context, userID id.UserID) ([]models.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Thread
	for appID, msgs := range s.byApp {
		if len(msgs) == 0 {
			continue
		}
		c, i := parties(msgs[0])
		if c != userID && i != userID {
			continue
		}
		last := msgs[len(msgs)-1]
		out = append(out, models.Thread{
			ApplicationID: appID,
			CandidateID:   c,
			IndustryID:    i,
			LastMessage:   last.Body,
			LastMessageAt: last.SentAt,
			MessageCount:  len(msgs),
		})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].LastMessageAt.After(out[b].LastMessageAt) })
	return out, nil
}

// parties returns (candidate, industry) for the thread m belongs to.
func parties(m *models.Message) (id.UserID, id.UserID) {
	if m.SenderRole == id.RoleCandidate {
		return m.SenderID, m.RecipientID
	}
	return m.RecipientID, m.SenderID
}
