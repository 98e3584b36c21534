package models

import (
	"strings"
	"time"

	id "talentlink/pkg/domain"
	dErrors "talentlink/pkg/domain-errors"
)

const maxBodyLength = 4000

// Message is one entry in the thread attached to an application.
type Message struct {
	ID            id.MessageID
	ApplicationID id.ApplicationID
	SenderID      id.UserID
	RecipientID   id.UserID
	SenderRole    id.Role
	Body          string
	SentAt        time.Time
}

func NewMessage(messageID id.MessageID, appID id.ApplicationID, sender id.UserID, senderRole id.Role, recipient id.UserID, body string, now time.Time) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "message body cannot be empty")
	}
	if len(body) > maxBodyLength {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "message body must be 4000 characters or less")
	}
	if sender == recipient {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "sender and recipient must differ")
	}
	return &Message{
		ID:            messageID,
		ApplicationID: appID,
		SenderID:      sender,
		RecipientID:   recipient,
		SenderRole:    senderRole,
		Body:          body,
		SentAt:        now,
	}, nil
}

// Thread summarizes the conversation on one application.
type Thread struct {
	ApplicationID id.ApplicationID
	CandidateID   id.UserID
	IndustryID    id.UserID
	LastMessage   string
	LastMessageAt time.Time
	MessageCount  int
}

// PartnerOf returns the other participant of the thread.
func (t Thread) PartnerOf(userID id.UserID) id.UserID {
	if t.CandidateID == userID {
		return t.IndustryID
	}
	return t.CandidateID
}
