package models

import (
	"strings"

	dErrors "talentlink/pkg/domain-errors"
)

// Status is the lifecycle state of an application.
type Status string

const (
	StatusPending            Status = "PENDING"
	StatusReviewed           Status = "REVIEWED"
	StatusShortlisted        Status = "SHORTLISTED"
	StatusInterviewScheduled Status = "INTERVIEW_SCHEDULED"
	StatusSelected           Status = "SELECTED"
	StatusRejected           Status = "REJECTED"
	StatusWithdrawn          Status = "WITHDRAWN"
)

// forwardRank orders the forward pipeline. Off-ramps have no rank.
var forwardRank = map[Status]int{
	StatusPending:            0,
	StatusReviewed:           1,
	StatusShortlisted:        2,
	StatusInterviewScheduled: 3,
	StatusSelected:           4,
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid application status")
	}
	return st, nil
}

func (s Status) IsValid() bool {
	if _, ok := forwardRank[s]; ok {
		return true
	}
	return s == StatusRejected || s == StatusWithdrawn
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusSelected || s == StatusRejected || s == StatusWithdrawn
}

// IsMessagingEligible reports whether an industry may message in this state.
func (s Status) IsMessagingEligible() bool {
	return s == StatusShortlisted || s == StatusInterviewScheduled
}

func (s Status) String() string {
	return string(s)
}

// CanTransition is the single transition table for applications.
//
//  1. Nothing leaves a terminal status.
//  2. REJECTED and WITHDRAWN are reachable from every non-terminal status.
//  3. Forward statuses are reachable only from a strictly lower rank.
func CanTransition(from, to Status) bool {
	if from.IsTerminal() || !to.IsValid() {
		return false
	}
	if to == StatusRejected || to == StatusWithdrawn {
		return true
	}
	fromRank, ok := forwardRank[from]
	if !ok {
		return false
	}
	return forwardRank[to] > fromRank
}
