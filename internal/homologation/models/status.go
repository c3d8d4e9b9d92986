package models

import (
	"strings"

	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
)

// Status is the workflow state of a Homologation.
//
// Invariants:
//   - NO_DOCUMENTS may only move to PENDING
//   - every other state may move to any known state (staff decisions)
//   - APPROVED and REJECTED are terminal for the workflow but are not
//     hard-blocked, so staff can reopen a case
type Status string

const (
	StatusNoDocuments Status = "NO_DOCUMENTS"
	StatusPending     Status = "PENDING"
	StatusApproved    Status = "APPROVED"
	StatusRejected    Status = "REJECTED"
	StatusStarted     Status = "STARTED"
)

// AllStatuses lists every known status in declaration order.
var AllStatuses = []Status{
	StatusNoDocuments,
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusStarted,
}

// ParseStatus converts untrusted input into a Status. Matching is
// case-insensitive; unknown values fail with CodeValidation.
func ParseStatus(s string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !candidate.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown homologation status").
			WithReason("unknown_status").
			WithMeta("status", s)
	}
	return candidate, nil
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	switch s {
	case StatusNoDocuments, StatusPending, StatusApproved, StatusRejected, StatusStarted:
		return true
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo validates a status write. It is the only place transition
// rules live; every status update in the workflow goes through it.
func (s Status) CanTransitionTo(target Status) error {
	if !target.IsValid() {
		return dErrors.New(dErrors.CodeInvalidTransition, "unknown target status").
			WithReason("unknown_status").
			WithMeta("from", string(s)).
			WithMeta("to", string(target))
	}
	if s == StatusNoDocuments && target != StatusPending {
		return dErrors.New(dErrors.CodeInvalidTransition, "a homologation without documents can only move to PENDING").
			WithReason("no_documents").
			WithMeta("from", string(s)).
			WithMeta("to", string(target))
	}
	return nil
}
