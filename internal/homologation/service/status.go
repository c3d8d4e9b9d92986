package service

import (
	"context"
	"strings"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
	"github.com/cavidescun/314q34wefasd/pkg/requestcontext"
)

// UpdateStatus applies a staff decision to a homologation. Observations,
// when given, replace the stored ones in the same write.
func (s *Service) UpdateStatus(ctx context.Context, homologationID id.HomologationID, target models.Status, observations string) (*models.StatusChange, error) {
	h, err := s.homologations.FindByID(ctx, homologationID)
	if err != nil {
		return nil, storeError(err, "homologation not found")
	}
	student, err := s.students.FindByID(ctx, h.StudentID)
	if err != nil {
		return nil, storeError(err, "failed to load student")
	}

	now := s.now(ctx)
	from := h.Status
	if err := h.TransitionTo(target, now); err != nil {
		return nil, err
	}

	if obs := strings.TrimSpace(observations); obs != "" {
		h.Observations = obs
		err = s.homologations.Update(ctx, h)
	} else {
		err = s.homologations.UpdateStatus(ctx, h.ID, h.Status, now)
	}
	if err != nil {
		return nil, storeError(err, "failed to update status")
	}

	s.metrics.IncTransition(from.String(), target.String())
	s.logAudit(ctx, audit.EventStatusChanged,
		"national_id", student.NationalID.String(),
		"homologation_id", h.ID.String(),
		"status", target.String(),
		"from", from.String(),
		"actor", requestcontext.Caller(ctx),
	)

	return &models.StatusChange{
		Homologation: h,
		From:         from,
		To:           target,
		ChangedAt:    now,
	}, nil
}

// CloseTicket closes the support ticket of the student's latest homologation.
func (s *Service) CloseTicket(ctx context.Context, nationalID id.NationalID, reason string) (*models.Homologation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "closure reason is required").WithReason("missing_reason")
	}
	student, err := s.findStudent(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	h, err := s.latestHomologation(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if h.TicketNumber == "" {
		return nil, dErrors.New(dErrors.CodePreconditionFailed, "homologation has no ticket").WithReason("no_ticket")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeouts.Ticketing)
	defer cancel()
	if err := s.ticketing.CloseTicket(callCtx, h.TicketNumber, reason); err != nil {
		s.collaboratorFailed(ctx, "ticketing", err)
		return nil, dErrors.Wrap(err, dErrors.CodeTicketingUnavailable, "failed to close ticket").
			WithMeta("ticket_number", h.TicketNumber)
	}

	s.logAudit(ctx, audit.EventTicketClosed,
		"national_id", nationalID.String(),
		"homologation_id", h.ID.String(),
		"status", h.Status.String(),
		"reason", reason,
	)
	return h, nil
}
