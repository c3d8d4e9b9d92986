package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	emailutil "github.com/cavidescun/314q34wefasd/pkg/email"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

const (
	ticketSubject   = "Homologación de títulos"
	ticketRequest   = "Homologación"
	ticketCategory  = "Homologaciones"
	ticketCategory2 = "Reconocimiento de títulos"
	ticketCategory3 = "Estudio de homologación"

	ticketCreatedMessage = "Ticket creado exitosamente"
	emailSentMessage     = "Correo enviado exitosamente"
	emailFailedMessage   = "No fue posible enviar el correo de confirmación"
)

// Finalize runs the fourth stage. The ticket is mandatory: without a ticket
// number nothing is written and no email goes out. The email is best effort
// and its outcome is reported in the result.
func (s *Service) Finalize(ctx context.Context, cmd models.FinalizeCommand) (_ *models.FinalizeResult, err error) {
	ctx, finish := s.startStage(ctx, stageFinalize)
	defer finish(&err)

	student, err := s.findStudent(ctx, cmd.NationalID)
	if err != nil {
		return nil, err
	}
	homologation, err := s.latestHomologation(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	switch homologation.Status {
	case models.StatusPending:
		return nil, dErrors.New(dErrors.CodePreconditionFailed, "homologation is already pending review").
			WithReason("already_pending")
	case models.StatusNoDocuments:
		return nil, dErrors.New(dErrors.CodePreconditionFailed, "homologation has no documents").
			WithReason("no_documents")
	}
	contact, err := s.contacts.FindByStudentID(ctx, student.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, storeError(err, "failed to load contact")
	}
	if contact == nil || strings.TrimSpace(contact.Email) == "" {
		return nil, dErrors.New(dErrors.CodePreconditionFailed, "student has no contact email").
			WithReason("missing_contact_email")
	}

	ticket, err := s.createTicket(ctx, student, contact, homologation)
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, audit.EventTicketCreated,
		"national_id", student.NationalID.String(),
		"homologation_id", homologation.ID.String(),
		"ticket_number", ticket.Number,
	)

	emailOutcome := s.sendConfirmation(ctx, student, contact, homologation)

	now := s.now(ctx)
	from := homologation.Status
	if err := homologation.TransitionTo(models.StatusPending, now); err != nil {
		return nil, err
	}
	homologation.TicketNumber = ticket.Number
	if obs := strings.TrimSpace(cmd.Observations); obs != "" {
		homologation.Observations = obs
	}
	if err := s.homologations.Update(ctx, homologation); err != nil {
		return nil, storeError(err, "failed to persist finalization")
	}

	s.metrics.IncTransition(from.String(), homologation.Status.String())
	s.logAudit(ctx, audit.EventStatusChanged,
		"national_id", student.NationalID.String(),
		"homologation_id", homologation.ID.String(),
		"status", homologation.Status.String(),
		"from", from.String(),
	)

	return &models.FinalizeResult{
		Homologation: homologation,
		Email:        emailOutcome,
		Ticket: models.TicketOutcome{
			Created:      true,
			TicketNumber: ticket.Number,
			Message:      ticketCreatedMessage,
		},
	}, nil
}

func (s *Service) createTicket(ctx context.Context, student *models.Student, contact *models.Contact, h *models.Homologation) (*models.Ticket, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeouts.Ticketing)
	defer cancel()

	req := models.TicketRequest{
		FullName:      student.FullName,
		NationalID:    student.NationalID,
		Phone:         contact.Phone,
		PersonalEmail: contact.Email,
		Program:       h.TargetProgram,
		Modality:      h.Modality,
		Period:        h.Period,
		City:          h.City,
		Subject:       ticketSubject,
		Request:       ticketRequest,
		Category:      ticketCategory,
		Category2:     ticketCategory2,
		Category3:     ticketCategory3,
		Description:   ticketDescription(h),
	}
	ticket, err := s.ticketing.CreateTicket(callCtx, req)
	if err != nil {
		s.collaboratorFailed(ctx, "ticketing", err)
		return nil, dErrors.Wrap(err, dErrors.CodeTicketingUnavailable, "failed to create ticket")
	}
	if ticket == nil || strings.TrimSpace(ticket.Number) == "" {
		return nil, dErrors.New(dErrors.CodeTicketingUnavailable, "ticketing returned no ticket number").
			WithReason("missing_ticket_number")
	}
	return ticket, nil
}

func ticketDescription(h *models.Homologation) string {
	return fmt.Sprintf("Institución de origen: %s. Programa de origen: %s. Programa a homologar: %s.",
		orDefault(h.Institution, notSpecifiedFem),
		orDefault(h.OriginProgram, notSpecifiedFem),
		orDefault(h.TargetProgram, notSpecifiedFem),
	)
}

func (s *Service) sendConfirmation(ctx context.Context, student *models.Student, contact *models.Contact, h *models.Homologation) models.EmailOutcome {
	callCtx, cancel := context.WithTimeout(ctx, s.timeouts.Email)
	defer cancel()

	recipient := emailutil.Normalize(contact.Email)
	err := s.notifier.SendConfirmationEmail(callCtx, models.ConfirmationEmail{
		To:          recipient,
		StudentName: student.FullName,
		Institution: orDefault(h.Institution, notSpecifiedFem),
		Program:     orDefault(h.OriginProgram, notSpecifiedFem),
	})
	if err != nil {
		s.collaboratorFailed(ctx, "email", err)
		s.logAudit(ctx, audit.EventNotificationFailed,
			"national_id", student.NationalID.String(),
			"homologation_id", h.ID.String(),
			"recipient", emailutil.Mask(recipient),
		)
		return models.EmailOutcome{Delivered: false, Recipient: recipient, Message: emailFailedMessage}
	}
	return models.EmailOutcome{Delivered: true, Recipient: recipient, Message: emailSentMessage}
}
