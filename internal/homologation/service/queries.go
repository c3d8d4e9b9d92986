package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

// Placeholders shown in listings for fields the student never filled in.
const (
	notSpecified    = "No especificado"
	notSpecifiedFem = "No especificada"
	noObservations  = "Sin observaciones"
)

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func (s *Service) GetHomologation(ctx context.Context, homologationID id.HomologationID) (*models.Homologation, error) {
	h, err := s.homologations.FindByID(ctx, homologationID)
	if err != nil {
		return nil, storeError(err, "homologation not found")
	}
	return h, nil
}

// ListByStudent returns the student's homologations, most recent first.
func (s *Service) ListByStudent(ctx context.Context, nationalID id.NationalID) ([]*models.Homologation, error) {
	student, err := s.findStudent(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	list, err := s.homologations.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, storeError(err, "failed to list homologations")
	}
	return list, nil
}

func (s *Service) ListByStatus(ctx context.Context, status models.Status) ([]*models.Homologation, error) {
	if !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown homologation status").WithReason("unknown_status")
	}
	list, err := s.homologations.ListByStatus(ctx, status)
	if err != nil {
		return nil, storeError(err, "failed to list homologations")
	}
	return list, nil
}

// ListDetails decorates every homologation with its student and document
// URLs. Homologations whose student no longer exists are left out.
func (s *Service) ListDetails(ctx context.Context) ([]models.HomologationDetails, error) {
	all, err := s.homologations.ListAll(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list homologations")
	}

	rows := make([]*models.HomologationDetails, len(all))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.detailsLimit)
	for i, h := range all {
		g.Go(func() error {
			row, err := s.details(gctx, h)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, storeError(err, "failed to load homologation details")
	}

	out := make([]models.HomologationDetails, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			out = append(out, *row)
		}
	}
	return out, nil
}

// details returns nil without error when the student is gone.
func (s *Service) details(ctx context.Context, h *models.Homologation) (*models.HomologationDetails, error) {
	student, err := s.students.FindByID(ctx, h.StudentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "homologation without student",
			"homologation_id", h.ID.String(),
			"student_id", h.StudentID.String(),
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	doc, err := s.documents.FindByHomologationID(ctx, h.ID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	return &models.HomologationDetails{
		HomologationID: h.ID,
		CreatedAt:      h.CreatedAt,
		NationalID:     student.NationalID,
		StudentName:    student.FullName,
		EducationLevel: orDefault(h.EducationLevel, notSpecified),
		OriginProgram:  orDefault(h.OriginProgram, notSpecifiedFem),
		TargetProgram:  orDefault(h.TargetProgram, notSpecifiedFem),
		Status:         h.Status,
		DocumentURLs:   doc.URLs(),
		Observations:   orDefault(h.Observations, noObservations),
	}, nil
}

// StatusCounts returns how many homologations sit in each status. Every
// known status is present, zero when empty.
func (s *Service) StatusCounts(ctx context.Context) (map[models.Status]int, error) {
	counts, err := s.homologations.CountByStatus(ctx)
	if err != nil {
		return nil, storeError(err, "failed to count homologations")
	}
	out := make(map[models.Status]int, len(models.AllStatuses))
	for _, st := range models.AllStatuses {
		out[st] = counts[st]
	}
	return out, nil
}

// RelatedPrograms lists internal programs similar to the origin program of
// the student's first homologation.
func (s *Service) RelatedPrograms(ctx context.Context, nationalID id.NationalID) (*models.RelatedPrograms, error) {
	student, err := s.findStudent(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	list, err := s.homologations.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, storeError(err, "failed to load homologations")
	}
	if len(list) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no homologation found for student").WithReason("homologation_not_found")
	}
	first := list[len(list)-1]
	if strings.TrimSpace(first.Institution) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "homologation has no origin institution").WithReason("missing_institution")
	}
	if strings.TrimSpace(first.OriginProgram) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "homologation has no origin program").WithReason("missing_origin_program")
	}

	programs, err := s.catalog.RelatedPrograms(ctx, first.OriginProgram)
	if err != nil {
		return nil, err
	}
	return &models.RelatedPrograms{
		StudentID:     student.ID,
		StudentName:   student.FullName,
		Institution:   first.Institution,
		OriginProgram: first.OriginProgram,
		Programs:      programs,
	}, nil
}
