package service

import (
	"context"

	"github.com/cavidescun/314q34wefasd/internal/export"
	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
)

// ExportSENA builds the SENA recognition workbook for the student's latest
// homologation from the curriculum subjects up to its semester count.
func (s *Service) ExportSENA(ctx context.Context, nationalID id.NationalID) (*models.SENAExport, error) {
	student, err := s.findStudent(ctx, nationalID)
	if err != nil {
		return nil, err
	}
	h, err := s.latestHomologation(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if !h.HasAcademicCodes() {
		return nil, dErrors.New(dErrors.CodePreconditionFailed, "homologation has incomplete academic codes").
			WithReason("missing_academic_codes")
	}

	subjects, err := s.catalog.Subjects(ctx, h.ProgramCode, h.CurriculumCode, h.SemesterCount)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "no subjects found for the homologation").
			WithReason("subjects_not_found")
	}

	content, err := export.BuildSENA(export.SENAInput{
		NationalID:     student.NationalID.String(),
		ProgramCode:    h.ProgramCode,
		CurriculumCode: h.CurriculumCode,
		Period:         h.Period,
		Subjects:       subjects,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to build workbook")
	}

	s.logAudit(ctx, audit.EventHomologationExported,
		"national_id", nationalID.String(),
		"homologation_id", h.ID.String(),
		"subjects", len(subjects),
	)
	return &models.SENAExport{
		Filename: export.SENAFilename(student.NationalID.String()),
		Content:  content,
		Rows:     len(subjects),
	}, nil
}
