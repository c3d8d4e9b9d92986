package service

import (
	"context"
	"strings"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
)

// ResolveAcademicData runs the third stage. The target program is always
// persisted; codes are filled in as far as the catalogs answer.
func (s *Service) ResolveAcademicData(ctx context.Context, cmd models.ResolveAcademicCommand) (_ *models.AcademicResult, err error) {
	ctx, finish := s.startStage(ctx, stageAcademic)
	defer finish(&err)

	target := models.TargetProgram{
		Program:  strings.TrimSpace(cmd.Target.Program),
		Modality: strings.ToUpper(strings.TrimSpace(cmd.Target.Modality)),
		Schedule: strings.ToUpper(strings.TrimSpace(cmd.Target.Schedule)),
		City:     strings.TrimSpace(cmd.Target.City),
	}
	if target.Program == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "target program is required").WithReason("missing_program")
	}
	if target.Modality == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "modality is required").WithReason("missing_modality")
	}

	student, err := s.findStudent(ctx, cmd.NationalID)
	if err != nil {
		return nil, err
	}
	homologation, err := s.latestHomologation(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	resolution := s.catalog.Resolve(ctx, target.Program, target.Modality, target.Schedule)
	codes := models.AcademicCodes{
		ProgramCode:    resolution.Codes.ProgramCode,
		CurriculumCode: resolution.Codes.CurriculumCode,
		Period:         resolution.Period,
		SemesterCount:  resolution.SemesterCount,
	}

	homologation.ApplyTarget(target, codes, s.now(ctx))
	if err := s.homologations.Update(ctx, homologation); err != nil {
		return nil, storeError(err, "failed to persist academic data")
	}

	s.logAudit(ctx, audit.EventAcademicDataResolved,
		"national_id", cmd.NationalID.String(),
		"homologation_id", homologation.ID.String(),
		"program_code", codes.ProgramCode,
		"curriculum_code", codes.CurriculumCode,
		"period", codes.Period,
	)
	if len(resolution.Degraded) > 0 {
		s.logAudit(ctx, audit.EventCatalogDegraded,
			"national_id", cmd.NationalID.String(),
			"homologation_id", homologation.ID.String(),
			"reason", strings.Join(resolution.Degraded, ","),
		)
	}

	return &models.AcademicResult{
		Homologation: homologation,
		Codes:        codes,
		Degraded:     resolution.Degraded,
	}, nil
}
