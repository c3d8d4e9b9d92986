package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
)

const homologationColumns = `
	id, student_id, institution, origin_program, graduation_date, education_level,
	target_program, schedule, modality, city, program_code, curriculum_code, period,
	semester_count, observations, ticket_number, status, created_at, updated_at`

type Homologations struct{ base }

func NewHomologations(db *sql.DB) *Homologations {
	return &Homologations{base{db: db}}
}

func (s *Homologations) Create(ctx context.Context, h *models.Homologation) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO homologations (`+homologationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		uuid.UUID(h.ID), uuid.UUID(h.StudentID), h.Institution, h.OriginProgram, nullTime(h.GraduationDate),
		h.EducationLevel, h.TargetProgram, h.Schedule, h.Modality, h.City, h.ProgramCode, h.CurriculumCode,
		h.Period, h.SemesterCount, h.Observations, h.TicketNumber, string(h.Status), h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert homologation: %w", translate(err))
	}
	return nil
}

func (s *Homologations) Update(ctx context.Context, h *models.Homologation) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE homologations SET
			institution = $2, origin_program = $3, graduation_date = $4, education_level = $5,
			target_program = $6, schedule = $7, modality = $8, city = $9, program_code = $10,
			curriculum_code = $11, period = $12, semester_count = $13, observations = $14,
			ticket_number = $15, status = $16, updated_at = $17
		WHERE id = $1`,
		uuid.UUID(h.ID), h.Institution, h.OriginProgram, nullTime(h.GraduationDate), h.EducationLevel,
		h.TargetProgram, h.Schedule, h.Modality, h.City, h.ProgramCode, h.CurriculumCode, h.Period,
		h.SemesterCount, h.Observations, h.TicketNumber, string(h.Status), h.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update homologation: %w", translate(err))
	}
	return requireAffected(res)
}

func (s *Homologations) UpdateStatus(ctx context.Context, homologationID id.HomologationID, status models.Status, at time.Time) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE homologations SET status = $2, updated_at = $3 WHERE id = $1`,
		uuid.UUID(homologationID), string(status), at)
	if err != nil {
		return fmt.Errorf("update homologation status: %w", translate(err))
	}
	return requireAffected(res)
}

func (s *Homologations) FindByID(ctx context.Context, homologationID id.HomologationID) (*models.Homologation, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+homologationColumns+` FROM homologations WHERE id = $1`, uuid.UUID(homologationID))
	h, err := scanHomologation(row)
	if err != nil {
		return nil, fmt.Errorf("find homologation: %w", translate(err))
	}
	return h, nil
}

// ListByStudent returns the student's homologations, most recent first.
func (s *Homologations) ListByStudent(ctx context.Context, studentID id.StudentID) ([]*models.Homologation, error) {
	return s.list(ctx, `WHERE student_id = $1 ORDER BY created_at DESC`, uuid.UUID(studentID))
}

func (s *Homologations) ListByStatus(ctx context.Context, status models.Status) ([]*models.Homologation, error) {
	return s.list(ctx, `WHERE status = $1 ORDER BY created_at DESC`, string(status))
}

func (s *Homologations) ListAll(ctx context.Context) ([]*models.Homologation, error) {
	return s.list(ctx, `ORDER BY created_at DESC`)
}

func (s *Homologations) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT status, COUNT(*) FROM homologations GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count homologations: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int, len(models.AllStatuses))
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[models.Status(status)] = n
	}
	return counts, rows.Err()
}

func (s *Homologations) list(ctx context.Context, clause string, args ...any) ([]*models.Homologation, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT `+homologationColumns+` FROM homologations `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list homologations: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Homologation, 0)
	for rows.Next() {
		h, err := scanHomologation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan homologation: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHomologation(row rowScanner) (*models.Homologation, error) {
	var (
		h                 models.Homologation
		rawID, rawStudent uuid.UUID
		graduation        sql.NullTime
		status            string
	)
	err := row.Scan(&rawID, &rawStudent, &h.Institution, &h.OriginProgram, &graduation, &h.EducationLevel,
		&h.TargetProgram, &h.Schedule, &h.Modality, &h.City, &h.ProgramCode, &h.CurriculumCode, &h.Period,
		&h.SemesterCount, &h.Observations, &h.TicketNumber, &status, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	h.ID = id.HomologationID(rawID)
	h.StudentID = id.StudentID(rawStudent)
	h.Status = models.Status(status)
	if graduation.Valid {
		d := graduation.Time
		h.GraduationDate = &d
	}
	return &h, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
