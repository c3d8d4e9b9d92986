package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
)

type Students struct{ base }

func NewStudents(db *sql.DB) *Students {
	return &Students{base{db: db}}
}

func (s *Students) Create(ctx context.Context, student *models.Student) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO students (id, full_name, national_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(student.ID), student.FullName, string(student.NationalID), student.CreatedAt, student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert student: %w", translate(err))
	}
	return nil
}

func (s *Students) FindByID(ctx context.Context, studentID id.StudentID) (*models.Student, error) {
	return s.findOne(ctx, `WHERE id = $1`, uuid.UUID(studentID))
}

func (s *Students) FindByNationalID(ctx context.Context, nationalID id.NationalID) (*models.Student, error) {
	return s.findOne(ctx, `WHERE national_id = $1`, string(nationalID))
}

func (s *Students) findOne(ctx context.Context, where string, arg any) (*models.Student, error) {
	var (
		rawID      uuid.UUID
		student    models.Student
		nationalID string
	)
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT id, full_name, national_id, created_at, updated_at FROM students `+where, arg).
		Scan(&rawID, &student.FullName, &nationalID, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("find student: %w", translate(err))
	}
	student.ID = id.StudentID(rawID)
	student.NationalID = id.NationalID(nationalID)
	return &student, nil
}
