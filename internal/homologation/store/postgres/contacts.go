package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
)

type Contacts struct{ base }

func NewContacts(db *sql.DB) *Contacts {
	return &Contacts{base{db: db}}
}

func (s *Contacts) Create(ctx context.Context, c *models.Contact) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO contacts (id, student_id, phone, landline, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(c.ID), uuid.UUID(c.StudentID), c.Phone, c.Landline, c.Email, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", translate(err))
	}
	return nil
}

func (s *Contacts) Update(ctx context.Context, c *models.Contact) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE contacts SET phone = $2, landline = $3, email = $4, updated_at = $5
		WHERE id = $1`,
		uuid.UUID(c.ID), c.Phone, c.Landline, c.Email, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update contact: %w", translate(err))
	}
	return requireAffected(res)
}

func (s *Contacts) FindByStudentID(ctx context.Context, studentID id.StudentID) (*models.Contact, error) {
	var (
		rawID, rawStudent uuid.UUID
		c                 models.Contact
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT id, student_id, phone, landline, email, created_at, updated_at
		FROM contacts WHERE student_id = $1`, uuid.UUID(studentID)).
		Scan(&rawID, &rawStudent, &c.Phone, &c.Landline, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", translate(err))
	}
	c.ID = id.ContactID(rawID)
	c.StudentID = id.StudentID(rawStudent)
	return &c, nil
}
