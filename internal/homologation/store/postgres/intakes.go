package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
)

type Intakes struct{ base }

func NewIntakes(db *sql.DB) *Intakes {
	return &Intakes{base{db: db}}
}

func (s *Intakes) Create(ctx context.Context, c *models.IntakeContactCapture) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO intake_contact_captures (id, phone, landline, email, client_ip, device_summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(c.ID), c.Phone, c.Landline, c.Email, c.ClientIP, c.DeviceSummary, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert intake capture: %w", translate(err))
	}
	return nil
}
