package memory

import (
	"context"
	"sync"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
)

// Intakes is an append-only log of intake contact captures.
type Intakes struct {
	mu      sync.RWMutex
	records []models.IntakeContactCapture
}

func NewIntakes() *Intakes {
	return &Intakes{}
}

func (s *Intakes) Create(_ context.Context, capture *models.IntakeContactCapture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *capture)
	return nil
}

func (s *Intakes) List() []models.IntakeContactCapture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.IntakeContactCapture{}, s.records...)
}
