package memory

import (
	"context"
	"sync"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

type Documents struct {
	mu             sync.RWMutex
	byHomologation map[id.HomologationID]*models.Document
}

func NewDocuments() *Documents {
	return &Documents{byHomologation: make(map[id.HomologationID]*models.Document)}
}

// Create fails with sentinel.ErrConflict when the homologation already has a
// document row.
func (s *Documents) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byHomologation[doc.HomologationID]; ok {
		return sentinel.ErrConflict
	}
	cp := *doc
	s.byHomologation[doc.HomologationID] = &cp
	return nil
}

func (s *Documents) Update(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byHomologation[doc.HomologationID]
	if !ok || existing.ID != doc.ID {
		return sentinel.ErrNotFound
	}
	cp := *doc
	s.byHomologation[doc.HomologationID] = &cp
	return nil
}

func (s *Documents) FindByHomologationID(_ context.Context, homologationID id.HomologationID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.byHomologation[homologationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}
