package memory

import (
	"context"
	"sync"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

type Contacts struct {
	mu        sync.RWMutex
	byStudent map[id.StudentID]*models.Contact
}

func NewContacts() *Contacts {
	return &Contacts{byStudent: make(map[id.StudentID]*models.Contact)}
}

func (s *Contacts) Create(_ context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byStudent[contact.StudentID]; ok {
		return sentinel.ErrConflict
	}
	cp := *contact
	s.byStudent[contact.StudentID] = &cp
	return nil
}

func (s *Contacts) Update(_ context.Context, contact *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.byStudent[contact.StudentID]
	if !ok || existing.ID != contact.ID {
		return sentinel.ErrNotFound
	}
	cp := *contact
	s.byStudent[contact.StudentID] = &cp
	return nil
}

func (s *Contacts) FindByStudentID(_ context.Context, studentID id.StudentID) (*models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	contact, ok := s.byStudent[studentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *contact
	return &cp, nil
}
