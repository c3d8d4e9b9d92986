// Package memory holds in-memory record stores used in development and tests.
// They enforce the same uniqueness rules as the Postgres stores.
package memory

import (
	"context"
	"sync"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

type Students struct {
	mu           sync.RWMutex
	byID         map[id.StudentID]*models.Student
	byNationalID map[id.NationalID]id.StudentID
}

func NewStudents() *Students {
	return &Students{
		byID:         make(map[id.StudentID]*models.Student),
		byNationalID: make(map[id.NationalID]id.StudentID),
	}
}

func (s *Students) Create(_ context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byNationalID[student.NationalID]; ok {
		return sentinel.ErrConflict
	}
	cp := *student
	s.byID[student.ID] = &cp
	s.byNationalID[student.NationalID] = student.ID
	return nil
}

func (s *Students) FindByID(_ context.Context, studentID id.StudentID) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.byID[studentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *student
	return &cp, nil
}

func (s *Students) FindByNationalID(_ context.Context, nationalID id.NationalID) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	studentID, ok := s.byNationalID[nationalID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.byID[studentID]
	return &cp, nil
}
