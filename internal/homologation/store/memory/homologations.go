package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

type Homologations struct {
	mu   sync.RWMutex
	byID map[id.HomologationID]*models.Homologation
}

func NewHomologations() *Homologations {
	return &Homologations{byID: make(map[id.HomologationID]*models.Homologation)}
}

func (s *Homologations) Create(_ context.Context, h *models.Homologation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[h.ID]; ok {
		return sentinel.ErrConflict
	}
	s.byID[h.ID] = clone(h)
	return nil
}

func (s *Homologations) Update(_ context.Context, h *models.Homologation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[h.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.byID[h.ID] = clone(h)
	return nil
}

func (s *Homologations) UpdateStatus(_ context.Context, homologationID id.HomologationID, status models.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.byID[homologationID]
	if !ok {
		return sentinel.ErrNotFound
	}
	h.Status = status
	h.UpdatedAt = at
	return nil
}

func (s *Homologations) FindByID(_ context.Context, homologationID id.HomologationID) (*models.Homologation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byID[homologationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(h), nil
}

// ListByStudent returns the student's homologations, most recent first.
func (s *Homologations) ListByStudent(_ context.Context, studentID id.StudentID) ([]*models.Homologation, error) {
	return s.filter(func(h *models.Homologation) bool { return h.StudentID == studentID }), nil
}

func (s *Homologations) ListByStatus(_ context.Context, status models.Status) ([]*models.Homologation, error) {
	return s.filter(func(h *models.Homologation) bool { return h.Status == status }), nil
}

func (s *Homologations) ListAll(_ context.Context) ([]*models.Homologation, error) {
	return s.filter(func(*models.Homologation) bool { return true }), nil
}

func (s *Homologations) CountByStatus(_ context.Context) (map[models.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, h := range s.byID {
		counts[h.Status]++
	}
	return counts, nil
}

func (s *Homologations) filter(keep func(*models.Homologation) bool) []*models.Homologation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Homologation, 0)
	for _, h := range s.byID {
		if keep(h) {
			out = append(out, clone(h))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func clone(h *models.Homologation) *models.Homologation {
	cp := *h
	if h.GraduationDate != nil {
		d := *h.GraduationDate
		cp.GraduationDate = &d
	}
	return &cp
}
