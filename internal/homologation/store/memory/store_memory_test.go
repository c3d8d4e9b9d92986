package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/cavidescun/314q34wefasd/internal/homologation/models"
	id "github.com/cavidescun/314q34wefasd/pkg/domain"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx           context.Context
	students      *Students
	contacts      *Contacts
	homologations *Homologations
	documents     *Documents
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.students = NewStudents()
	s.contacts = NewContacts()
	s.homologations = NewHomologations()
	s.documents = NewDocuments()
}

func (s *MemoryStoreSuite) TestStudents() {
	now := time.Now()
	student := models.NewStudent("Ana Pérez", id.NationalID("1020304050"), now)
	s.Require().NoError(s.students.Create(s.ctx, student))

	s.Run("finds by national id", func() {
		found, err := s.students.FindByNationalID(s.ctx, student.NationalID)
		s.Require().NoError(err)
		s.Equal(student.ID, found.ID)
	})

	s.Run("rejects a duplicate national id", func() {
		dup := models.NewStudent("Otra", student.NationalID, now)
		s.ErrorIs(s.students.Create(s.ctx, dup), sentinel.ErrConflict)
	})

	s.Run("missing student is not found", func() {
		_, err := s.students.FindByNationalID(s.ctx, id.NationalID("999999"))
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.students.FindByID(s.ctx, id.NewStudentID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestContacts() {
	studentID := id.NewStudentID()
	contact := models.NewContact(studentID, "3001234567", "", "ana@example.com", time.Now())
	s.Require().NoError(s.contacts.Create(s.ctx, contact))
	s.ErrorIs(s.contacts.Create(s.ctx, contact), sentinel.ErrConflict)

	contact.Apply("3109876543", "6011234", "ana.p@example.com", time.Now())
	s.Require().NoError(s.contacts.Update(s.ctx, contact))

	found, err := s.contacts.FindByStudentID(s.ctx, studentID)
	s.Require().NoError(err)
	s.Equal("3109876543", found.Phone)
	s.Equal("6011234", found.Landline)

	other := models.NewContact(id.NewStudentID(), "1", "", "x@example.com", time.Now())
	s.ErrorIs(s.contacts.Update(s.ctx, other), sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestHomologationsOrderingAndCounts() {
	studentID := id.NewStudentID()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := models.NewHomologation(studentID, base)
	newer := models.NewHomologation(studentID, base.Add(time.Hour))
	s.Require().NoError(s.homologations.Create(s.ctx, older))
	s.Require().NoError(s.homologations.Create(s.ctx, newer))

	list, err := s.homologations.ListByStudent(s.ctx, studentID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(newer.ID, list[0].ID)

	s.Require().NoError(s.homologations.UpdateStatus(s.ctx, older.ID, models.StatusPending, base.Add(2*time.Hour)))
	pending, err := s.homologations.ListByStatus(s.ctx, models.StatusPending)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(older.ID, pending[0].ID)

	counts, err := s.homologations.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts[models.StatusPending])
	s.Equal(1, counts[models.StatusNoDocuments])

	s.ErrorIs(s.homologations.UpdateStatus(s.ctx, id.NewHomologationID(), models.StatusPending, base), sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestHomologationsReturnCopies() {
	h := models.NewHomologation(id.NewStudentID(), time.Now())
	s.Require().NoError(s.homologations.Create(s.ctx, h))

	found, err := s.homologations.FindByID(s.ctx, h.ID)
	s.Require().NoError(err)
	found.Institution = "mutated"

	again, err := s.homologations.FindByID(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Empty(again.Institution)
}

func (s *MemoryStoreSuite) TestDocumentsOnePerHomologation() {
	homologationID := id.NewHomologationID()
	doc := models.NewDocument(homologationID, time.Now())
	s.Require().NoError(s.documents.Create(s.ctx, doc))
	s.ErrorIs(s.documents.Create(s.ctx, models.NewDocument(homologationID, time.Now())), sentinel.ErrConflict)

	doc.Merge(map[models.DocumentType]string{models.DocumentTitle: "https://blob/t.pdf"}, time.Now())
	s.Require().NoError(s.documents.Update(s.ctx, doc))

	found, err := s.documents.FindByHomologationID(s.ctx, homologationID)
	s.Require().NoError(err)
	s.Equal("https://blob/t.pdf", found.TitleURL)

	_, err = s.documents.FindByHomologationID(s.ctx, id.NewHomologationID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestIntakesAppend() {
	intakes := NewIntakes()
	s.Require().NoError(intakes.Create(s.ctx, &models.IntakeContactCapture{ID: id.NewIntakeID(), Phone: "1"}))
	s.Require().NoError(intakes.Create(s.ctx, &models.IntakeContactCapture{ID: id.NewIntakeID(), Phone: "2"}))
	s.Len(intakes.List(), 2)
}
