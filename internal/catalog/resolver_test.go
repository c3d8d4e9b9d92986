package catalog_test

//go:generate mockgen -source=resolver.go -destination=mocks/mocks.go -package=mocks ProgramCatalog,AcademicCalendar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/cavidescun/314q34wefasd/internal/catalog"
	"github.com/cavidescun/314q34wefasd/internal/catalog/mocks"
	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

type ResolverSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	programs *mocks.MockProgramCatalog
	calendar *mocks.MockAcademicCalendar
	today    time.Time
	resolver *catalog.Resolver
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.programs = mocks.NewMockProgramCatalog(s.ctrl)
	s.calendar = mocks.NewMockAcademicCalendar(s.ctrl)
	s.today = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s.resolver = s.newResolver()
}

func (s *ResolverSuite) newResolver(opts ...catalog.Option) *catalog.Resolver {
	base := []catalog.Option{
		catalog.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		catalog.WithClock(func() time.Time { return s.today }),
		catalog.WithTimeout(time.Second),
	}
	return catalog.NewResolver(s.programs, s.calendar, append(base, opts...)...)
}

func (s *ResolverSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ResolverSuite) TestProgramQueryConventions() {
	s.Run("virtual modality drops the suffix", func() {
		q := catalog.NewProgramQuery(" Diseño ", "virtual", "NOCTURNA")
		s.Equal(catalog.ProgramQuery{Program: "Diseño", Methodology: "VIRTUAL"}, q)
	})
	s.Run("evening schedule", func() {
		s.Equal("N", catalog.NewProgramQuery("x", "PRESENCIAL", "nocturna").Suffix)
	})
	s.Run("any other schedule is daytime", func() {
		s.Equal("D", catalog.NewProgramQuery("x", "PRESENCIAL", "").Suffix)
		s.Equal("D", catalog.NewProgramQuery("x", "PRESENCIAL", "SABATINA").Suffix)
	})
	s.Run("curriculum suffix stripping", func() {
		s.Equal("ISIS2", catalog.BaseCurriculum("ISIS2N"))
		s.Equal("ISIS2", catalog.BaseCurriculum("ISIS2D"))
		s.Equal("ISIS2", catalog.BaseCurriculum("ISIS2"))
	})
	s.Run("virtual program codes", func() {
		s.True(catalog.VirtualProgram("ADMv"))
		s.True(catalog.VirtualProgram("ADMV"))
		s.False(catalog.VirtualProgram("ISIS"))
	})
}

func (s *ResolverSuite) TestResolveAllLookupsFound() {
	ctx := context.Background()
	s.programs.EXPECT().
		FindProgram(gomock.Any(), catalog.ProgramQuery{Program: "Sistemas", Methodology: "PRESENCIAL", Suffix: "N"}).
		Return(catalog.ProgramCodes{ProgramCode: "ISIS", CurriculumCode: "ISIS2N"}, nil)
	s.calendar.EXPECT().ActivePeriod(gomock.Any(), "ISIS", s.today).Return("26P01", nil)
	s.calendar.EXPECT().SemesterCount(gomock.Any(), "ISIS2").Return(6, nil)

	res := s.resolver.Resolve(ctx, "Sistemas", "PRESENCIAL", "NOCTURNA")

	s.Equal(catalog.ProgramCodes{ProgramCode: "ISIS", CurriculumCode: "ISIS2N"}, res.Codes)
	s.Equal("26P01", res.Period)
	s.Equal(6, res.SemesterCount)
	s.Empty(res.Degraded)
}

func (s *ResolverSuite) TestResolveNoProgramSkipsDependentLookups() {
	s.programs.EXPECT().FindProgram(gomock.Any(), gomock.Any()).Return(catalog.ProgramCodes{}, sentinel.ErrNotFound)

	res := s.resolver.Resolve(context.Background(), "Astronomía", "PRESENCIAL", "DIURNA")

	s.False(res.Codes.Found())
	s.Empty(res.Period)
	s.Zero(res.SemesterCount)
	s.Empty(res.Degraded, "a clean miss is not a degradation")
}

func (s *ResolverSuite) TestResolveDegradesEachLookupIndependently() {
	s.Run("program catalog failure", func() {
		s.programs.EXPECT().FindProgram(gomock.Any(), gomock.Any()).Return(catalog.ProgramCodes{}, errors.New("connection refused"))

		res := s.resolver.Resolve(context.Background(), "Sistemas", "PRESENCIAL", "DIURNA")
		s.Equal([]string{catalog.LookupProgram}, res.Degraded)
		s.False(res.Codes.Found())
	})

	s.Run("calendar failure keeps program codes and semester count", func() {
		s.programs.EXPECT().FindProgram(gomock.Any(), gomock.Any()).
			Return(catalog.ProgramCodes{ProgramCode: "ISIS", CurriculumCode: "ISIS2D"}, nil)
		s.calendar.EXPECT().ActivePeriod(gomock.Any(), "ISIS", s.today).Return("", context.DeadlineExceeded)
		s.calendar.EXPECT().SemesterCount(gomock.Any(), "ISIS2").Return(6, nil)

		res := s.resolver.Resolve(context.Background(), "Sistemas", "PRESENCIAL", "DIURNA")
		s.Equal([]string{catalog.LookupPeriod}, res.Degraded)
		s.Equal("ISIS", res.Codes.ProgramCode)
		s.Empty(res.Period)
		s.Equal(6, res.SemesterCount)
	})

	s.Run("semester failure", func() {
		s.programs.EXPECT().FindProgram(gomock.Any(), gomock.Any()).
			Return(catalog.ProgramCodes{ProgramCode: "ISIS", CurriculumCode: "ISIS2D"}, nil)
		s.calendar.EXPECT().ActivePeriod(gomock.Any(), "ISIS", s.today).Return("26P01", nil)
		s.calendar.EXPECT().SemesterCount(gomock.Any(), "ISIS2").Return(0, errors.New("timeout"))

		res := s.resolver.Resolve(context.Background(), "Sistemas", "PRESENCIAL", "DIURNA")
		s.Equal([]string{catalog.LookupSemester}, res.Degraded)
		s.Equal("26P01", res.Period)
		s.Zero(res.SemesterCount)
	})
}

func (s *ResolverSuite) TestLookupsCarryDeadline() {
	s.programs.EXPECT().FindProgram(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ catalog.ProgramQuery) (catalog.ProgramCodes, error) {
			deadline, ok := ctx.Deadline()
			s.True(ok)
			s.WithinDuration(time.Now().Add(time.Second), deadline, 500*time.Millisecond)
			return catalog.ProgramCodes{}, sentinel.ErrNotFound
		})

	s.resolver.ResolveProgramCode(context.Background(), "Sistemas", "PRESENCIAL", "DIURNA")
}

func (s *ResolverSuite) TestMissingBackendsDegrade() {
	r := catalog.NewResolver(nil, nil, catalog.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	res := r.Resolve(context.Background(), "Sistemas", "PRESENCIAL", "DIURNA")
	s.Equal([]string{catalog.LookupProgram}, res.Degraded)
	s.Empty(r.ResolveActivePeriod(context.Background(), "ISIS"))
	s.Zero(r.ResolveSemesterCount(context.Background(), "ISIS2D"))
}

func (s *ResolverSuite) TestCachedLookupsSkipTheCatalog() {
	cache := catalog.NewInMemoryCache(time.Minute)
	resolver := s.newResolver(catalog.WithCache(cache))

	s.programs.EXPECT().FindProgram(gomock.Any(), gomock.Any()).
		Return(catalog.ProgramCodes{ProgramCode: "ISIS", CurriculumCode: "ISIS2D"}, nil).
		Times(1)
	s.calendar.EXPECT().ActivePeriod(gomock.Any(), "ISIS", s.today).Return("26P01", nil).Times(1)
	s.calendar.EXPECT().SemesterCount(gomock.Any(), "ISIS2").Return(6, nil).Times(1)

	first := resolver.Resolve(context.Background(), "Sistemas", "PRESENCIAL", "DIURNA")
	second := resolver.Resolve(context.Background(), "sistemas", "presencial", "DIURNA")

	s.Equal(first, second)
	s.Equal("26P01", second.Period)
}

func (s *ResolverSuite) TestMissesAreNotCached() {
	resolver := s.newResolver(catalog.WithCache(catalog.NewInMemoryCache(time.Minute)))

	s.programs.EXPECT().FindProgram(gomock.Any(), gomock.Any()).
		Return(catalog.ProgramCodes{}, sentinel.ErrNotFound).
		Times(2)

	resolver.ResolveProgramCode(context.Background(), "Sistemas", "PRESENCIAL", "DIURNA")
	resolver.ResolveProgramCode(context.Background(), "Sistemas", "PRESENCIAL", "DIURNA")
}

func (s *ResolverSuite) TestSchedules() {
	s.programs.EXPECT().ListCurriculumCodes(gomock.Any(), "Sistemas", "PRESENCIAL").
		Return([]string{"ISIS1D", "ISIS2D", "ISIS2N", "ISISX"}, nil)

	schedules, err := s.resolver.Schedules(context.Background(), " Sistemas ", "PRESENCIAL")
	s.Require().NoError(err)
	s.Equal([]string{catalog.ScheduleDaytime, catalog.ScheduleEvening}, schedules)
}

func (s *ResolverSuite) TestCities() {
	s.Run("strips the regional qualifier", func() {
		s.programs.EXPECT().ListCampuses(gomock.Any(), catalog.ProgramQuery{Program: "Sistemas", Methodology: "PRESENCIAL", Suffix: "N"}).
			Return([]string{"REGIONAL BOGOTA", "Regional  Ibagué", "REGIONAL"}, nil)

		cities, err := s.resolver.Cities(context.Background(), "Sistemas", "PRESENCIAL", "nocturna")
		s.Require().NoError(err)
		s.Equal([]string{"BOGOTA", "Ibagué"}, cities)
	})

	s.Run("rejects unknown schedules", func() {
		_, err := s.resolver.Cities(context.Background(), "Sistemas", "PRESENCIAL", "SABATINA")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ResolverSuite) TestBrowseFailuresSurface() {
	s.Run("missing input", func() {
		_, err := s.resolver.Methodologies(context.Background(), "  ")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("catalog error", func() {
		s.programs.EXPECT().ListMethodologies(gomock.Any(), "Sistemas").Return(nil, errors.New("down"))
		_, err := s.resolver.Methodologies(context.Background(), "Sistemas")
		s.True(dErrors.HasCode(err, dErrors.CodeCatalogUnavailable))
	})

	s.Run("empty result is an empty list", func() {
		s.programs.EXPECT().ListRelatedPrograms(gomock.Any(), "Contabilidad").Return(nil, nil)
		related, err := s.resolver.RelatedPrograms(context.Background(), "Contabilidad")
		s.Require().NoError(err)
		s.NotNil(related)
		s.Empty(related)
	})

	s.Run("institution programs", func() {
		s.programs.EXPECT().ListInstitutionPrograms(gomock.Any(), "SENA").Return([]string{"TECNOLOGO EN SISTEMAS"}, nil)
		programs, err := s.resolver.InstitutionPrograms(context.Background(), "SENA")
		s.Require().NoError(err)
		s.Equal([]string{"TECNOLOGO EN SISTEMAS"}, programs)
	})
}

func (s *ResolverSuite) TestSubjects() {
	s.programs.EXPECT().ListSubjects(gomock.Any(), "ISIS", "ISIS2D", 4).
		Return([]catalog.Subject{{SubjectCode: "M101", Level: 1}}, nil)

	subjects, err := s.resolver.Subjects(context.Background(), "ISIS", "ISIS2D", 4)
	s.Require().NoError(err)
	s.Len(subjects, 1)

	s.programs.EXPECT().ListSubjects(gomock.Any(), "ISIS", "ISIS2D", 4).Return(nil, errors.New("down"))
	_, err = s.resolver.Subjects(context.Background(), "ISIS", "ISIS2D", 4)
	s.True(dErrors.HasCode(err, dErrors.CodeCatalogUnavailable))
}
