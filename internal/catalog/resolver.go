package catalog

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "github.com/cavidescun/314q34wefasd/pkg/domain-errors"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
	platformstrings "github.com/cavidescun/314q34wefasd/pkg/platform/strings"
)

// ProgramCatalog reads the program catalog. Single-row lookups return
// sentinel.ErrNotFound when nothing matches.
type ProgramCatalog interface {
	FindProgram(ctx context.Context, q ProgramQuery) (ProgramCodes, error)
	ListSubjects(ctx context.Context, programCode, curriculumCode string, maxLevel int) ([]Subject, error)
	ListMethodologies(ctx context.Context, program string) ([]string, error)
	ListCurriculumCodes(ctx context.Context, program, methodology string) ([]string, error)
	ListCampuses(ctx context.Context, q ProgramQuery) ([]string, error)
	ListInstitutionPrograms(ctx context.Context, institution string) ([]string, error)
	ListRelatedPrograms(ctx context.Context, originProgram string) ([]string, error)
}

// AcademicCalendar reads the academic calendar and curricula.
type AcademicCalendar interface {
	ActivePeriod(ctx context.Context, programCode string, today time.Time) (string, error)
	SemesterCount(ctx context.Context, curriculumCode string) (int, error)
}

const defaultLookupTimeout = 5 * time.Second

// Resolver answers catalog questions for the homologation workflow.
// Either back-end may be nil, in which case its lookups degrade.
type Resolver struct {
	programs ProgramCatalog
	calendar AcademicCalendar
	cache    LookupCache
	metrics  *Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
	timeout  time.Duration
	now      func() time.Time
}

type Option func(*Resolver)

func WithCache(cache LookupCache) Option {
	return func(r *Resolver) { r.cache = cache }
}

func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithTimeout bounds each individual lookup.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func NewResolver(programs ProgramCatalog, calendar AcademicCalendar, opts ...Option) *Resolver {
	r := &Resolver{
		programs: programs,
		calendar: calendar,
		logger:   slog.Default(),
		tracer:   otel.Tracer("homologation/catalog"),
		timeout:  defaultLookupTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs the program, period and semester lookups in order. The period
// is keyed on the program code and the semester count on the curriculum code;
// a lookup without its key is skipped rather than degraded.
func (r *Resolver) Resolve(ctx context.Context, program, modality, schedule string) Resolution {
	ctx, span := r.tracer.Start(ctx, "catalog.Resolve")
	defer span.End()

	var res Resolution
	codes, ok := r.lookupProgram(ctx, program, modality, schedule)
	if !ok {
		res.Degraded = append(res.Degraded, LookupProgram)
	}
	res.Codes = codes

	if codes.ProgramCode != "" {
		period, ok := r.lookupPeriod(ctx, codes.ProgramCode)
		if !ok {
			res.Degraded = append(res.Degraded, LookupPeriod)
		}
		res.Period = period
	}
	if codes.CurriculumCode != "" {
		count, ok := r.lookupSemesterCount(ctx, codes.CurriculumCode)
		if !ok {
			res.Degraded = append(res.Degraded, LookupSemester)
		}
		res.SemesterCount = count
	}

	span.SetAttributes(
		attribute.String("catalog.program_code", res.Codes.ProgramCode),
		attribute.String("catalog.period", res.Period),
		attribute.StringSlice("catalog.degraded", res.Degraded),
	)
	return res
}

// ResolveProgramCode finds the catalog codes of a target program. Zero
// ProgramCodes means none, including on catalog failure.
func (r *Resolver) ResolveProgramCode(ctx context.Context, program, modality, schedule string) ProgramCodes {
	codes, _ := r.lookupProgram(ctx, program, modality, schedule)
	return codes
}

// ResolveActivePeriod returns the earliest open period for a program code,
// or "" when there is none.
func (r *Resolver) ResolveActivePeriod(ctx context.Context, programCode string) string {
	period, _ := r.lookupPeriod(ctx, programCode)
	return period
}

// ResolveSemesterCount returns the semester count of the curriculum, or 0.
func (r *Resolver) ResolveSemesterCount(ctx context.Context, curriculumCode string) int {
	count, _ := r.lookupSemesterCount(ctx, curriculumCode)
	return count
}

// The lookup helpers report false only when the lookup degraded. A clean
// miss is (zero, true).

func (r *Resolver) lookupProgram(ctx context.Context, program, modality, schedule string) (ProgramCodes, bool) {
	q := NewProgramQuery(program, modality, schedule)
	key := cacheKey(LookupProgram, strings.ToUpper(q.Program), strings.ToUpper(q.Methodology), q.Suffix)

	var codes ProgramCodes
	ok := r.run(ctx, LookupProgram, key, &codes, func(ctx context.Context) (bool, error) {
		if r.programs == nil {
			return false, errCatalogDisabled
		}
		found, err := r.programs.FindProgram(ctx, q)
		if err != nil {
			return false, err
		}
		codes = found
		return true, nil
	})
	return codes, ok
}

func (r *Resolver) lookupPeriod(ctx context.Context, programCode string) (string, bool) {
	today := r.now()
	key := cacheKey(LookupPeriod, programCode, today.Format("2006-01-02"))

	var period string
	ok := r.run(ctx, LookupPeriod, key, &period, func(ctx context.Context) (bool, error) {
		if r.calendar == nil {
			return false, errCatalogDisabled
		}
		found, err := r.calendar.ActivePeriod(ctx, programCode, today)
		if err != nil {
			return false, err
		}
		period = found
		return true, nil
	})
	return period, ok
}

func (r *Resolver) lookupSemesterCount(ctx context.Context, curriculumCode string) (int, bool) {
	base := BaseCurriculum(curriculumCode)
	key := cacheKey(LookupSemester, base)

	var count int
	ok := r.run(ctx, LookupSemester, key, &count, func(ctx context.Context) (bool, error) {
		if r.calendar == nil {
			return false, errCatalogDisabled
		}
		found, err := r.calendar.SemesterCount(ctx, base)
		if err != nil {
			return false, err
		}
		count = found
		return true, nil
	})
	return count, ok
}

var errCatalogDisabled = errors.New("catalog not configured")

// run wraps one lookup with the cache, a timeout, a span and metrics. fetch
// fills the caller's destination and reports whether it found a value.
func (r *Resolver) run(ctx context.Context, lookup, key string, dest any, fetch func(context.Context) (bool, error)) bool {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "catalog."+lookup, trace.WithAttributes(attribute.String("catalog.lookup", lookup)))
	defer span.End()

	if r.cache != nil {
		if err := r.cache.Find(ctx, key, dest); err == nil {
			span.SetAttributes(attribute.Bool("catalog.cached", true))
			r.metrics.ObserveLookup(lookup, OutcomeHit, time.Since(start))
			return true
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			r.logger.WarnContext(ctx, "catalog cache read failed", "lookup", lookup, "error", err)
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	found, err := fetch(lookupCtx)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		r.metrics.ObserveLookup(lookup, OutcomeMiss, time.Since(start))
		return true
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup degraded")
		r.logger.WarnContext(ctx, "catalog lookup degraded",
			"lookup", lookup,
			"error", err,
		)
		r.metrics.ObserveLookup(lookup, OutcomeDegraded, time.Since(start))
		return false
	case !found:
		r.metrics.ObserveLookup(lookup, OutcomeMiss, time.Since(start))
		return true
	}

	if r.cache != nil {
		if err := r.cache.Save(ctx, key, dest); err != nil {
			r.logger.WarnContext(ctx, "catalog cache write failed", "lookup", lookup, "error", err)
		}
	}
	r.metrics.ObserveLookup(lookup, OutcomeHit, time.Since(start))
	return true
}

// Browse lookups back the enrolment forms. Unlike the workflow lookups they
// surface catalog failures as CatalogUnavailable.

// Methodologies lists the methodologies offered for a program.
func (r *Resolver) Methodologies(ctx context.Context, program string) ([]string, error) {
	if err := requireText(program, "program"); err != nil {
		return nil, err
	}
	return r.browse(ctx, "methodologies", func(ctx context.Context) ([]string, error) {
		return r.programs.ListMethodologies(ctx, strings.TrimSpace(program))
	})
}

// Schedules lists the schedules of a program and methodology, derived from
// the suffixes of its curriculum codes.
func (r *Resolver) Schedules(ctx context.Context, program, methodology string) ([]string, error) {
	if err := requireText(program, "program"); err != nil {
		return nil, err
	}
	if err := requireText(methodology, "modality"); err != nil {
		return nil, err
	}
	return r.browse(ctx, "schedules", func(ctx context.Context) ([]string, error) {
		curricula, err := r.programs.ListCurriculumCodes(ctx, strings.TrimSpace(program), strings.TrimSpace(methodology))
		if err != nil {
			return nil, err
		}
		schedules := []string{}
		for _, code := range curricula {
			if schedule, ok := ScheduleForCode(code); ok {
				schedules = append(schedules, schedule)
			}
		}
		return platformstrings.DedupeAndTrimUpper(schedules), nil
	})
}

var regionalPrefix = regexp.MustCompile(`(?i)REGIONAL\s*`)

// Cities lists the campuses that offer a program in the given methodology
// and schedule, with the "REGIONAL" qualifier removed.
func (r *Resolver) Cities(ctx context.Context, program, methodology, schedule string) ([]string, error) {
	if err := requireText(program, "program"); err != nil {
		return nil, err
	}
	if err := requireText(methodology, "modality"); err != nil {
		return nil, err
	}
	schedule = strings.ToUpper(strings.TrimSpace(schedule))
	if schedule != ScheduleDaytime && schedule != ScheduleEvening {
		return nil, dErrors.New(dErrors.CodeValidation, "schedule must be DIURNA or NOCTURNA").WithReason("invalid_schedule")
	}
	q := ProgramQuery{
		Program:     strings.TrimSpace(program),
		Methodology: strings.TrimSpace(methodology),
		Suffix:      SuffixForSchedule(schedule),
	}
	return r.browse(ctx, "cities", func(ctx context.Context) ([]string, error) {
		campuses, err := r.programs.ListCampuses(ctx, q)
		if err != nil {
			return nil, err
		}
		cities := []string{}
		for _, campus := range campuses {
			if city := strings.TrimSpace(regionalPrefix.ReplaceAllString(campus, "")); city != "" {
				cities = append(cities, city)
			}
		}
		return cities, nil
	})
}

// InstitutionPrograms lists the origin programs recognised for an institution.
func (r *Resolver) InstitutionPrograms(ctx context.Context, institution string) ([]string, error) {
	if err := requireText(institution, "institution"); err != nil {
		return nil, err
	}
	return r.browse(ctx, "institution_programs", func(ctx context.Context) ([]string, error) {
		return r.programs.ListInstitutionPrograms(ctx, strings.TrimSpace(institution))
	})
}

// RelatedPrograms lists the target programs related to an origin program.
func (r *Resolver) RelatedPrograms(ctx context.Context, originProgram string) ([]string, error) {
	if err := requireText(originProgram, "origin program"); err != nil {
		return nil, err
	}
	return r.browse(ctx, "related_programs", func(ctx context.Context) ([]string, error) {
		return r.programs.ListRelatedPrograms(ctx, strings.TrimSpace(originProgram))
	})
}

// Subjects lists the curriculum subjects up to and including maxLevel.
func (r *Resolver) Subjects(ctx context.Context, programCode, curriculumCode string, maxLevel int) ([]Subject, error) {
	if r.programs == nil {
		return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "program catalog is not configured")
	}
	ctx, span := r.tracer.Start(ctx, "catalog.subjects", trace.WithAttributes(
		attribute.String("catalog.program_code", programCode),
		attribute.Int("catalog.max_level", maxLevel),
	))
	defer span.End()

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	subjects, err := r.programs.ListSubjects(lookupCtx, programCode, curriculumCode, maxLevel)
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeCatalogUnavailable, "failed to load curriculum subjects")
	}
	return subjects, nil
}

func (r *Resolver) browse(ctx context.Context, name string, fetch func(context.Context) ([]string, error)) ([]string, error) {
	if r.programs == nil {
		return nil, dErrors.New(dErrors.CodeCatalogUnavailable, "program catalog is not configured")
	}
	ctx, span := r.tracer.Start(ctx, "catalog."+name)
	defer span.End()

	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	values, err := fetch(lookupCtx)
	if err != nil {
		span.RecordError(err)
		r.logger.ErrorContext(ctx, "catalog browse failed", "lookup", name, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeCatalogUnavailable, "catalog lookup failed").WithReason(name)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}

func requireText(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return dErrors.New(dErrors.CodeValidation, field+" is required").WithReason("missing_" + strings.ReplaceAll(field, " ", "_"))
	}
	return nil
}
