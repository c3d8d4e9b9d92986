package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cavidescun/314q34wefasd/internal/catalog"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

// closeDate parses ff_conv (DD/MM/YYYY text). Malformed values yield NULL
// and never match.
const closeDate = `CASE WHEN ff_conv ~ '^[0-9]{2}/[0-9]{2}/[0-9]{4}$' THEN to_date(ff_conv, 'DD/MM/YYYY') END`

// Periods for these modalities never receive homologations.
var excludedModalities = []string{"CONTINUADA", "IDIOMAS", "ESPECIALIZACION"}

// Calendar reads the academic calendar and curricula.
type Calendar struct {
	db querier
	sb squirrel.StatementBuilderType
}

func NewCalendar(db querier) *Calendar {
	return &Calendar{db: db, sb: statementBuilder()}
}

// ActivePeriod returns the earliest active period still open for enrolment
// on the given day. Virtual program codes exclude in-person periods and all
// other codes exclude virtual ones.
func (c *Calendar) ActivePeriod(ctx context.Context, programCode string, today time.Time) (string, error) {
	q := c.sb.Select("periodo").
		From("calendar_periods").
		Where(squirrel.Eq{"estado_periodo": "Activo"}).
		Where(squirrel.GtOrEq{"anio": today.Year()}).
		Where(closeDate+" >= ?", today.Format("2006-01-02")).
		Where(squirrel.NotLike{"periodo": "%24T%"})
	for _, m := range excludedModalities {
		q = q.Where(squirrel.NotILike{"modalidad": contains(m)})
	}
	if catalog.VirtualProgram(programCode) {
		q = q.Where(squirrel.NotEq{"modalidad": "PRESENCIAL"})
	} else {
		q = q.Where(squirrel.NotEq{"modalidad": "VIRTUAL"})
	}

	sql, args, err := q.OrderBy("periodo ASC").Limit(1).ToSql()
	if err != nil {
		return "", fmt.Errorf("build active period query: %w", err)
	}

	var period string
	err = c.db.QueryRow(ctx, sql, args...).Scan(&period)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", sentinel.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("active period: %w", err)
	}
	return period, nil
}

// SemesterCount returns the semester count of the current technologist-level
// curriculum. curriculumCode is expected without its schedule suffix.
func (c *Calendar) SemesterCount(ctx context.Context, curriculumCode string) (int, error) {
	sql, args, err := c.sb.Select("semestres").
		From("curricula").
		Where(squirrel.Eq{"nivel": "TECNOLOGO", "estado": "VIGENTE", "pensum": curriculumCode}).
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build semester count query: %w", err)
	}

	var count int
	err = c.db.QueryRow(ctx, sql, args...).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, sentinel.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("semester count: %w", err)
	}
	return count, nil
}
