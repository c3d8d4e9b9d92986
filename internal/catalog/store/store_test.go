package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cavidescun/314q34wefasd/internal/catalog"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

type recordedQuery struct {
	sql  string
	args []any
}

// captureDB records the statements it receives. Every row lookup misses and
// every multi-row query fails with queryErr.
type captureDB struct {
	queries  []recordedQuery
	queryErr error
}

type missingRow struct{}

func (missingRow) Scan(...any) error { return pgx.ErrNoRows }

func (c *captureDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	c.queries = append(c.queries, recordedQuery{sql: sql, args: args})
	return nil, c.queryErr
}

func (c *captureDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	c.queries = append(c.queries, recordedQuery{sql: sql, args: args})
	return missingRow{}
}

func (c *captureDB) last(t *testing.T) recordedQuery {
	t.Helper()
	require.NotEmpty(t, c.queries)
	return c.queries[len(c.queries)-1]
}

func TestLikePatternsEscapeWildcards(t *testing.T) {
	assert.Equal(t, "%SISTEMAS%", contains("SISTEMAS"))
	assert.Equal(t, `%100\% VIRTUAL\_2%`, contains("100% VIRTUAL_2"))
	assert.Equal(t, `%N`, endsWith("N"))
}

func TestFindProgram(t *testing.T) {
	t.Run("suffix filter for in-person schedules", func(t *testing.T) {
		db := &captureDB{}
		_, err := NewPrograms(db).FindProgram(context.Background(), catalog.NewProgramQuery("Ingeniería de Sistemas", "PRESENCIAL", "NOCTURNA"))
		require.ErrorIs(t, err, sentinel.ErrNotFound)

		q := db.last(t)
		assert.Contains(t, q.sql, "nom_unidad ILIKE $1")
		assert.Contains(t, q.sql, "nom_tabla_met ILIKE $2")
		assert.Contains(t, q.sql, "cod_pensum LIKE $3")
		assert.Contains(t, q.sql, "ORDER BY id ASC LIMIT 1")
		assert.Equal(t, []any{"%Ingeniería de Sistemas%", "%PRESENCIAL%", "%N"}, q.args)
	})

	t.Run("virtual ignores schedule", func(t *testing.T) {
		db := &captureDB{}
		_, err := NewPrograms(db).FindProgram(context.Background(), catalog.NewProgramQuery("Diseño Gráfico", "virtual", "NOCTURNA"))
		require.ErrorIs(t, err, sentinel.ErrNotFound)

		q := db.last(t)
		assert.NotContains(t, q.sql, "cod_pensum LIKE")
		assert.Equal(t, []any{"%Diseño Gráfico%", "%VIRTUAL%"}, q.args)
	})
}

func TestListSubjectsPropagatesQueryErrors(t *testing.T) {
	db := &captureDB{queryErr: errors.New("connection reset")}
	_, err := NewPrograms(db).ListSubjects(context.Background(), "ISIS", "ISIS2D", 4)
	require.Error(t, err)

	q := db.last(t)
	assert.Contains(t, q.sql, "num_nivel <= $")
	assert.Contains(t, q.sql, "ORDER BY num_nivel ASC")
}

func TestActivePeriodModalityRule(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("virtual program code excludes in-person periods", func(t *testing.T) {
		db := &captureDB{}
		_, err := NewCalendar(db).ActivePeriod(context.Background(), "ADMv", today)
		require.ErrorIs(t, err, sentinel.ErrNotFound)

		q := db.last(t)
		assert.Contains(t, q.sql, "modalidad <> $")
		assert.Contains(t, q.args, "PRESENCIAL")
		assert.Contains(t, q.args, 2026)
		assert.Contains(t, q.args, "2026-03-10")
		assert.Contains(t, q.args, "%24T%")
	})

	t.Run("other codes exclude virtual periods", func(t *testing.T) {
		db := &captureDB{}
		_, err := NewCalendar(db).ActivePeriod(context.Background(), "ADM", today)
		require.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.Contains(t, db.last(t).args, "VIRTUAL")
	})
}

func TestSemesterCountNotFound(t *testing.T) {
	db := &captureDB{}
	_, err := NewCalendar(db).SemesterCount(context.Background(), "ISIS2")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ElementsMatch(t, []any{"VIGENTE", "TECNOLOGO", "ISIS2"}, db.last(t).args)
}
