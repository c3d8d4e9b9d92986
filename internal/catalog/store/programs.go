package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/cavidescun/314q34wefasd/internal/catalog"
	"github.com/cavidescun/314q34wefasd/pkg/platform/sentinel"
)

const programsTable = "sena_programs"

// Programs reads the program catalog and the curriculum subjects.
type Programs struct {
	db querier
	sb squirrel.StatementBuilderType
}

func NewPrograms(db querier) *Programs {
	return &Programs{db: db, sb: statementBuilder()}
}

// FindProgram returns the first catalog row, in catalog order, whose unit
// name contains the program and whose methodology contains the query's
// methodology, optionally restricted to curriculum codes with a suffix.
func (p *Programs) FindProgram(ctx context.Context, q catalog.ProgramQuery) (catalog.ProgramCodes, error) {
	sql, args, err := p.programFilter(p.sb.Select("COALESCE(cod_unidad, '')", "COALESCE(cod_pensum, '')").From(programsTable), q).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return catalog.ProgramCodes{}, fmt.Errorf("build find program query: %w", err)
	}

	var codes catalog.ProgramCodes
	err = p.db.QueryRow(ctx, sql, args...).Scan(&codes.ProgramCode, &codes.CurriculumCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ProgramCodes{}, sentinel.ErrNotFound
	}
	if err != nil {
		return catalog.ProgramCodes{}, fmt.Errorf("find program: %w", err)
	}
	if !codes.Found() {
		return catalog.ProgramCodes{}, sentinel.ErrNotFound
	}
	return codes, nil
}

func (p *Programs) programFilter(b squirrel.SelectBuilder, q catalog.ProgramQuery) squirrel.SelectBuilder {
	b = b.Where(squirrel.ILike{"nom_unidad": contains(q.Program)}).
		Where(squirrel.ILike{"nom_tabla_met": contains(q.Methodology)})
	if q.Suffix != "" {
		b = b.Where(squirrel.Like{"cod_pensum": endsWith(q.Suffix)})
	}
	return b
}

// ListSubjects returns the subjects of a curriculum up to maxLevel,
// ordered by level.
func (p *Programs) ListSubjects(ctx context.Context, programCode, curriculumCode string, maxLevel int) ([]catalog.Subject, error) {
	sql, args, err := p.sb.Select("cod_unidad", "cod_pensum", "cod_materia", "num_nivel", "nom_materia", "uni_teorica").
		From("curriculum_subjects").
		Where(squirrel.Eq{"cod_unidad": programCode, "cod_pensum": curriculumCode}).
		Where(squirrel.LtOrEq{"num_nivel": maxLevel}).
		OrderBy("num_nivel ASC", "cod_materia ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list subjects query: %w", err)
	}

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	subjects := []catalog.Subject{}
	for rows.Next() {
		var s catalog.Subject
		if err := rows.Scan(&s.ProgramCode, &s.CurriculumCode, &s.SubjectCode, &s.Level, &s.Name, &s.Credits); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}
	return subjects, nil
}

func (p *Programs) ListMethodologies(ctx context.Context, program string) ([]string, error) {
	return p.distinct(ctx, "nom_tabla_met", squirrel.ILike{"nom_unidad": contains(program)})
}

// ListCurriculumCodes returns the distinct curriculum codes of a program
// and methodology.
func (p *Programs) ListCurriculumCodes(ctx context.Context, program, methodology string) ([]string, error) {
	return p.distinct(ctx, "cod_pensum", squirrel.And{
		squirrel.ILike{"nom_unidad": contains(program)},
		squirrel.ILike{"nom_tabla_met": contains(methodology)},
	})
}

func (p *Programs) ListCampuses(ctx context.Context, q catalog.ProgramQuery) ([]string, error) {
	cond := squirrel.And{
		squirrel.ILike{"nom_unidad": contains(q.Program)},
		squirrel.ILike{"nom_tabla_met": contains(q.Methodology)},
	}
	if q.Suffix != "" {
		cond = append(cond, squirrel.Like{"cod_pensum": endsWith(q.Suffix)})
	}
	return p.distinct(ctx, "nom_sede", cond)
}

// ListInstitutionPrograms matches the institution name exactly, ignoring case.
func (p *Programs) ListInstitutionPrograms(ctx context.Context, institution string) ([]string, error) {
	return p.distinct(ctx, "programa_ies", squirrel.Expr("UPPER(institucion_externa) = UPPER(?)", institution))
}

// ListRelatedPrograms returns the program units an origin program maps to.
func (p *Programs) ListRelatedPrograms(ctx context.Context, originProgram string) ([]string, error) {
	return p.distinct(ctx, "nom_unidad", squirrel.ILike{"programa_ies": contains(originProgram)})
}

func (p *Programs) distinct(ctx context.Context, column string, where squirrel.Sqlizer) ([]string, error) {
	sql, args, err := p.sb.Select(column).
		Distinct().
		From(programsTable).
		Where(where).
		Where(squirrel.NotEq{column: nil}).
		OrderBy(column + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build distinct %s query: %w", column, err)
	}

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list distinct %s: %w", column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", column, err)
	}
	return values, nil
}
