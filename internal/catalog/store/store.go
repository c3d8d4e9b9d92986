// Package store reads the academic catalogs over pgx. Both databases are
// read-only from this service's point of view.
package store

import (
	"context"
	_ "embed"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	platformstrings "github.com/cavidescun/314q34wefasd/pkg/platform/strings"
)

// Schema creates the catalog tables. Used by integration tests and local
// development databases.
//
//go:embed schema.sql
var Schema string

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ querier = (*pgxpool.Pool)(nil)

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// contains builds a case-insensitive substring pattern with LIKE wildcards
// in the input taken literally.
func contains(value string) string {
	return "%" + platformstrings.EscapeLike(value) + "%"
}

func endsWith(value string) string {
	return "%" + platformstrings.EscapeLike(value)
}
