// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"
	"strings"

	"collabfeed/internal/database"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// failure. Upserts absorb most of these; the check covers the remaining race
// where two writers insert the same key inside overlapping transactions.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so s matches literally. Use with
// ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// decrementExpr lowers a counter column by one without going below zero.
func decrementExpr(column string) interface{} {
	return gorm.Expr("CASE WHEN " + column + " > 0 THEN " + column + " - 1 ELSE 0 END")
}

// incrementExpr raises a counter column by delta relative to its stored value.
func incrementExpr(column string, delta int) interface{} {
	return gorm.Expr(column+" + ?", delta)
}
