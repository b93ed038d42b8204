package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the services translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique-constraint violation,
// optionally restricted to the named constraint/index.
func IsUniqueViolation(err error, constraint ...string) bool {
	return isPgError(err, pgUniqueViolation, constraint...)
}

// IsForeignKeyViolation reports whether err is a foreign-key violation.
func IsForeignKeyViolation(err error) bool {
	return isPgError(err, pgForeignKeyViolation)
}

func isPgError(err error, code string, constraint ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	if len(constraint) == 0 {
		return true
	}
	for _, c := range constraint {
		if pgErr.ConstraintName == c {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is GORM's record-not-found.
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// UnitOfWork runs a function inside a single database transaction. Every
// write a service performs for one operation goes through Do, so the
// operation commits once or not at all.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type unitOfWork struct{ db *gorm.DB }

// NewUnitOfWork returns a UnitOfWork over db. A nil db calls fn(nil)
// directly, which is how service unit tests run against in-memory stubs.
func NewUnitOfWork(db *gorm.DB) UnitOfWork { return &unitOfWork{db: db} }

func (u *unitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if u.db == nil {
		return fn(nil)
	}
	return u.db.WithContext(ctx).Transaction(fn)
}

// conn picks the transaction when one is open, else the repository's pool.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// findByID loads one row of T by primary key. preloads are GORM association
// paths ("Itens.Produto").
func findByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID, preloads ...string) (*T, error) {
	var out T
	q := db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&out, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input safe inside an ILIKE pattern.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
