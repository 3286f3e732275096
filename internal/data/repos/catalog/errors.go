package catalog

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/pgscatalog-etl/internal/pkg/errors"
)

const pgUniqueViolation = "23505"

// classifyWriteErr folds unique-constraint violations into ErrDuplicate so
// callers can tell a re-run collision from a real failure.
func classifyWriteErr(entity string, err error) error {
	if err == nil {
		return nil
	}
	if IsDuplicate(err) {
		return fmt.Errorf("%s: %w: %v", entity, pkgerrors.ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, pkgerrors.ErrDuplicate) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}
	return false
}

// first runs q.Limit(1).Find and reports whether a row was loaded.
func first[T any](q *gorm.DB) (*T, error) {
	var rows []*T
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
