package etl

import (
	"fmt"

	"github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"
	pkgerrors "github.com/yungbote/pgscatalog-etl/internal/pkg/errors"
)

// Upstream failures are fatal for the whole run.
type FetchError = pgscatalog.FetchError

var ErrEmptyPage = pgscatalog.ErrEmptyPage

// RelationError reports a mandatory relation that did not resolve by its
// natural key. errors.Is(err, errors.ErrNotFound) holds for it.
type RelationError struct {
	Entity   string
	Relation string
	Key      string
	Err      error
}

func (e *RelationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %q: %v", e.Entity, e.Relation, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %s %q not found", e.Entity, e.Relation, e.Key)
}

func (e *RelationError) Unwrap() error { return e.Err }

func (e *RelationError) Is(target error) bool { return target == pkgerrors.ErrNotFound }

// ValidationError reports a raw record that failed shape checks at
// transform time.
type ValidationError struct {
	Entity string
	Key    string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: invalid record: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("%s %s: invalid record: %v", e.Entity, e.Key, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == pkgerrors.ErrInvalidArgument }
