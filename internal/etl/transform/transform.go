// Package transform maps raw catalog records onto normalized rows. Every
// function is pure: no I/O and no logging.
package transform

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/pgscatalog-etl/internal/etl"
)

const DefaultScoreURLBase = "https://www.pgscatalog.org/score"

var validate = validator.New(validator.WithRequiredStructEnabled())

func check(entity, key string, raw any) error {
	if err := validate.Struct(raw); err != nil {
		return &etl.ValidationError{Entity: entity, Key: key, Err: err}
	}
	return nil
}

func invalid(entity, key, format string, args ...any) error {
	return &etl.ValidationError{Entity: entity, Key: key, Err: fmt.Errorf(format, args...)}
}

func optString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
