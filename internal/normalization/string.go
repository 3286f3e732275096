package normalization

import (
	"strings"
)

// Key folds a label for case-insensitive exact comparison.
func Key(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func KeyPtr(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := Key(*input)
	return &normalized
}
