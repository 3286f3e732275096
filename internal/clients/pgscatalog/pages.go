package pgscatalog

import (
	"context"
	"iter"
	"strings"
)

// Pages lazily walks a cursor-paginated collection starting at startURL,
// yielding one batch per page. A fetch error is yielded once and ends the
// sequence; a null next cursor ends it normally.
func Pages[T any](ctx context.Context, c *Client, startURL string) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		next := strings.TrimSpace(startURL)
		for next != "" {
			page, err := fetchPage[T](ctx, c, next)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(page.Results, nil) {
				return
			}
			next = ""
			if page.Next != nil {
				next = strings.TrimSpace(*page.Next)
			}
		}
	}
}

// ForEachPage hands every batch to fn and stops at the first error.
func ForEachPage[T any](ctx context.Context, c *Client, startURL string, fn func(batch []T) error) error {
	for batch, err := range Pages[T](ctx, c, startURL) {
		if err != nil {
			return err
		}
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

// StartAt drops every record preceding the first one whose key equals
// marker; the marker record itself is kept. An empty marker passes seq
// through unchanged. Pages before the marker are still fetched.
func StartAt[T any](seq iter.Seq2[[]T, error], marker string, key func(T) string) iter.Seq2[[]T, error] {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return seq
	}
	return func(yield func([]T, error) bool) {
		found := false
		for batch, err := range seq {
			if err != nil {
				yield(nil, err)
				return
			}
			if !found {
				idx := -1
				for i, rec := range batch {
					if key(rec) == marker {
						idx = i
						break
					}
				}
				if idx < 0 {
					continue
				}
				found = true
				batch = batch[idx:]
			}
			if !yield(batch, nil) {
				return
			}
		}
	}
}
