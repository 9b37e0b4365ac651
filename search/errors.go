package search

import (
	"errors"
	"fmt"
)

// ErrSearch is the package's error-taxonomy sentinel (spec.md §6):
// SearchError wraps it so callers can errors.Is against the category
// without matching message text.
var ErrSearch = errors.New("search: search error")

// SearchError reports a failure in filter generation or the search
// driver itself (bad configuration, unresolvable dependent variable,
// cancellation plumbing) — not a per-candidate fit failure, which is
// recorded on the Candidate instead of aborting the run.
type SearchError struct{ msg string }

func newSearchError(format string, args ...any) *SearchError {
	return &SearchError{msg: fmt.Sprintf(format, args...)}
}

func (e *SearchError) Error() string { return fmt.Sprintf("%s: %s", ErrSearch, e.msg) }
func (e *SearchError) Unwrap() error { return ErrSearch }
