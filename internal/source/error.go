package source

import (
	"errors"
	"fmt"
)

var ErrNoSource = errors.New("no candidate source yielded a valid manifest")

// ResolveError is the hard failure returned when every base/sub-path
// candidate has been exhausted. LastDiag carries the last diagnostic seen so
// the operator has something concrete to chase.
type ResolveError struct {
	LastDiag string
	Err      error
}

func (e *ResolveError) Error() string {
	if e.LastDiag != "" {
		return fmt.Sprintf("source resolve error: %v (last: %s)", e.Err, e.LastDiag)
	}
	return fmt.Sprintf("source resolve error: %v", e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
