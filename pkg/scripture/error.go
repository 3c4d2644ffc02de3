package scripture

import (
	"errors"
	"fmt"
)

type CorpusErrorKind string

const (
	NormalizeError CorpusErrorKind = "normalize"
	RangeError     CorpusErrorKind = "range"
	OrderError     CorpusErrorKind = "order"
)

var (
	ErrUnknownShape  = errors.New("book JSON matches no accepted shape")
	ErrUnknownBook   = errors.New("unknown book")
	ErrSlugCollision = errors.New("duplicate book slug")
	ErrEmptyCorpus   = errors.New("corpus has no books")
)

type CorpusError struct {
	Kind    CorpusErrorKind
	Message *string
	Err     error
	Cause   error
}

func (e *CorpusError) Error() string {
	if e.Message != nil {
		if e.Cause != nil {
			return fmt.Sprintf("scripture %s error: %s - %v (cause: %v)", e.Kind, *e.Message, e.Err, e.Cause)
		}
		return fmt.Sprintf("scripture %s error: %s - %v", e.Kind, *e.Message, e.Err)
	}
	return fmt.Sprintf("scripture %s error: %v", e.Kind, e.Err)
}

func (e *CorpusError) Unwrap() error {
	return e.Err
}
