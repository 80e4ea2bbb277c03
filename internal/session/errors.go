package session

import (
	"adaptivequiz/internal/model"
	"errors"
	"fmt"
)

// StageFailedError is returned when a procedure fails during a stage.
// The session keeps the failing state until Retry.
type StageFailedError struct {
	Stage model.SessionState
	Err   error
}

func (e *StageFailedError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageFailedError) Unwrap() error { return e.Err }

// kinded is implemented by errors that know their wire kind
type kinded interface {
	ErrorKind() string
}

// Kind returns the error kind for err
func Kind(err error) string {
	var k kinded
	switch {
	case err == nil:
		return ""
	case errors.As(err, &k):
		return k.ErrorKind()
	case errors.Is(err, ErrBusy), errors.Is(err, ErrInvalidTransition), errors.Is(err, model.ErrAnswerAlreadySet):
		return model.KindConflict
	case errors.Is(err, ErrEmptyAnswer), errors.Is(err, ErrIncompleteInfo):
		return model.KindValidation
	case errors.Is(err, ErrEmptyContent):
		return model.KindSchemaValidation
	}
	return model.KindInternal
}
