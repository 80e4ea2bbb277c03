package service

import (
	"adaptivequiz/internal/model"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError is returned when a procedure input is malformed.
// It is always raised before any model call.
type ValidationError struct {
	Op     string
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: invalid input: %s", e.Op, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Reason)
}

func (e *ValidationError) ErrorKind() string { return model.KindValidation }

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateInput runs the struct tags of in and reports every failing field
func validateInput(op string, in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{Op: op, Reason: err.Error()}
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s is %s", fe.Namespace(), fe.Tag()))
	}
	return &ValidationError{Op: op, Fields: fields}
}
