package entity

import (
	"errors"
)

var (
	ErrDataNotFound     = errors.New("data not found")
	ErrConflictingData  = errors.New("data conflicts with existing data in unique column")
	ErrInvalidData      = errors.New("invalid data")
	ErrMalformedBody    = errors.New("malformed request body")
	ErrConfigPathNotSet = errors.New("CONFIG_PATH not set and -config flag not provided")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every rejected field in declaration order of the
// input, so the first entry is the one a fail-fast check would report.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidData.Error()
	}
	return e.Fields[0].Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidData
}
