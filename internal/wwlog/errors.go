package wwlog

import (
	"errors"
	"fmt"
)

// DataAccessError reports a failed read or write against the data source.
// Message is human readable and is shown to the user as is.
type DataAccessError struct {
	Op      string
	Message string
	Err     error
}

func (e *DataAccessError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("wwlog %s: %s", e.Op, e.Message)
}

func (e *DataAccessError) Unwrap() error {
	return e.Err
}

func IsDataAccess(err error) bool {
	var dae *DataAccessError
	return errors.As(err, &dae)
}

// ValidationError is returned by the form before anything is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UserMessage is the text shown to the user for err.
func UserMessage(err error) string {
	var dae *DataAccessError
	if errors.As(err, &dae) {
		return dae.Message
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return "An unexpected error occurred"
}
