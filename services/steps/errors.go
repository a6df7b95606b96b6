package steps

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"quoteforge/models"
)

// ErrFieldNotOwned is returned when a write targets fields that belong to a
// different step. It indicates an integration bug, not user error.
var ErrFieldNotOwned = errors.New("field not owned by step")

// ErrUnknownStep is returned for step ids outside 1..7.
var ErrUnknownStep = errors.New("unknown step")

// ErrInvalidPatch is returned when a patch body is not valid JSON or a
// value has the wrong type.
var ErrInvalidPatch = errors.New("invalid patch")

// FieldErrors maps a field path (json name) to a user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Keys() []string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidationError reports the fields that block leaving an enforcing step.
type ValidationError struct {
	Step   models.StepID
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, k := range e.Fields.Keys() {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("step %d is incomplete: %s", e.Step, strings.Join(parts, "; "))
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
