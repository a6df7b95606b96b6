// Package steps declares the seven wizard steps: which draft fields each
// one owns, how those fields are validated, and whether the wizard blocks
// on that validation before moving forward.
package steps

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"quoteforge/models"
	"quoteforge/services/pricing"
)

// Step describes one wizard step.
type Step struct {
	ID          models.StepID `json:"id"`
	Key         string        `json:"key"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	// Enforced steps must validate before the wizard advances past them.
	Enforced bool     `json:"enforced"`
	Fields   []string `json:"fields"`

	form func(models.QuoteDraft) any
}

// Registry holds the step definitions and the validator bound to a catalog.
type Registry struct {
	validate *validator.Validate
	steps    []Step
}

func NewRegistry(catalog *pricing.Catalog) *Registry {
	if catalog == nil {
		catalog = pricing.Default()
	}
	return &Registry{
		validate: newValidator(catalog),
		steps: []Step{
			projectTypeStep,
			featuresStep,
			designStep,
			integrationsStep,
			timelineStep,
			budgetStep,
			contactStep,
		},
	}
}

// Steps returns the step descriptors in wizard order.
func (r *Registry) Steps() []Step {
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

func (r *Registry) Step(id models.StepID) (Step, error) {
	if !id.Valid() {
		return Step{}, fmt.Errorf("%w: %d", ErrUnknownStep, id)
	}
	return r.steps[id-1], nil
}

// Check validates the fields owned by step id and returns every problem
// found, whether or not the step is enforced.
func (r *Registry) Check(id models.StepID, d models.QuoteDraft) (FieldErrors, error) {
	s, err := r.Step(id)
	if err != nil {
		return nil, err
	}
	return translate(r.validate.Struct(s.form(d))), nil
}

// Gate returns a *ValidationError when step id is enforced and its fields
// do not validate. Non-enforced steps always pass.
func (r *Registry) Gate(id models.StepID, d models.QuoteDraft) error {
	s, err := r.Step(id)
	if err != nil {
		return err
	}
	if !s.Enforced {
		return nil
	}
	fields, err := r.Check(id, d)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return &ValidationError{Step: id, Fields: fields}
	}
	return nil
}

// Advisories collects the messages of the non-enforced steps, keyed by step.
func (r *Registry) Advisories(d models.QuoteDraft) map[models.StepID]FieldErrors {
	out := make(map[models.StepID]FieldErrors)
	for _, s := range r.steps {
		if s.Enforced {
			continue
		}
		if fields := translate(r.validate.Struct(s.form(d))); len(fields) > 0 {
			out[s.ID] = fields
		}
	}
	return out
}
