package steps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"quoteforge/models"
)

// Patch is a partial update written by one step. Each step has its own
// patch type whose fields are exactly the fields that step owns, so a step
// cannot express a write to another step's data.
type Patch interface {
	Step() models.StepID
	Apply(d *models.QuoteDraft)
}

// NewPatch returns an empty patch for step id.
func NewPatch(id models.StepID) (Patch, error) {
	switch id {
	case models.StepProjectType:
		return &ProjectTypePatch{}, nil
	case models.StepFeatures:
		return &FeaturesPatch{}, nil
	case models.StepDesign:
		return &DesignPatch{}, nil
	case models.StepIntegrations:
		return &IntegrationsPatch{}, nil
	case models.StepTimeline:
		return &TimelinePatch{}, nil
	case models.StepBudget:
		return &BudgetPatch{}, nil
	case models.StepContact:
		return &ContactPatch{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownStep, id)
}

// DecodePatch decodes a loosely typed JSON object into the patch of step id.
// Keys the step does not own are rejected with ErrFieldNotOwned.
func DecodePatch(id models.StepID, data []byte) (Patch, error) {
	p, err := NewPatch(id)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		// encoding/json has no typed error for DisallowUnknownFields; its
		// message is the only signal. Pinned by TestDecodePatch_RejectsFieldsOfOtherSteps.
		if strings.HasPrefix(err.Error(), "json: unknown field") {
			return nil, fmt.Errorf("%w: step %d: %s", ErrFieldNotOwned, id, strings.TrimPrefix(err.Error(), "json: "))
		}
		return nil, fmt.Errorf("%w for step %d: %v", ErrInvalidPatch, id, err)
	}
	return p, nil
}

// applySet merges a replace/add/remove set update.
func applySet[T ~string](cur []T, replace *[]T, add, remove []T) []T {
	var next []T
	if replace != nil {
		next = append(next, (*replace)...)
	} else {
		next = append(next, cur...)
	}
	next = append(next, add...)
	if len(remove) > 0 {
		drop := make(map[T]struct{}, len(remove))
		for _, r := range remove {
			drop[r] = struct{}{}
		}
		kept := next[:0]
		for _, v := range next {
			if _, ok := drop[v]; !ok {
				kept = append(kept, v)
			}
		}
		next = kept
	}
	return models.NormalizeSet(next)
}
