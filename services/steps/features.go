package steps

import "quoteforge/models"

var featuresStep = Step{
	ID:          models.StepFeatures,
	Key:         "features",
	Title:       "Features",
	Description: "Pick the functionality you need. Skip anything you are unsure about.",
	Fields:      []string{"selectedFeatures"},
	form: func(d models.QuoteDraft) any {
		return featuresForm{SelectedFeatures: d.SelectedFeatures}
	},
}

type featuresForm struct {
	SelectedFeatures []models.FeatureID `json:"selectedFeatures" validate:"dive,feature"`
}

// FeaturesPatch replaces the selection when SelectedFeatures is set, then
// applies Add and Remove.
type FeaturesPatch struct {
	SelectedFeatures *[]models.FeatureID `json:"selectedFeatures,omitempty"`
	Add              []models.FeatureID  `json:"add,omitempty"`
	Remove           []models.FeatureID  `json:"remove,omitempty"`
}

func (p *FeaturesPatch) Step() models.StepID { return models.StepFeatures }

func (p *FeaturesPatch) Apply(d *models.QuoteDraft) {
	d.SelectedFeatures = applySet(d.SelectedFeatures, p.SelectedFeatures, p.Add, p.Remove)
}

// ToggleFeature returns the patch that flips f in the current selection.
func ToggleFeature(d models.QuoteDraft, f models.FeatureID) *FeaturesPatch {
	for _, cur := range d.SelectedFeatures {
		if cur == f {
			return &FeaturesPatch{Remove: []models.FeatureID{f}}
		}
	}
	return &FeaturesPatch{Add: []models.FeatureID{f}}
}
