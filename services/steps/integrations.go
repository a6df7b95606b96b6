package steps

import "quoteforge/models"

var integrationsStep = Step{
	ID:          models.StepIntegrations,
	Key:         "integrations",
	Title:       "Integrations",
	Description: "Third-party services the project should connect to.",
	Fields:      []string{"selectedIntegrations"},
	form: func(d models.QuoteDraft) any {
		return integrationsForm{SelectedIntegrations: d.SelectedIntegrations}
	},
}

type integrationsForm struct {
	SelectedIntegrations []models.IntegrationID `json:"selectedIntegrations" validate:"dive,integration"`
}

type IntegrationsPatch struct {
	SelectedIntegrations *[]models.IntegrationID `json:"selectedIntegrations,omitempty"`
	Add                  []models.IntegrationID  `json:"add,omitempty"`
	Remove               []models.IntegrationID  `json:"remove,omitempty"`
}

func (p *IntegrationsPatch) Step() models.StepID { return models.StepIntegrations }

func (p *IntegrationsPatch) Apply(d *models.QuoteDraft) {
	d.SelectedIntegrations = applySet(d.SelectedIntegrations, p.SelectedIntegrations, p.Add, p.Remove)
}

func ToggleIntegration(d models.QuoteDraft, id models.IntegrationID) *IntegrationsPatch {
	for _, cur := range d.SelectedIntegrations {
		if cur == id {
			return &IntegrationsPatch{Remove: []models.IntegrationID{id}}
		}
	}
	return &IntegrationsPatch{Add: []models.IntegrationID{id}}
}
