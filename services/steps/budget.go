package steps

import "quoteforge/models"

var budgetStep = Step{
	ID:          models.StepBudget,
	Key:         "budget",
	Title:       "Budget",
	Description: "Your budget range and how you would like to pay.",
	Fields: []string{
		"budget.range",
		"budget.paymentPreference",
		"budget.hasFlexibility",
	},
	form: func(d models.QuoteDraft) any {
		var f budgetForm
		if b := d.Budget; b != nil {
			f = budgetForm{
				Min:               b.Range.Min(),
				Max:               b.Range.Max(),
				PaymentPreference: b.PaymentPreference,
			}
		}
		return f
	},
}

type budgetForm struct {
	Min               float64                  `json:"budget.range.min" validate:"gte=0"`
	Max               float64                  `json:"budget.range.max" validate:"gte=0,gtefield=Min"`
	PaymentPreference models.PaymentPreference `json:"budget.paymentPreference" validate:"omitempty,payment"`
}

type BudgetPatch struct {
	Range             *models.BudgetRange       `json:"range,omitempty"`
	PaymentPreference *models.PaymentPreference `json:"paymentPreference,omitempty"`
	HasFlexibility    *bool                     `json:"hasFlexibility,omitempty"`
}

func (p *BudgetPatch) Step() models.StepID { return models.StepBudget }

func (p *BudgetPatch) Apply(d *models.QuoteDraft) {
	if p.Range == nil && p.PaymentPreference == nil && p.HasFlexibility == nil {
		return
	}
	b := models.Budget{}
	if d.Budget != nil {
		b = *d.Budget
	}
	if p.Range != nil {
		b.Range = *p.Range
	}
	if p.PaymentPreference != nil {
		b.PaymentPreference = *p.PaymentPreference
	}
	if p.HasFlexibility != nil {
		b.HasFlexibility = *p.HasFlexibility
	}
	d.Budget = &b
}
