package wizard

import (
	"quoteforge/models"
	"quoteforge/services/draft"
	"quoteforge/services/pricing"
	"quoteforge/services/steps"
)

// StepView is a step descriptor plus its navigation state.
type StepView struct {
	steps.Step
	Current   bool `json:"current"`
	Reachable bool `json:"reachable"`
}

// View is everything a client needs to render the wizard.
type View struct {
	draft.Snapshot
	Phase          models.WizardPhase                  `json:"phase"`
	Currency       string                              `json:"currency"`
	FormattedPrice string                              `json:"formattedPrice"`
	Steps          []StepView                          `json:"steps"`
	Advisories     map[models.StepID]steps.FieldErrors `json:"advisories,omitempty"`
	LastSubmitted  *models.PricedQuote                 `json:"lastSubmitted,omitempty"`
}

// View composes the store snapshot with the controller state. Before
// hydration only the placeholder snapshot is exposed.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.store.Snapshot()
	v := View{
		Snapshot:       snap,
		Phase:          c.phase,
		Currency:       c.currency.String(),
		FormattedPrice: pricing.FormatPrice(snap.EstimatedPrice, c.currency, c.lang),
	}
	for _, s := range c.steps.Steps() {
		v.Steps = append(v.Steps, StepView{
			Step:      s,
			Current:   s.ID == snap.CurrentStep,
			Reachable: s.ID <= snap.CurrentStep,
		})
	}
	if snap.Hydrated && snap.Draft != nil {
		if adv := c.steps.Advisories(*snap.Draft); len(adv) > 0 {
			v.Advisories = adv
		}
	}
	if c.lastSubmitted != nil {
		rec := *c.lastSubmitted
		v.LastSubmitted = &rec
	}
	return v
}
