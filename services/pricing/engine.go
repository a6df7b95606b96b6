package pricing

import (
	"quoteforge/models"
)

// Breakdown records every intermediate stage of an estimate. Amounts are
// unrounded; rounding happens only when a value is presented.
type Breakdown struct {
	Base              float64 `json:"base"`
	IndustryFactor    float64 `json:"industryMultiplier"`
	AfterIndustry     float64 `json:"afterIndustry"`
	FeaturesTotal     float64 `json:"featuresTotal"`
	IntegrationsTotal float64 `json:"integrationsTotal"`
	Subtotal          float64 `json:"subtotal"`
	DesignFactor      float64 `json:"designMultiplier"`
	AfterDesign       float64 `json:"afterDesign"`
	PriorityFactor    float64 `json:"priorityMultiplier"`
	AfterPriority     float64 `json:"afterPriority"`
	PaymentAdjustment float64 `json:"paymentAdjustment"`
	Final             float64 `json:"final"`
	TimelineLabel     string  `json:"timelineLabel,omitempty"`
}

// ComputePrice estimates the price of a draft with the default catalog.
func ComputePrice(d models.QuoteDraft) float64 {
	return defaultCatalog.ComputePrice(d)
}

// ComputePrice is Estimate(d).Final.
func (c *Catalog) ComputePrice(d models.QuoteDraft) float64 {
	return c.Estimate(d).Final
}

// Estimate composes the price in a fixed order: base, industry, additive
// features and integrations, design, priority, payment. Unset or unknown
// inputs contribute their neutral element, so any partial draft is priced.
func (c *Catalog) Estimate(d models.QuoteDraft) Breakdown {
	b := Breakdown{
		IndustryFactor: 1,
		DesignFactor:   1,
		PriorityFactor: 1,
	}

	if pt, ok := c.projectTypes[d.ProjectType]; ok {
		b.Base = pt.BasePrice
	}
	if ind, ok := c.industries[d.Industry]; ok {
		b.IndustryFactor = ind.Multiplier
	}
	b.AfterIndustry = b.Base * b.IndustryFactor

	// Sets are summed in sorted order so that toggling a selection off and
	// on again reproduces the same float result.
	for _, f := range models.NormalizeSet(d.SelectedFeatures) {
		if opt, ok := c.features[f]; ok {
			b.FeaturesTotal += opt.PriceImpact
		}
	}
	for _, i := range models.NormalizeSet(d.SelectedIntegrations) {
		if opt, ok := c.integrations[i]; ok {
			b.IntegrationsTotal += opt.PriceImpact
		}
	}
	b.Subtotal = b.AfterIndustry + b.FeaturesTotal + b.IntegrationsTotal

	if d.DesignPreferences != nil {
		if dt, ok := c.designTypes[d.DesignPreferences.Type]; ok {
			b.DesignFactor = dt.Multiplier
		}
	}
	b.AfterDesign = b.Subtotal * b.DesignFactor

	if d.Timeline != nil {
		if p, ok := c.priorities[d.Timeline.Priority]; ok {
			b.PriorityFactor = p.Multiplier
			b.TimelineLabel = p.TimelineLabel
		}
	}
	b.AfterPriority = b.AfterDesign * b.PriorityFactor

	if d.Budget != nil {
		if p, ok := c.payments[d.Budget.PaymentPreference]; ok {
			b.PaymentAdjustment = p.Adjustment
		}
	}
	b.Final = b.AfterPriority * (1 + b.PaymentAdjustment)
	return b
}
