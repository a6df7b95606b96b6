package steps

import "quoteforge/models"

var designStep = Step{
	ID:          models.StepDesign,
	Key:         "design",
	Title:       "Design",
	Description: "How should it look and feel?",
	Fields: []string{
		"designPreferences.type",
		"designPreferences.style",
		"designPreferences.colorScheme",
		"designPreferences.hasExistingBrand",
		"designPreferences.inspirationUrls",
	},
	form: func(d models.QuoteDraft) any {
		var f designForm
		if dp := d.DesignPreferences; dp != nil {
			f = designForm{
				Type:            dp.Type,
				Style:           dp.Style,
				ColorScheme:     dp.ColorScheme,
				InspirationURLs: dp.InspirationURLs,
			}
		}
		return f
	},
}

type designForm struct {
	Type            models.DesignType  `json:"designPreferences.type" validate:"omitempty,designtype"`
	Style           models.DesignStyle `json:"designPreferences.style" validate:"omitempty,designstyle"`
	ColorScheme     string             `json:"designPreferences.colorScheme" validate:"max=64"`
	InspirationURLs []string           `json:"designPreferences.inspirationUrls" validate:"max=10,dive,url"`
}

type DesignPatch struct {
	Type             *models.DesignType  `json:"type,omitempty"`
	Style            *models.DesignStyle `json:"style,omitempty"`
	ColorScheme      *string             `json:"colorScheme,omitempty"`
	HasExistingBrand *bool               `json:"hasExistingBrand,omitempty"`
	InspirationURLs  *[]string           `json:"inspirationUrls,omitempty"`
}

func (p *DesignPatch) Step() models.StepID { return models.StepDesign }

func (p *DesignPatch) Apply(d *models.QuoteDraft) {
	if p.Type == nil && p.Style == nil && p.ColorScheme == nil && p.HasExistingBrand == nil && p.InspirationURLs == nil {
		return
	}
	dp := models.DesignPreferences{}
	if d.DesignPreferences != nil {
		dp = *d.DesignPreferences
	}
	if p.Type != nil {
		dp.Type = *p.Type
	}
	if p.Style != nil {
		dp.Style = *p.Style
	}
	if p.ColorScheme != nil {
		dp.ColorScheme = *p.ColorScheme
	}
	if p.HasExistingBrand != nil {
		dp.HasExistingBrand = *p.HasExistingBrand
	}
	if p.InspirationURLs != nil {
		// Inspiration links keep the order the client entered them in.
		urls := make([]string, 0, len(*p.InspirationURLs))
		for _, u := range *p.InspirationURLs {
			if u != "" {
				urls = append(urls, u)
			}
		}
		if len(urls) == 0 {
			urls = nil
		}
		dp.InspirationURLs = urls
	}
	d.DesignPreferences = &dp
}
