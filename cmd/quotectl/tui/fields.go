package tui

import (
	"fmt"
	"strconv"
	"strings"

	"quoteforge/models"
	"quoteforge/services/pricing"
	"quoteforge/services/steps"
)

type fieldKind int

const (
	kindChoice fieldKind = iota
	kindToggle
	kindText
)

// field is one editable row of a step form. Every row turns a user action
// into a patch of its own step.
type field struct {
	key     string
	label   string
	kind    fieldKind
	choices []steps.Choice
	current string
	checked bool
	patch   func(value string) (steps.Patch, error)
}

func (f field) display() string {
	switch f.kind {
	case kindToggle:
		if f.checked {
			return "[x]"
		}
		return "[ ]"
	case kindChoice:
		for _, c := range f.choices {
			if c.Value == f.current {
				return "< " + c.Label + " >"
			}
		}
		return "< choose >"
	}
	if f.current == "" {
		return "-"
	}
	return f.current
}

// cycle returns the choice delta positions away from the current one.
func (f field) cycle(delta int) string {
	if len(f.choices) == 0 {
		return ""
	}
	idx := -1
	for i, c := range f.choices {
		if c.Value == f.current {
			idx = i
		}
	}
	if idx < 0 {
		if delta < 0 {
			return f.choices[len(f.choices)-1].Value
		}
		return f.choices[0].Value
	}
	n := len(f.choices)
	return f.choices[((idx+delta)%n+n)%n].Value
}

func choice(key, label string, choices []steps.Choice, current string, patch func(string) steps.Patch) field {
	return field{key: key, label: label, kind: kindChoice, choices: choices, current: current,
		patch: func(v string) (steps.Patch, error) { return patch(v), nil }}
}

func toggle(key, label string, checked bool, patch func() steps.Patch) field {
	return field{key: key, label: label, kind: kindToggle, checked: checked,
		patch: func(string) (steps.Patch, error) { return patch(), nil }}
}

func text(key, label, current string, patch func(string) (steps.Patch, error)) field {
	return field{key: key, label: label, kind: kindText, current: current, patch: patch}
}

func ptr[T any](v T) *T { return &v }

// formFor lays out the rows of step id for the current draft.
func formFor(id models.StepID, d models.QuoteDraft, listing pricing.Listing, opts steps.Options) []field {
	switch id {
	case models.StepProjectType:
		return projectTypeForm(d, listing)
	case models.StepFeatures:
		return featuresForm(d, listing)
	case models.StepDesign:
		return designForm(d, listing, opts)
	case models.StepIntegrations:
		return integrationsForm(d, listing)
	case models.StepTimeline:
		return timelineForm(d, listing, opts)
	case models.StepBudget:
		return budgetForm(d, listing)
	case models.StepContact:
		return contactForm(d, opts)
	}
	return nil
}

func projectTypeForm(d models.QuoteDraft, listing pricing.Listing) []field {
	var types, industries []steps.Choice
	for _, o := range listing.ProjectTypes {
		types = append(types, steps.Choice{Value: string(o.ID), Label: fmt.Sprintf("%s (from %s)", o.Label, pricing.FormatUSD(o.BasePrice))})
	}
	for _, o := range listing.Industries {
		industries = append(industries, steps.Choice{Value: string(o.ID), Label: o.Label})
	}
	return []field{
		choice("projectType", "Project type", types, string(d.ProjectType), func(v string) steps.Patch {
			return &steps.ProjectTypePatch{ProjectType: ptr(models.ProjectType(v))}
		}),
		choice("industry", "Industry", industries, string(d.Industry), func(v string) steps.Patch {
			return &steps.ProjectTypePatch{Industry: ptr(models.Industry(v))}
		}),
	}
}

func featuresForm(d models.QuoteDraft, listing pricing.Listing) []field {
	selected := setOf(d.SelectedFeatures)
	var out []field
	for _, o := range listing.Features {
		id := o.ID
		out = append(out, toggle("selectedFeatures", fmt.Sprintf("%s (+%s)", o.Label, pricing.FormatUSD(o.PriceImpact)), selected[id],
			func() steps.Patch { return steps.ToggleFeature(d, id) }))
	}
	return out
}

func integrationsForm(d models.QuoteDraft, listing pricing.Listing) []field {
	selected := setOf(d.SelectedIntegrations)
	var out []field
	for _, o := range listing.Integrations {
		id := o.ID
		out = append(out, toggle("selectedIntegrations", fmt.Sprintf("%s (+%s)", o.Label, pricing.FormatUSD(o.PriceImpact)), selected[id],
			func() steps.Patch { return steps.ToggleIntegration(d, id) }))
	}
	return out
}

func designForm(d models.QuoteDraft, listing pricing.Listing, opts steps.Options) []field {
	var dp models.DesignPreferences
	if d.DesignPreferences != nil {
		dp = *d.DesignPreferences
	}
	var types []steps.Choice
	for _, o := range listing.DesignTypes {
		types = append(types, steps.Choice{Value: string(o.ID), Label: fmt.Sprintf("%s (x%.2f)", o.Label, o.Multiplier)})
	}
	return []field{
		choice("designPreferences.type", "Design type", types, string(dp.Type), func(v string) steps.Patch {
			return &steps.DesignPatch{Type: ptr(models.DesignType(v))}
		}),
		choice("designPreferences.style", "Style", opts.DesignStyles, string(dp.Style), func(v string) steps.Patch {
			return &steps.DesignPatch{Style: ptr(models.DesignStyle(v))}
		}),
		text("designPreferences.colorScheme", "Color scheme", dp.ColorScheme, func(v string) (steps.Patch, error) {
			return &steps.DesignPatch{ColorScheme: ptr(v)}, nil
		}),
		toggle("designPreferences.hasExistingBrand", "Existing brand guidelines", dp.HasExistingBrand, func() steps.Patch {
			return &steps.DesignPatch{HasExistingBrand: ptr(!dp.HasExistingBrand)}
		}),
	}
}

func timelineForm(d models.QuoteDraft, listing pricing.Listing, opts steps.Options) []field {
	var tl models.Timeline
	if d.Timeline != nil {
		tl = *d.Timeline
	}
	var priorities []steps.Choice
	for _, o := range listing.Priorities {
		priorities = append(priorities, steps.Choice{Value: string(o.ID), Label: fmt.Sprintf("%s (%s)", o.Label, o.TimelineLabel)})
	}
	out := []field{
		choice("timeline.priority", "Priority", priorities, string(tl.Priority), func(v string) steps.Patch {
			return &steps.TimelinePatch{Priority: ptr(models.Priority(v))}
		}),
		text("timeline.desiredLaunchDate", "Launch date (YYYY-MM-DD)", tl.DesiredLaunchDate, func(v string) (steps.Patch, error) {
			return &steps.TimelinePatch{DesiredLaunchDate: ptr(v)}, nil
		}),
		choice("timeline.availabilityForMeetings", "Meetings", opts.MeetingCadence, string(tl.AvailabilityForMeetings), func(v string) steps.Patch {
			return &steps.TimelinePatch{AvailabilityForMeetings: ptr(models.MeetingCadence(v))}
		}),
	}
	selected := setOf(tl.Phases)
	for _, c := range opts.Phases {
		phase := models.PhaseID(c.Value)
		out = append(out, toggle("timeline.phases", "Phase: "+c.Label, selected[phase], func() steps.Patch {
			next := make([]models.PhaseID, 0, len(tl.Phases)+1)
			for _, p := range tl.Phases {
				if p != phase {
					next = append(next, p)
				}
			}
			if !selected[phase] {
				next = append(next, phase)
			}
			return &steps.TimelinePatch{Phases: &next}
		}))
	}
	return out
}

func budgetForm(d models.QuoteDraft, listing pricing.Listing) []field {
	var b models.Budget
	if d.Budget != nil {
		b = *d.Budget
	}
	var payments []steps.Choice
	for _, o := range listing.Payments {
		payments = append(payments, steps.Choice{Value: string(o.ID), Label: fmt.Sprintf("%s (%+.0f%%)", o.Label, o.Adjustment*100)})
	}
	amount := func(v float64) string {
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return []field{
		text("budget.range.min", "Minimum budget", amount(b.Range.Min()), func(v string) (steps.Patch, error) {
			n, err := parseAmount(v)
			if err != nil {
				return nil, err
			}
			return &steps.BudgetPatch{Range: &models.BudgetRange{n, b.Range.Max()}}, nil
		}),
		text("budget.range.max", "Maximum budget", amount(b.Range.Max()), func(v string) (steps.Patch, error) {
			n, err := parseAmount(v)
			if err != nil {
				return nil, err
			}
			return &steps.BudgetPatch{Range: &models.BudgetRange{b.Range.Min(), n}}, nil
		}),
		choice("budget.paymentPreference", "Payment", payments, string(b.PaymentPreference), func(v string) steps.Patch {
			return &steps.BudgetPatch{PaymentPreference: ptr(models.PaymentPreference(v))}
		}),
		toggle("budget.hasFlexibility", "Budget is flexible", b.HasFlexibility, func() steps.Patch {
			return &steps.BudgetPatch{HasFlexibility: ptr(!b.HasFlexibility)}
		}),
	}
}

func contactForm(d models.QuoteDraft, opts steps.Options) []field {
	var c models.ContactInfo
	if d.ContactInfo != nil {
		c = *d.ContactInfo
	}
	str := func(key, label, cur string, set func(p *steps.ContactPatch, v string)) field {
		return text(key, label, cur, func(v string) (steps.Patch, error) {
			p := &steps.ContactPatch{}
			set(p, v)
			return p, nil
		})
	}
	return []field{
		str("contactInfo.firstName", "First name", c.FirstName, func(p *steps.ContactPatch, v string) { p.FirstName = &v }),
		str("contactInfo.lastName", "Last name", c.LastName, func(p *steps.ContactPatch, v string) { p.LastName = &v }),
		str("contactInfo.email", "Email", c.Email, func(p *steps.ContactPatch, v string) { p.Email = &v }),
		str("contactInfo.phone", "Phone", c.Phone, func(p *steps.ContactPatch, v string) { p.Phone = &v }),
		str("contactInfo.company", "Company", c.Company, func(p *steps.ContactPatch, v string) { p.Company = &v }),
		str("contactInfo.position", "Position", c.Position, func(p *steps.ContactPatch, v string) { p.Position = &v }),
		choice("contactInfo.preferredContactMethod", "Contact by", opts.ContactMethods, string(c.PreferredContactMethod), func(v string) steps.Patch {
			return &steps.ContactPatch{PreferredContactMethod: ptr(models.ContactMethod(v))}
		}),
		choice("contactInfo.bestTimeToContact", "Best time", opts.ContactTimes, string(c.BestTimeToContact), func(v string) steps.Patch {
			return &steps.ContactPatch{BestTimeToContact: ptr(models.ContactTime(v))}
		}),
		str("contactInfo.additionalComments", "Comments", c.AdditionalComments, func(p *steps.ContactPatch, v string) { p.AdditionalComments = &v }),
	}
}

func parseAmount(v string) (float64, error) {
	v = strings.NewReplacer(",", "", "$", "").Replace(strings.TrimSpace(v))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not an amount", v)
	}
	return n, nil
}

func setOf[T comparable](in []T) map[T]bool {
	out := make(map[T]bool, len(in))
	for _, v := range in {
		out[v] = true
	}
	return out
}
