package pricing

import (
	"sort"

	"quoteforge/models"
)

// Prices are in the catalog's base currency (USD).

type ProjectTypeOption struct {
	ID          models.ProjectType `json:"id"`
	Label       string             `json:"label"`
	Description string             `json:"description"`
	BasePrice   float64            `json:"basePrice"`
}

type IndustryOption struct {
	ID         models.Industry `json:"id"`
	Label      string          `json:"label"`
	Multiplier float64         `json:"multiplier"`
}

type FeatureOption struct {
	ID          models.FeatureID `json:"id"`
	Label       string           `json:"label"`
	PriceImpact float64          `json:"priceImpact"`
}

type IntegrationOption struct {
	ID          models.IntegrationID `json:"id"`
	Label       string               `json:"label"`
	Category    string               `json:"category"`
	PriceImpact float64              `json:"priceImpact"`
}

type DesignTypeOption struct {
	ID         models.DesignType `json:"id"`
	Label      string            `json:"label"`
	Multiplier float64           `json:"multiplier"`
}

type PriorityOption struct {
	ID            models.Priority `json:"id"`
	Label         string          `json:"label"`
	Multiplier    float64         `json:"multiplier"`
	TimelineLabel string          `json:"timelineLabel"`
}

type PaymentOption struct {
	ID         models.PaymentPreference `json:"id"`
	Label      string                   `json:"label"`
	Adjustment float64                  `json:"adjustment"`
}

// Catalog holds the static pricing tables. It is never mutated after
// construction; the maps are unexported and only read through methods.
type Catalog struct {
	projectTypes map[models.ProjectType]ProjectTypeOption
	industries   map[models.Industry]IndustryOption
	features     map[models.FeatureID]FeatureOption
	integrations map[models.IntegrationID]IntegrationOption
	designTypes  map[models.DesignType]DesignTypeOption
	priorities   map[models.Priority]PriorityOption
	payments     map[models.PaymentPreference]PaymentOption
}

var defaultCatalog = newCatalog(
	[]ProjectTypeOption{
		{ID: "landing-page", Label: "Landing Page", Description: "A single high-converting page", BasePrice: 800},
		{ID: "website", Label: "Website", Description: "Multi-page marketing or company site", BasePrice: 1500},
		{ID: "redesign", Label: "Redesign", Description: "Refresh of an existing site", BasePrice: 2500},
		{ID: "ecommerce", Label: "E-commerce Store", Description: "Online shop with catalog and checkout", BasePrice: 5000},
		{ID: "web-app", Label: "Web Application", Description: "Custom application in the browser", BasePrice: 8000},
		{ID: "mobile-app", Label: "Mobile App", Description: "Native or cross-platform mobile app", BasePrice: 10000},
	},
	[]IndustryOption{
		{ID: "technology", Label: "Technology", Multiplier: 1.0},
		{ID: "healthcare", Label: "Healthcare", Multiplier: 1.2},
		{ID: "finance", Label: "Finance", Multiplier: 1.25},
		{ID: "retail", Label: "Retail", Multiplier: 1.1},
		{ID: "education", Label: "Education", Multiplier: 0.9},
		{ID: "nonprofit", Label: "Non-profit", Multiplier: 0.85},
		{ID: "hospitality", Label: "Hospitality", Multiplier: 1.0},
		{ID: "real-estate", Label: "Real Estate", Multiplier: 1.05},
		{ID: "other", Label: "Other", Multiplier: 1.0},
	},
	[]FeatureOption{
		{ID: "blog", Label: "Blog", PriceImpact: 200},
		{ID: "contact-form", Label: "Contact Form", PriceImpact: 100},
		{ID: "newsletter", Label: "Newsletter Signup", PriceImpact: 150},
		{ID: "analytics", Label: "Analytics Dashboard", PriceImpact: 300},
		{ID: "search", Label: "Site Search", PriceImpact: 400},
		{ID: "chat", Label: "Live Chat", PriceImpact: 500},
		{ID: "multilingual", Label: "Multilingual Content", PriceImpact: 600},
		{ID: "cms", Label: "Content Management", PriceImpact: 700},
		{ID: "user-auth", Label: "User Accounts", PriceImpact: 800},
		{ID: "booking", Label: "Booking System", PriceImpact: 900},
		{ID: "admin-dashboard", Label: "Admin Dashboard", PriceImpact: 1000},
		{ID: "payments", Label: "Online Payments", PriceImpact: 1200},
	},
	[]IntegrationOption{
		{ID: "google-analytics", Label: "Google Analytics", Category: "analytics", PriceImpact: 150},
		{ID: "slack", Label: "Slack", Category: "communication", PriceImpact: 200},
		{ID: "mailchimp", Label: "Mailchimp", Category: "marketing", PriceImpact: 250},
		{ID: "zapier", Label: "Zapier", Category: "automation", PriceImpact: 300},
		{ID: "paypal", Label: "PayPal", Category: "payments", PriceImpact: 400},
		{ID: "hubspot", Label: "HubSpot", Category: "crm", PriceImpact: 500},
		{ID: "stripe", Label: "Stripe", Category: "payments", PriceImpact: 600},
		{ID: "shopify", Label: "Shopify", Category: "commerce", PriceImpact: 800},
		{ID: "salesforce", Label: "Salesforce", Category: "crm", PriceImpact: 1200},
	},
	[]DesignTypeOption{
		{ID: "template", Label: "Template", Multiplier: 1.0},
		{ID: "customized-template", Label: "Customized Template", Multiplier: 1.2},
		{ID: "custom", Label: "Custom Design", Multiplier: 1.5},
		{ID: "premium", Label: "Premium Custom", Multiplier: 2.0},
	},
	[]PriorityOption{
		{ID: "flexible", Label: "Flexible", Multiplier: 0.95, TimelineLabel: "12+ weeks"},
		{ID: "standard", Label: "Standard", Multiplier: 1.0, TimelineLabel: "8-12 weeks"},
		{ID: "priority", Label: "Priority", Multiplier: 1.25, TimelineLabel: "4-6 weeks"},
		{ID: "rush", Label: "Rush", Multiplier: 1.5, TimelineLabel: "2-3 weeks"},
	},
	[]PaymentOption{
		{ID: "full", Label: "Full payment upfront", Adjustment: -0.05},
		{ID: "milestones", Label: "Milestone payments", Adjustment: 0},
		{ID: "split", Label: "50% upfront, 50% on launch", Adjustment: 0},
		{ID: "monthly", Label: "Monthly installments", Adjustment: 0.10},
	},
)

// Default returns the process-wide catalog.
func Default() *Catalog {
	return defaultCatalog
}

func newCatalog(
	projectTypes []ProjectTypeOption,
	industries []IndustryOption,
	features []FeatureOption,
	integrations []IntegrationOption,
	designTypes []DesignTypeOption,
	priorities []PriorityOption,
	payments []PaymentOption,
) *Catalog {
	c := &Catalog{
		projectTypes: make(map[models.ProjectType]ProjectTypeOption, len(projectTypes)),
		industries:   make(map[models.Industry]IndustryOption, len(industries)),
		features:     make(map[models.FeatureID]FeatureOption, len(features)),
		integrations: make(map[models.IntegrationID]IntegrationOption, len(integrations)),
		designTypes:  make(map[models.DesignType]DesignTypeOption, len(designTypes)),
		priorities:   make(map[models.Priority]PriorityOption, len(priorities)),
		payments:     make(map[models.PaymentPreference]PaymentOption, len(payments)),
	}
	for _, o := range projectTypes {
		c.projectTypes[o.ID] = o
	}
	for _, o := range industries {
		c.industries[o.ID] = o
	}
	for _, o := range features {
		c.features[o.ID] = o
	}
	for _, o := range integrations {
		c.integrations[o.ID] = o
	}
	for _, o := range designTypes {
		c.designTypes[o.ID] = o
	}
	for _, o := range priorities {
		c.priorities[o.ID] = o
	}
	for _, o := range payments {
		c.payments[o.ID] = o
	}
	return c
}

func (c *Catalog) ProjectType(id models.ProjectType) (ProjectTypeOption, bool) {
	o, ok := c.projectTypes[id]
	return o, ok
}

func (c *Catalog) Industry(id models.Industry) (IndustryOption, bool) {
	o, ok := c.industries[id]
	return o, ok
}

func (c *Catalog) Feature(id models.FeatureID) (FeatureOption, bool) {
	o, ok := c.features[id]
	return o, ok
}

func (c *Catalog) Integration(id models.IntegrationID) (IntegrationOption, bool) {
	o, ok := c.integrations[id]
	return o, ok
}

func (c *Catalog) DesignType(id models.DesignType) (DesignTypeOption, bool) {
	o, ok := c.designTypes[id]
	return o, ok
}

func (c *Catalog) Priority(id models.Priority) (PriorityOption, bool) {
	o, ok := c.priorities[id]
	return o, ok
}

func (c *Catalog) Payment(id models.PaymentPreference) (PaymentOption, bool) {
	o, ok := c.payments[id]
	return o, ok
}

// Listing is the catalog as ordered slices, for clients that render choices.
type Listing struct {
	ProjectTypes []ProjectTypeOption `json:"projectTypes"`
	Industries   []IndustryOption    `json:"industries"`
	Features     []FeatureOption     `json:"features"`
	Integrations []IntegrationOption `json:"integrations"`
	DesignTypes  []DesignTypeOption  `json:"designTypes"`
	Priorities   []PriorityOption    `json:"priorities"`
	Payments     []PaymentOption     `json:"paymentPreferences"`
}

// Listing returns copies of every table. Priced tables are ordered by
// price (or multiplier) ascending, ties broken by id.
func (c *Catalog) Listing() Listing {
	l := Listing{
		ProjectTypes: values(c.projectTypes),
		Industries:   values(c.industries),
		Features:     values(c.features),
		Integrations: values(c.integrations),
		DesignTypes:  values(c.designTypes),
		Priorities:   values(c.priorities),
		Payments:     values(c.payments),
	}
	sort.Slice(l.ProjectTypes, func(i, j int) bool {
		return less(l.ProjectTypes[i].BasePrice, l.ProjectTypes[j].BasePrice, string(l.ProjectTypes[i].ID), string(l.ProjectTypes[j].ID))
	})
	sort.Slice(l.Industries, func(i, j int) bool { return l.Industries[i].Label < l.Industries[j].Label })
	sort.Slice(l.Features, func(i, j int) bool {
		return less(l.Features[i].PriceImpact, l.Features[j].PriceImpact, string(l.Features[i].ID), string(l.Features[j].ID))
	})
	sort.Slice(l.Integrations, func(i, j int) bool {
		return less(l.Integrations[i].PriceImpact, l.Integrations[j].PriceImpact, string(l.Integrations[i].ID), string(l.Integrations[j].ID))
	})
	sort.Slice(l.DesignTypes, func(i, j int) bool {
		return less(l.DesignTypes[i].Multiplier, l.DesignTypes[j].Multiplier, string(l.DesignTypes[i].ID), string(l.DesignTypes[j].ID))
	})
	sort.Slice(l.Priorities, func(i, j int) bool {
		return less(l.Priorities[i].Multiplier, l.Priorities[j].Multiplier, string(l.Priorities[i].ID), string(l.Priorities[j].ID))
	})
	sort.Slice(l.Payments, func(i, j int) bool {
		return less(l.Payments[i].Adjustment, l.Payments[j].Adjustment, string(l.Payments[i].ID), string(l.Payments[j].ID))
	})
	return l
}

func values[K comparable, V any](m map[K]V) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

func less(a, b float64, idA, idB string) bool {
	if a != b {
		return a < b
	}
	return idA < idB
}
