package models

import (
	"sort"
	"time"
)

type (
	ProjectType       string
	Industry          string
	FeatureID         string
	IntegrationID     string
	DesignType        string
	DesignStyle       string
	Priority          string
	PhaseID           string
	MeetingCadence    string
	PaymentPreference string
	ContactMethod     string
	ContactTime       string
)

const (
	DesignStyleMinimal DesignStyle = "minimal"
	DesignStyleModern  DesignStyle = "modern"
	DesignStyleClassic DesignStyle = "classic"
	DesignStyleBold    DesignStyle = "bold"
	DesignStylePlayful DesignStyle = "playful"
)

const (
	PhaseDiscovery   PhaseID = "discovery"
	PhaseDesign      PhaseID = "design"
	PhaseDevelopment PhaseID = "development"
	PhaseTesting     PhaseID = "testing"
	PhaseLaunch      PhaseID = "launch"
	PhaseMaintenance PhaseID = "maintenance"
)

const (
	MeetingsWeekly   MeetingCadence = "weekly"
	MeetingsBiweekly MeetingCadence = "biweekly"
	MeetingsMonthly  MeetingCadence = "monthly"
	MeetingsAsNeeded MeetingCadence = "as-needed"
)

const (
	ContactByEmail ContactMethod = "email"
	ContactByPhone ContactMethod = "phone"
	ContactByVideo ContactMethod = "video"
)

const (
	ContactMorning   ContactTime = "morning"
	ContactAfternoon ContactTime = "afternoon"
	ContactEvening   ContactTime = "evening"
	ContactAnytime   ContactTime = "anytime"
)

// QuoteDraft is the accumulating, possibly incomplete answer set of the wizard.
// Every field is optional; each one is written by exactly one step.
type QuoteDraft struct {
	// Step 1
	ProjectType ProjectType `json:"projectType,omitempty" bson:"projectType,omitempty"`
	Industry    Industry    `json:"industry,omitempty" bson:"industry,omitempty"`
	// Step 2
	SelectedFeatures []FeatureID `json:"selectedFeatures,omitempty" bson:"selectedFeatures,omitempty"`
	// Step 3
	DesignPreferences *DesignPreferences `json:"designPreferences,omitempty" bson:"designPreferences,omitempty"`
	// Step 4
	SelectedIntegrations []IntegrationID `json:"selectedIntegrations,omitempty" bson:"selectedIntegrations,omitempty"`
	// Step 5
	Timeline *Timeline `json:"timeline,omitempty" bson:"timeline,omitempty"`
	// Step 6
	Budget *Budget `json:"budget,omitempty" bson:"budget,omitempty"`
	// Step 7
	ContactInfo *ContactInfo `json:"contactInfo,omitempty" bson:"contactInfo,omitempty"`
}

type DesignPreferences struct {
	Type             DesignType  `json:"type,omitempty" bson:"type,omitempty"`
	Style            DesignStyle `json:"style,omitempty" bson:"style,omitempty"`
	ColorScheme      string      `json:"colorScheme,omitempty" bson:"colorScheme,omitempty"`
	HasExistingBrand bool        `json:"hasExistingBrand" bson:"hasExistingBrand"`
	InspirationURLs  []string    `json:"inspirationUrls,omitempty" bson:"inspirationUrls,omitempty"`
}

type Timeline struct {
	DesiredLaunchDate       string         `json:"desiredLaunchDate,omitempty" bson:"desiredLaunchDate,omitempty"`
	Priority                Priority       `json:"priority,omitempty" bson:"priority,omitempty"`
	Phases                  []PhaseID      `json:"phases,omitempty" bson:"phases,omitempty"`
	AvailabilityForMeetings MeetingCadence `json:"availabilityForMeetings,omitempty" bson:"availabilityForMeetings,omitempty"`
}

// BudgetRange is the [min, max] interval the client is willing to spend.
type BudgetRange [2]float64

func (r BudgetRange) Min() float64 { return r[0] }
func (r BudgetRange) Max() float64 { return r[1] }

type Budget struct {
	Range             BudgetRange       `json:"range" bson:"range"`
	PaymentPreference PaymentPreference `json:"paymentPreference,omitempty" bson:"paymentPreference,omitempty"`
	HasFlexibility    bool              `json:"hasFlexibility" bson:"hasFlexibility"`
}

type ContactInfo struct {
	FirstName              string        `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName               string        `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Email                  string        `json:"email,omitempty" bson:"email,omitempty"`
	Phone                  string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Company                string        `json:"company,omitempty" bson:"company,omitempty"`
	Position               string        `json:"position,omitempty" bson:"position,omitempty"`
	PreferredContactMethod ContactMethod `json:"preferredContactMethod,omitempty" bson:"preferredContactMethod,omitempty"`
	BestTimeToContact      ContactTime   `json:"bestTimeToContact,omitempty" bson:"bestTimeToContact,omitempty"`
	AdditionalComments     string        `json:"additionalComments,omitempty" bson:"additionalComments,omitempty"`
}

// IsEmpty reports whether no step has written anything yet.
func (d QuoteDraft) IsEmpty() bool {
	return d.ProjectType == "" &&
		d.Industry == "" &&
		len(d.SelectedFeatures) == 0 &&
		d.DesignPreferences == nil &&
		len(d.SelectedIntegrations) == 0 &&
		d.Timeline == nil &&
		d.Budget == nil &&
		d.ContactInfo == nil
}

// Clone returns a deep copy so saved records never alias the active draft.
func (d QuoteDraft) Clone() QuoteDraft {
	out := d
	out.SelectedFeatures = cloneSlice(d.SelectedFeatures)
	out.SelectedIntegrations = cloneSlice(d.SelectedIntegrations)
	if d.DesignPreferences != nil {
		dp := *d.DesignPreferences
		dp.InspirationURLs = cloneSlice(dp.InspirationURLs)
		out.DesignPreferences = &dp
	}
	if d.Timeline != nil {
		tl := *d.Timeline
		tl.Phases = cloneSlice(tl.Phases)
		out.Timeline = &tl
	}
	if d.Budget != nil {
		b := *d.Budget
		out.Budget = &b
	}
	if d.ContactInfo != nil {
		c := *d.ContactInfo
		out.ContactInfo = &c
	}
	return out
}

// Normalize sorts and deduplicates the set-valued fields in place.
func (d *QuoteDraft) Normalize() {
	d.SelectedFeatures = NormalizeSet(d.SelectedFeatures)
	d.SelectedIntegrations = NormalizeSet(d.SelectedIntegrations)
	if d.Timeline != nil {
		d.Timeline.Phases = NormalizeSet(d.Timeline.Phases)
	}
}

// NormalizeSet returns the distinct non-empty members of in, sorted.
func NormalizeSet[T ~string](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusSubmitted QuoteStatus = "submitted"
)

// PricedQuote is a saved snapshot of a draft with its estimate.
type PricedQuote struct {
	ID             string      `json:"id" bson:"id"`
	Draft          QuoteDraft  `json:"draft" bson:"draft"`
	EstimatedPrice float64     `json:"estimatedPrice" bson:"estimatedPrice"`
	Status         QuoteStatus `json:"status" bson:"status"`
	CreatedAt      time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt" bson:"updatedAt"`
	SubmittedAt    *time.Time  `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
}

func (q PricedQuote) IsSubmitted() bool {
	return q.Status == QuoteStatusSubmitted
}
