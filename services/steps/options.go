package steps

import "quoteforge/models"

// Choice is a selectable value with its display label.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options lists the choices of the step fields that carry no price.
type Options struct {
	DesignStyles   []Choice `json:"designStyles"`
	Phases         []Choice `json:"phases"`
	MeetingCadence []Choice `json:"meetingCadence"`
	ContactMethods []Choice `json:"contactMethods"`
	ContactTimes   []Choice `json:"contactTimes"`
}

var options = Options{
	DesignStyles: []Choice{
		{string(models.DesignStyleMinimal), "Minimal"},
		{string(models.DesignStyleModern), "Modern"},
		{string(models.DesignStyleClassic), "Classic"},
		{string(models.DesignStyleBold), "Bold"},
		{string(models.DesignStylePlayful), "Playful"},
	},
	Phases: []Choice{
		{string(models.PhaseDiscovery), "Discovery & Strategy"},
		{string(models.PhaseDesign), "Design"},
		{string(models.PhaseDevelopment), "Development"},
		{string(models.PhaseTesting), "Testing & QA"},
		{string(models.PhaseLaunch), "Launch"},
		{string(models.PhaseMaintenance), "Ongoing Maintenance"},
	},
	MeetingCadence: []Choice{
		{string(models.MeetingsWeekly), "Weekly"},
		{string(models.MeetingsBiweekly), "Every two weeks"},
		{string(models.MeetingsMonthly), "Monthly"},
		{string(models.MeetingsAsNeeded), "As needed"},
	},
	ContactMethods: []Choice{
		{string(models.ContactByEmail), "Email"},
		{string(models.ContactByPhone), "Phone"},
		{string(models.ContactByVideo), "Video call"},
	},
	ContactTimes: []Choice{
		{string(models.ContactMorning), "Morning"},
		{string(models.ContactAfternoon), "Afternoon"},
		{string(models.ContactEvening), "Evening"},
		{string(models.ContactAnytime), "Any time"},
	},
}

// StaticOptions returns a copy of the unpriced choice lists.
func StaticOptions() Options {
	return Options{
		DesignStyles:   append([]Choice(nil), options.DesignStyles...),
		Phases:         append([]Choice(nil), options.Phases...),
		MeetingCadence: append([]Choice(nil), options.MeetingCadence...),
		ContactMethods: append([]Choice(nil), options.ContactMethods...),
		ContactTimes:   append([]Choice(nil), options.ContactTimes...),
	}
}

func hasChoice(list []Choice, v string) bool {
	for _, c := range list {
		if c.Value == v {
			return true
		}
	}
	return false
}
