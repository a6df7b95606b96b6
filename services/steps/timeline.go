package steps

import "quoteforge/models"

var timelineStep = Step{
	ID:          models.StepTimeline,
	Key:         "timeline",
	Title:       "Timeline",
	Description: "When do you want to launch, and how involved do you want to be?",
	Fields: []string{
		"timeline.desiredLaunchDate",
		"timeline.priority",
		"timeline.phases",
		"timeline.availabilityForMeetings",
	},
	form: func(d models.QuoteDraft) any {
		var f timelineForm
		if tl := d.Timeline; tl != nil {
			f = timelineForm{
				DesiredLaunchDate:       tl.DesiredLaunchDate,
				Priority:                tl.Priority,
				Phases:                  tl.Phases,
				AvailabilityForMeetings: tl.AvailabilityForMeetings,
			}
		}
		return f
	},
}

type timelineForm struct {
	DesiredLaunchDate       string                `json:"timeline.desiredLaunchDate" validate:"omitempty,datetime=2006-01-02"`
	Priority                models.Priority       `json:"timeline.priority" validate:"omitempty,priority"`
	Phases                  []models.PhaseID      `json:"timeline.phases" validate:"dive,phase"`
	AvailabilityForMeetings models.MeetingCadence `json:"timeline.availabilityForMeetings" validate:"omitempty,cadence"`
}

type TimelinePatch struct {
	DesiredLaunchDate       *string                `json:"desiredLaunchDate,omitempty"`
	Priority                *models.Priority       `json:"priority,omitempty"`
	Phases                  *[]models.PhaseID      `json:"phases,omitempty"`
	AvailabilityForMeetings *models.MeetingCadence `json:"availabilityForMeetings,omitempty"`
}

func (p *TimelinePatch) Step() models.StepID { return models.StepTimeline }

func (p *TimelinePatch) Apply(d *models.QuoteDraft) {
	if p.DesiredLaunchDate == nil && p.Priority == nil && p.Phases == nil && p.AvailabilityForMeetings == nil {
		return
	}
	tl := models.Timeline{}
	if d.Timeline != nil {
		tl = *d.Timeline
	}
	if p.DesiredLaunchDate != nil {
		tl.DesiredLaunchDate = *p.DesiredLaunchDate
	}
	if p.Priority != nil {
		tl.Priority = *p.Priority
	}
	if p.Phases != nil {
		tl.Phases = models.NormalizeSet(*p.Phases)
	}
	if p.AvailabilityForMeetings != nil {
		tl.AvailabilityForMeetings = *p.AvailabilityForMeetings
	}
	d.Timeline = &tl
}
