package models

// StepID identifies one of the seven ordered wizard steps.
type StepID int

const (
	StepProjectType StepID = iota + 1
	StepFeatures
	StepDesign
	StepIntegrations
	StepTimeline
	StepBudget
	StepContact
)

const (
	FirstStep = StepProjectType
	LastStep  = StepContact
)

func (s StepID) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// ClampStep forces n into [FirstStep, LastStep].
func ClampStep(n int) StepID {
	if n < int(FirstStep) {
		return FirstStep
	}
	if n > int(LastStep) {
		return LastStep
	}
	return StepID(n)
}

// WizardSession is the transient navigation state of one wizard.
type WizardSession struct {
	CurrentStep StepID `json:"currentStep"`
	HasHydrated bool   `json:"hasHydrated"`
}

type WizardPhase string

const (
	WizardEditing    WizardPhase = "editing"
	WizardSubmitting WizardPhase = "submitting"
	WizardSubmitted  WizardPhase = "submitted"
)
