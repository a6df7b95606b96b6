package steps

import "quoteforge/models"

var projectTypeStep = Step{
	ID:          models.StepProjectType,
	Key:         "project-type",
	Title:       "Project Type",
	Description: "What are we building, and for which industry?",
	Enforced:    true,
	Fields:      []string{"projectType", "industry"},
	form: func(d models.QuoteDraft) any {
		return projectTypeForm{ProjectType: d.ProjectType, Industry: d.Industry}
	},
}

type projectTypeForm struct {
	ProjectType models.ProjectType `json:"projectType" validate:"required,projecttype"`
	Industry    models.Industry    `json:"industry" validate:"required,industry"`
}

type ProjectTypePatch struct {
	ProjectType *models.ProjectType `json:"projectType,omitempty"`
	Industry    *models.Industry    `json:"industry,omitempty"`
}

func (p *ProjectTypePatch) Step() models.StepID { return models.StepProjectType }

func (p *ProjectTypePatch) Apply(d *models.QuoteDraft) {
	if p.ProjectType != nil {
		d.ProjectType = *p.ProjectType
	}
	if p.Industry != nil {
		d.Industry = *p.Industry
	}
}
