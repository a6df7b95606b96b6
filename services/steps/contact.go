package steps

import (
	"strings"

	"quoteforge/models"
)

var contactStep = Step{
	ID:          models.StepContact,
	Key:         "contact",
	Title:       "Contact",
	Description: "Who should we send the proposal to?",
	Enforced:    true,
	Fields: []string{
		"contactInfo.firstName",
		"contactInfo.lastName",
		"contactInfo.email",
		"contactInfo.phone",
		"contactInfo.company",
		"contactInfo.position",
		"contactInfo.preferredContactMethod",
		"contactInfo.bestTimeToContact",
		"contactInfo.additionalComments",
	},
	form: func(d models.QuoteDraft) any {
		var f contactForm
		if c := d.ContactInfo; c != nil {
			f = contactForm{
				FirstName:              strings.TrimSpace(c.FirstName),
				LastName:               strings.TrimSpace(c.LastName),
				Email:                  strings.TrimSpace(c.Email),
				Phone:                  strings.TrimSpace(c.Phone),
				Company:                c.Company,
				Position:               c.Position,
				PreferredContactMethod: c.PreferredContactMethod,
				BestTimeToContact:      c.BestTimeToContact,
				AdditionalComments:     c.AdditionalComments,
			}
		}
		return f
	},
}

type contactForm struct {
	FirstName              string               `json:"contactInfo.firstName" validate:"required,max=50"`
	LastName               string               `json:"contactInfo.lastName" validate:"required,max=50"`
	Email                  string               `json:"contactInfo.email" validate:"required,email"`
	Phone                  string               `json:"contactInfo.phone" validate:"required,phone"`
	Company                string               `json:"contactInfo.company" validate:"max=100"`
	Position               string               `json:"contactInfo.position" validate:"max=100"`
	PreferredContactMethod models.ContactMethod `json:"contactInfo.preferredContactMethod" validate:"omitempty,contactmethod"`
	BestTimeToContact      models.ContactTime   `json:"contactInfo.bestTimeToContact" validate:"omitempty,contacttime"`
	AdditionalComments     string               `json:"contactInfo.additionalComments" validate:"max=2000"`
}

type ContactPatch struct {
	FirstName              *string               `json:"firstName,omitempty"`
	LastName               *string               `json:"lastName,omitempty"`
	Email                  *string               `json:"email,omitempty"`
	Phone                  *string               `json:"phone,omitempty"`
	Company                *string               `json:"company,omitempty"`
	Position               *string               `json:"position,omitempty"`
	PreferredContactMethod *models.ContactMethod `json:"preferredContactMethod,omitempty"`
	BestTimeToContact      *models.ContactTime   `json:"bestTimeToContact,omitempty"`
	AdditionalComments     *string               `json:"additionalComments,omitempty"`
}

func (p *ContactPatch) Step() models.StepID { return models.StepContact }

func (p *ContactPatch) Apply(d *models.QuoteDraft) {
	if *p == (ContactPatch{}) {
		return
	}
	c := models.ContactInfo{}
	if d.ContactInfo != nil {
		c = *d.ContactInfo
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.FirstName, p.FirstName)
	set(&c.LastName, p.LastName)
	set(&c.Email, p.Email)
	set(&c.Phone, p.Phone)
	set(&c.Company, p.Company)
	set(&c.Position, p.Position)
	set(&c.AdditionalComments, p.AdditionalComments)
	if p.PreferredContactMethod != nil {
		c.PreferredContactMethod = *p.PreferredContactMethod
	}
	if p.BestTimeToContact != nil {
		c.BestTimeToContact = *p.BestTimeToContact
	}
	d.ContactInfo = &c
}
