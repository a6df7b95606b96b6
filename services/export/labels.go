// Package export renders quotes as documents: a PDF summary for the client
// and an xlsx workbook of received quotes for the agency.
package export

import (
	"strings"

	"quoteforge/models"
	"quoteforge/services/pricing"
)

// labeler turns catalog ids into display labels, falling back to the id.
type labeler struct {
	c *pricing.Catalog
}

func (l labeler) projectType(id models.ProjectType) string {
	if o, ok := l.c.ProjectType(id); ok {
		return o.Label
	}
	return string(id)
}

func (l labeler) industry(id models.Industry) string {
	if o, ok := l.c.Industry(id); ok {
		return o.Label
	}
	return string(id)
}

func (l labeler) features(ids []models.FeatureID) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if o, ok := l.c.Feature(id); ok {
			out = append(out, o.Label)
		} else {
			out = append(out, string(id))
		}
	}
	return strings.Join(out, ", ")
}

func (l labeler) integrations(ids []models.IntegrationID) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if o, ok := l.c.Integration(id); ok {
			out = append(out, o.Label)
		} else {
			out = append(out, string(id))
		}
	}
	return strings.Join(out, ", ")
}

func (l labeler) designType(id models.DesignType) string {
	if o, ok := l.c.DesignType(id); ok {
		return o.Label
	}
	return string(id)
}

func (l labeler) priority(id models.Priority) string {
	if o, ok := l.c.Priority(id); ok {
		return o.Label
	}
	return string(id)
}

func (l labeler) payment(id models.PaymentPreference) string {
	if o, ok := l.c.Payment(id); ok {
		return o.Label
	}
	return string(id)
}

func contactName(c *models.ContactInfo) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
