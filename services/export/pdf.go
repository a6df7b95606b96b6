package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"quoteforge/models"
	"quoteforge/services/pricing"
)

// QuotePDF writes a one-page summary of q, with the price breakdown
// recomputed from the catalog.
func QuotePDF(w io.Writer, q models.PricedQuote, catalog *pricing.Catalog, unit currency.Unit) error {
	if catalog == nil {
		catalog = pricing.Default()
	}
	l := labeler{catalog}
	b := catalog.Estimate(q.Draft)
	money := func(v float64) string { return pricing.FormatPrice(v, unit, language.AmericanEnglish) }
	d := q.Draft

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Project quote "+q.ID, true)
	pdf.AddPage()

	// Title bar
	pdf.SetFillColor(0, 0, 0)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(190, 12, "Project Quote", "1", 1, "C", true, 0, "")
	pdf.SetFillColor(255, 255, 255)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(190, 6, tr(fmt.Sprintf("Quote ID: %s", q.ID)))
	pdf.Ln(5)
	pdf.Cell(190, 6, tr(fmt.Sprintf("Status: %s", q.Status)))
	pdf.Ln(5)
	pdf.Cell(190, 6, fmt.Sprintf("Last updated: %s", q.UpdatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(5)
	if q.SubmittedAt != nil {
		pdf.Cell(190, 6, fmt.Sprintf("Submitted: %s", q.SubmittedAt.Format("2006-01-02 15:04")))
		pdf.Ln(5)
	}
	pdf.Ln(5)

	section := func(title string) {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 9, title, "1", 1, "L", true, 0, "")
		pdf.SetFillColor(255, 255, 255)
		pdf.SetFont("Arial", "", 10)
	}
	row := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(55, 7, label, "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(135, 7, tr(orDash(value)), "1", "L", false)
	}

	section("Project")
	row("Project type", l.projectType(d.ProjectType))
	row("Industry", l.industry(d.Industry))
	row("Features", l.features(d.SelectedFeatures))
	row("Integrations", l.integrations(d.SelectedIntegrations))
	if dp := d.DesignPreferences; dp != nil {
		row("Design", strings.TrimSpace(l.designType(dp.Type)+" "+string(dp.Style)))
		row("Colour scheme", dp.ColorScheme)
	}
	if tl := d.Timeline; tl != nil {
		row("Priority", l.priority(tl.Priority))
		row("Desired launch", tl.DesiredLaunchDate)
	}
	if bg := d.Budget; bg != nil {
		row("Budget", fmt.Sprintf("%s to %s", money(bg.Range.Min()), money(bg.Range.Max())))
		row("Payment", l.payment(bg.PaymentPreference))
	}
	pdf.Ln(5)

	if c := d.ContactInfo; c != nil {
		section("Contact")
		row("Name", contactName(c))
		row("Email", c.Email)
		row("Phone", c.Phone)
		row("Company", c.Company)
		pdf.Ln(5)
	}

	section("Estimate")
	priceRow := func(label, value string) {
		pdf.CellFormat(140, 7, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, value, "1", 1, "R", false, 0, "")
	}
	priceRow("Base price", money(b.Base))
	priceRow(fmt.Sprintf("Industry multiplier (x%.2f)", b.IndustryFactor), money(b.AfterIndustry))
	priceRow("Features", "+"+money(b.FeaturesTotal))
	priceRow("Integrations", "+"+money(b.IntegrationsTotal))
	priceRow(fmt.Sprintf("Design multiplier (x%.2f)", b.DesignFactor), money(b.AfterDesign))
	priceRow(fmt.Sprintf("Timeline multiplier (x%.2f)", b.PriorityFactor), money(b.AfterPriority))
	if b.PaymentAdjustment != 0 {
		priceRow(fmt.Sprintf("Payment adjustment (%+.0f%%)", b.PaymentAdjustment*100), money(b.Final-b.AfterPriority))
	}
	pdf.SetFont("Arial", "B", 11)
	priceRow("Estimated total", money(b.Final))
	if b.TimelineLabel != "" {
		pdf.SetFont("Arial", "I", 9)
		pdf.Ln(2)
		pdf.Cell(190, 6, tr("Estimated timeline: "+b.TimelineLabel))
	}

	pdf.SetY(-20)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated on %s. Estimates are indicative and confirmed after a discovery call.", time.Now().Format("2006-01-02")), "", 0, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render quote pdf: %w", err)
	}
	return nil
}
