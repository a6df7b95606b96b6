package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"quoteforge/models"
	"quoteforge/services/pricing"
)

const quotesSheet = "Quotes"

var quoteColumns = []string{
	"Quote ID", "Received", "Submitted", "Project Type", "Industry", "Features",
	"Integrations", "Contact", "Email", "Phone", "Estimated Price", "Currency", "Followed Up",
}

// QuotesWorkbook writes received quotes to an xlsx workbook, one row each.
func QuotesWorkbook(w io.Writer, records []models.QuoteRecord, catalog *pricing.Catalog) error {
	if catalog == nil {
		catalog = pricing.Default()
	}
	l := labeler{catalog}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(quotesSheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F2937"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(quoteColumns))
	for i, c := range quoteColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(quotesSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(quoteColumns))
	if err := f.SetCellStyle(quotesSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for i, rec := range records {
		d := rec.Draft
		followedUp := ""
		if rec.FollowedUpAt != nil {
			followedUp = rec.FollowedUpAt.Format("2006-01-02 15:04")
		}
		var email, phone string
		if d.ContactInfo != nil {
			email, phone = d.ContactInfo.Email, d.ContactInfo.Phone
		}
		row := []interface{}{
			rec.QuoteID,
			rec.ReceivedAt.Format("2006-01-02 15:04"),
			rec.SubmittedAt.Format("2006-01-02 15:04"),
			l.projectType(d.ProjectType),
			l.industry(d.Industry),
			l.features(d.SelectedFeatures),
			l.integrations(d.SelectedIntegrations),
			contactName(d.ContactInfo),
			email,
			phone,
			rec.EstimatedPrice,
			rec.Currency,
			followedUp,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(quotesSheet, cell, &row); err != nil {
			return err
		}
	}

	if len(records) > 0 {
		priceCol, _ := excelize.ColumnNumberToName(11)
		if err := f.SetCellStyle(quotesSheet, priceCol+"2", fmt.Sprintf("%s%d", priceCol, len(records)+1), moneyStyle); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(quotesSheet, "A", "A", 38)
	_ = f.SetColWidth(quotesSheet, "B", "C", 18)
	_ = f.SetColWidth(quotesSheet, "D", "G", 24)
	_ = f.SetColWidth(quotesSheet, "H", "J", 22)
	_ = f.SetColWidth(quotesSheet, "K", "M", 16)
	if err := f.SetPanes(quotesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
