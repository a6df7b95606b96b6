package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"quoteforge/models"
	"quoteforge/services/pricing"
)

var (
	labelStyle = lipgloss.NewStyle().Width(24)
	totalStyle = lipgloss.NewStyle().Bold(true)
)

func priceCmd() *cobra.Command {
	var currencyCode string
	cmd := &cobra.Command{
		Use:   "price <draft.json|->",
		Short: "Print the price breakdown of a quote draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readDraft(args[0])
			if err != nil {
				return err
			}
			unit := pricing.ParseCurrency(currencyCode)
			b := pricing.Default().Estimate(d)

			out := cmd.OutOrStdout()
			money := func(v float64) string { return pricing.FormatPrice(v, unit, language.AmericanEnglish) }
			row := func(label, value string) {
				fmt.Fprintln(out, labelStyle.Render(label)+value)
			}
			row("Base price", money(b.Base))
			row("Industry multiplier", fmt.Sprintf("x%.2f", b.IndustryFactor))
			row("Features", "+"+money(b.FeaturesTotal))
			row("Integrations", "+"+money(b.IntegrationsTotal))
			row("Subtotal", money(b.Subtotal))
			row("Design multiplier", fmt.Sprintf("x%.2f", b.DesignFactor))
			row("Priority multiplier", fmt.Sprintf("x%.2f", b.PriorityFactor))
			if b.TimelineLabel != "" {
				row("Timeline", b.TimelineLabel)
			}
			row("Payment adjustment", fmt.Sprintf("%+.0f%%", b.PaymentAdjustment*100))
			fmt.Fprintln(out, totalStyle.Render(labelStyle.Render("Estimated price")+money(b.Final)))
			return nil
		},
	}
	cmd.Flags().StringVar(&currencyCode, "currency", "USD", "ISO 4217 code used to round and format amounts")
	return cmd
}

// readDraft decodes a QuoteDraft from a file, or from stdin for "-".
func readDraft(path string) (models.QuoteDraft, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return models.QuoteDraft{}, err
		}
		defer f.Close()
		r = f
	}
	var d models.QuoteDraft
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return models.QuoteDraft{}, fmt.Errorf("invalid draft: %w", err)
	}
	d.Normalize()
	return d, nil
}
