package pricing

import (
	"fmt"
	"math"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is the currency the catalog is priced in.
var DefaultCurrency = currency.USD

// ParseCurrency resolves an ISO 4217 code, falling back to DefaultCurrency.
func ParseCurrency(code string) currency.Unit {
	if code == "" {
		return DefaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return DefaultCurrency
	}
	return unit
}

// RoundMinor rounds amount to the currency's minor unit, honouring cash
// increments where the currency defines them.
func RoundMinor(amount float64, unit currency.Unit) float64 {
	scale, increment := currency.Standard.Rounding(unit)
	factor := math.Pow10(scale)
	if increment <= 1 {
		return math.Round(amount*factor) / factor
	}
	step := float64(increment)
	return math.Round(amount*factor/step) * step / factor
}

// FormatPrice renders amount for display, e.g. "USD 2,422.50" for English.
func FormatPrice(amount float64, unit currency.Unit, lang language.Tag) string {
	scale, _ := currency.Standard.Rounding(unit)
	p := message.NewPrinter(lang)
	return p.Sprintf(fmt.Sprintf("%%s %%.%df", scale), unit.String(), RoundMinor(amount, unit))
}

// FormatUSD formats amount in US dollars for English readers.
func FormatUSD(amount float64) string {
	return FormatPrice(amount, currency.USD, language.English)
}

// Describe returns a short human summary of a breakdown for logs.
func (b Breakdown) Describe() string {
	return fmt.Sprintf("base=%.2f industry=x%.2f features=+%.2f integrations=+%.2f design=x%.2f priority=x%.2f payment=%+.2f%% final=%.2f",
		b.Base, b.IndustryFactor, b.FeaturesTotal, b.IntegrationsTotal, b.DesignFactor, b.PriorityFactor, b.PaymentAdjustment*100, b.Final)
}
