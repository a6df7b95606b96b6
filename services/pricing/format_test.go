package pricing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

func TestRoundMinor(t *testing.T) {
	assert.Equal(t, 2422.5, RoundMinor(2422.499999999, currency.USD))
	assert.Equal(t, 10.01, RoundMinor(10.005000001, currency.USD))
	assert.Equal(t, 1235.0, RoundMinor(1234.6, currency.JPY))
}

func TestParseCurrency(t *testing.T) {
	assert.Equal(t, currency.EUR, ParseCurrency("EUR"))
	assert.Equal(t, DefaultCurrency, ParseCurrency(""))
	assert.Equal(t, DefaultCurrency, ParseCurrency("not-a-code"))
}

func TestFormatPrice(t *testing.T) {
	out := FormatPrice(2422.4999999, currency.USD, language.English)
	assert.True(t, strings.HasPrefix(out, "USD "), out)
	assert.True(t, strings.HasSuffix(out, ".50"), out)
}
