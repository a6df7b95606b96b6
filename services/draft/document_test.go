package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteforge/models"
)

func TestDecodeDocument_UnparseableIsEmptyAtFirstStep(t *testing.T) {
	for _, raw := range []string{`{"currentStep": 4, "currentQuote": `, `not json`, ``} {
		doc, _ := decodeDocument([]byte(raw))
		assert.Equal(t, int(models.FirstStep), doc.CurrentStep, "input %q", raw)
		assert.True(t, doc.CurrentQuote.Draft.IsEmpty())
		assert.Empty(t, doc.SavedQuotes)
	}
}

func TestDecodeDocument_RekeysSavedQuotesWithoutLosingRecords(t *testing.T) {
	raw := `{"savedQuotes": {
		"a": {"id": "b", "estimatedPrice": 1},
		"b": {"id": "b", "estimatedPrice": 2},
		"c": {"estimatedPrice": 3},
		"d": {"id": "e", "estimatedPrice": 4}
	}}`
	doc, err := decodeDocument([]byte(raw))
	require.NoError(t, err)

	require.Len(t, doc.SavedQuotes, 3)
	assert.Equal(t, 2.0, doc.SavedQuotes["b"].EstimatedPrice, "the record stored under its own id wins")
	assert.Equal(t, "c", doc.SavedQuotes["c"].ID)
	assert.Equal(t, 4.0, doc.SavedQuotes["e"].EstimatedPrice)
	for id, q := range doc.SavedQuotes {
		assert.Equal(t, id, q.ID)
	}
}
