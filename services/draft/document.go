package draft

import (
	"encoding/json"
	"errors"

	"quoteforge/models"
)

// document is what gets written to durable storage. Hydration state is
// never part of it.
type document struct {
	CurrentStep  int                           `json:"currentStep"`
	CurrentQuote activeQuote                   `json:"currentQuote"`
	SavedQuotes  map[string]models.PricedQuote `json:"savedQuotes"`
}

type activeQuote struct {
	ID    string            `json:"id,omitempty"`
	Draft models.QuoteDraft `json:"draft"`
}

// decodeDocument is lenient: unknown keys are ignored, missing ones take
// their zero value, and a field of the wrong type is skipped while the rest
// of the document is kept. Only unparseable JSON yields an empty document.
func decodeDocument(data []byte) (document, error) {
	var doc document
	if len(data) == 0 {
		doc.sanitize()
		return doc, nil
	}
	err := json.Unmarshal(data, &doc)
	var typeErr *json.UnmarshalTypeError
	if err != nil && !errors.As(err, &typeErr) {
		empty := document{}
		empty.sanitize()
		return empty, err
	}
	doc.sanitize()
	return doc, err
}

func (doc *document) sanitize() {
	doc.CurrentStep = int(models.ClampStep(doc.CurrentStep))
	doc.CurrentQuote.Draft.Normalize()

	// Records are re-keyed by their own id. When two records claim the same
	// id, the one stored under that key wins.
	saved := make(map[string]models.PricedQuote, len(doc.SavedQuotes))
	for key, q := range doc.SavedQuotes {
		if q.ID == "" {
			q.ID = key
		}
		if q.Status != models.QuoteStatusSubmitted {
			q.Status = models.QuoteStatusDraft
			q.SubmittedAt = nil
		}
		q.Draft.Normalize()
		if _, taken := saved[q.ID]; taken && q.ID != key {
			continue
		}
		saved[q.ID] = q
	}
	doc.SavedQuotes = saved

	// A quote that was already submitted can no longer be the active draft.
	if id := doc.CurrentQuote.ID; id != "" {
		if q, ok := doc.SavedQuotes[id]; ok && q.IsSubmitted() {
			doc.CurrentQuote = activeQuote{}
			doc.CurrentStep = int(models.FirstStep)
		}
	}
}
