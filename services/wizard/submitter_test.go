package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quoteforge/models"
)

func zapNop() *zap.Logger { return zap.NewNop() }

func TestHTTPSubmitter_Success(t *testing.T) {
	var got models.QuoteSubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sub := NewHTTPSubmitter(srv.URL, 2*time.Second)
	err := sub.Submit(context.Background(), models.QuoteSubmission{
		QuoteID:        "q-1",
		Draft:          models.QuoteDraft{ProjectType: "website"},
		EstimatedPrice: 1500,
		Currency:       "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, "q-1", got.QuoteID)
	assert.Equal(t, models.ProjectType("website"), got.Draft.ProjectType)
	assert.Equal(t, 1500.0, got.EstimatedPrice)
}

func TestHTTPSubmitter_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"json envelope", http.StatusUnprocessableEntity, `{"message":"quote id is required"}`, "quote id is required"},
		{"plain text", http.StatusBadGateway, "upstream exploded\n", "upstream exploded"},
		{"empty body", http.StatusInternalServerError, "", "no response body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewHTTPSubmitter(srv.URL, time.Second).Submit(context.Background(), models.QuoteSubmission{QuoteID: "q"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestHTTPSubmitter_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewHTTPSubmitter(url, time.Second).Submit(context.Background(), models.QuoteSubmission{QuoteID: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}
