package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quoteforge/models"
)

// Submitter hands a finished quote to the backend that processes it.
type Submitter interface {
	Submit(ctx context.Context, sub models.QuoteSubmission) error
}

// SubmitterFunc adapts a plain function to Submitter.
type SubmitterFunc func(ctx context.Context, sub models.QuoteSubmission) error

func (f SubmitterFunc) Submit(ctx context.Context, sub models.QuoteSubmission) error {
	return f(ctx, sub)
}

// HTTPSubmitter posts submissions as JSON. Any 2xx response is success.
type HTTPSubmitter struct {
	URL    string
	Client *http.Client
}

func NewHTTPSubmitter(url string, timeout time.Duration) *HTTPSubmitter {
	return &HTTPSubmitter{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (h *HTTPSubmitter) Submit(ctx context.Context, sub models.QuoteSubmission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("submission endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("submission rejected with status %d: %s", resp.StatusCode, responseMessage(resp.Body))
}

// responseMessage extracts the {"message": ...} envelope when present and
// falls back to the raw body text.
func responseMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var envelope struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
		return envelope.Message
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return "no response body"
}
