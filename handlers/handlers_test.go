package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	quotesRepo "quoteforge/database/repository/quotes"
	"quoteforge/handlers"
	"quoteforge/models"
	"quoteforge/routes"
	"quoteforge/services/wizard"
	"quoteforge/utils"
)

const adminToken = "test-admin"

type fakeQueue struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (q *fakeQueue) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprintf("task-%d", len(q.tasks)), Type: task.Type()}, nil
}

func (q *fakeQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

type testServer struct {
	router *gin.Engine
	repo   quotesRepo.QuoteRepository
	queue  *fakeQueue
}

// newTestServer wires the full router. Unless a submitter is given, the
// wizard submits to the server's own intake endpoint in process.
func newTestServer(t *testing.T, submitter wizard.Submitter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ts := &testServer{repo: quotesRepo.NewMemoryQuoteRepo(), queue: &fakeQueue{}}

	if submitter == nil {
		submitter = wizard.SubmitterFunc(func(ctx context.Context, sub models.QuoteSubmission) error {
			w := ts.do(http.MethodPost, "/api/quotes/intake", sub, "")
			if w.Code >= 300 {
				return fmt.Errorf("intake answered %d: %s", w.Code, w.Body.String())
			}
			return nil
		})
	}
	sessions := wizard.NewRegistry(wizard.RegistryConfig{Submitter: submitter})
	t.Cleanup(sessions.CloseAll)

	hb := handlers.NewHandlerBundle(handlers.Deps{
		Sessions:      sessions,
		QuoteRepo:     ts.repo,
		Queue:         ts.queue,
		FollowUpDelay: time.Hour,
	})
	ts.router = gin.New()
	ts.router.Use(utils.ErrorHandler())
	routes.RegisterRoutes(ts.router, hb, adminToken)
	return ts
}

func (ts *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (ts *testServer) createSession(t *testing.T) string {
	t.Helper()
	w := ts.do(http.MethodPost, "/api/wizard/sessions", nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := decode(t, w)["sessionId"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestWizardFlow_EndToEnd(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.createSession(t)
	base := "/api/wizard/sessions/" + id

	w := ts.do(http.MethodPatch, base+"/steps/1", `{"projectType":"website","industry":"technology"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1500.0, decode(t, w)["estimatedPrice"])

	w = ts.do(http.MethodPatch, base+"/steps/2", `{"add":["blog"]}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1700.0, decode(t, w)["estimatedPrice"])

	for step := 2; step <= 7; step++ {
		w = ts.do(http.MethodPost, base+"/next", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, float64(step), decode(t, w)["currentStep"])
	}

	w = ts.do(http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fields, _ := decode(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "contactInfo.email")

	w = ts.do(http.MethodPatch, base+"/steps/7", `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","phone":"+1 555 123 4567"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	quote := body["quote"].(map[string]any)
	quoteID := quote["id"].(string)
	assert.Equal(t, "submitted", quote["status"])
	view := body["view"].(map[string]any)
	assert.Equal(t, "submitted", view["phase"])
	assert.Equal(t, 1.0, view["currentStep"])

	// The intake backend stored it and scheduled a follow-up.
	rec, err := ts.repo.GetByID(context.Background(), quoteID)
	require.NoError(t, err)
	assert.Equal(t, 1700.0, rec.EstimatedPrice)
	assert.Equal(t, "USD", rec.Currency)
	assert.Equal(t, 1, ts.queue.len())

	w = ts.do(http.MethodGet, base+"/quotes", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["quotes"], 1)

	w = ts.do(http.MethodGet, base+"/quotes/"+quoteID+"/pdf", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = ts.do(http.MethodGet, base+"/quotes/nope/pdf", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodPost, base+"/new", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "editing", decode(t, w)["phase"])

	w = ts.do(http.MethodDelete, base, nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(http.MethodGet, base, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWizard_ErrorMapping(t *testing.T) {
	ts := newTestServer(t, nil)
	id := ts.createSession(t)
	base := "/api/wizard/sessions/" + id

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"validation on enforced step", http.MethodPost, base + "/next", nil, http.StatusUnprocessableEntity},
		{"field of another step", http.MethodPatch, base + "/steps/2", `{"industry":"finance"}`, http.StatusBadRequest},
		{"wrong value type", http.MethodPatch, base + "/steps/6", `{"range":"lots"}`, http.StatusBadRequest},
		{"unknown step", http.MethodPatch, base + "/steps/9", `{}`, http.StatusBadRequest},
		{"non-numeric step", http.MethodPatch, base + "/steps/abc", `{}`, http.StatusBadRequest},
		{"jump ahead", http.MethodPost, base + "/jump/4", nil, http.StatusConflict},
		{"submit from first step", http.MethodPost, base + "/submit", nil, http.StatusConflict},
		{"unknown session", http.MethodGet, "/api/wizard/sessions/missing", nil, http.StatusNotFound},
		{"end unknown session", http.MethodDelete, "/api/wizard/sessions/missing", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["message"])
		})
	}

	// None of the rejected calls moved the wizard.
	w := ts.do(http.MethodGet, base, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, decode(t, w)["currentStep"])
}

func TestWizard_SubmissionFailure(t *testing.T) {
	ts := newTestServer(t, wizard.SubmitterFunc(func(context.Context, models.QuoteSubmission) error {
		return errors.New("connection refused")
	}))
	id := ts.createSession(t)
	base := "/api/wizard/sessions/" + id

	require.Equal(t, http.StatusOK, ts.do(http.MethodPatch, base+"/steps/1", `{"projectType":"ecommerce","industry":"retail"}`, "").Code)
	for i := 0; i < 6; i++ {
		require.Equal(t, http.StatusOK, ts.do(http.MethodPost, base+"/next", nil, "").Code)
	}
	require.Equal(t, http.StatusOK, ts.do(http.MethodPatch, base+"/steps/7", `{"firstName":"Ada","lastName":"L","email":"ada@example.com","phone":"+44 20 7946 0958"}`, "").Code)

	w := ts.do(http.MethodPost, base+"/submit", nil, "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, decode(t, w)["details"], "connection refused")

	w = ts.do(http.MethodGet, base, nil, "")
	view := decode(t, w)
	assert.Equal(t, "editing", view["phase"])
	assert.Equal(t, 7.0, view["currentStep"])
	assert.InDelta(t, 5500.0, view["estimatedPrice"], 1e-9)
}

func TestIntake_IdempotentAndValidated(t *testing.T) {
	ts := newTestServer(t, nil)
	sub := models.QuoteSubmission{
		QuoteID: "q-42",
		Draft: models.QuoteDraft{
			ProjectType: "website",
			ContactInfo: &models.ContactInfo{FirstName: "Ada", LastName: "L", Email: "ada@example.com", Phone: "+1 555 123 4567"},
		},
		EstimatedPrice: 99,
		Currency:       "USD",
	}

	w := ts.do(http.MethodPost, "/api/quotes/intake", sub, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 1500.0, decode(t, w)["estimatedPrice"], "the catalog price wins")

	w = ts.do(http.MethodPost, "/api/quotes/intake", sub, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, ts.queue.len())

	w = ts.do(http.MethodPost, "/api/quotes/intake", `{"draft":{}}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPost, "/api/quotes/intake", models.QuoteSubmission{QuoteID: "no-contact"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	ts := newTestServer(t, nil)
	_, err := ts.repo.Upsert(context.Background(), models.QuoteRecord{QuoteID: "q-1", EstimatedPrice: 1500, Currency: "USD"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, ts.do(http.MethodGet, "/api/admin/quotes", nil, "").Code)

	w := ts.do(http.MethodGet, "/api/admin/quotes", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["quotes"], 1)

	assert.Equal(t, http.StatusBadRequest, ts.do(http.MethodGet, "/api/admin/quotes?limit=-1", nil, adminToken).Code)

	w = ts.do(http.MethodGet, "/api/admin/quotes/export", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestCatalogAndHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodGet, "/api/catalog", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	pricing := body["pricing"].(map[string]any)
	assert.NotEmpty(t, pricing["projectTypes"])
	assert.Len(t, body["steps"], 7)

	w = ts.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}
