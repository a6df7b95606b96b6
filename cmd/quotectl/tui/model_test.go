package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteforge/models"
	"quoteforge/services/draft"
	"quoteforge/services/pricing"
	"quoteforge/services/wizard"
)

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func newTestModel(t *testing.T, sub wizard.Submitter) (Model, *draft.Store) {
	t.Helper()
	store := draft.New(draft.NewMemoryStorage(nil))
	ctrl := wizard.NewController(store, nil, sub)
	m := New(context.Background(), ctrl, pricing.Default())
	return m, store
}

func TestModel_PlaceholderUntilHydrated(t *testing.T) {
	m, store := newTestModel(t, nil)

	assert.Contains(t, m.View(), "Loading your draft")
	m = send(t, m, key(tea.KeyRight), key(tea.KeyTab))
	assert.False(t, store.Hydrated())

	m = send(t, m, hydratedMsg{ok: store.Hydrate(context.Background())})
	assert.NotContains(t, m.View(), "Loading your draft")
	assert.NotEmpty(t, m.fields)
}

func TestModel_HydrationStatus(t *testing.T) {
	ctx := context.Background()
	saved := []byte(`{"currentStep": 2, "currentQuote": {"draft": {"projectType": "mobile-app"}}}`)

	t.Run("storage unavailable", func(t *testing.T) {
		storage := draft.NewMemoryStorage(nil)
		storage.LoadErr = errors.New("disk gone")
		store := draft.New(storage)
		m := New(ctx, wizard.NewController(store, nil, nil), pricing.Default())

		m = send(t, m, hydratedMsg{ok: store.Hydrate(ctx)})
		assert.Contains(t, m.View(), "Continuing without saving drafts")
	})

	t.Run("hydrated elsewhere first", func(t *testing.T) {
		store := draft.New(draft.NewMemoryStorage(saved))
		require.True(t, store.Hydrate(ctx))
		m := New(ctx, wizard.NewController(store, nil, nil), pricing.Default())

		m = send(t, m, hydratedMsg{ok: store.Hydrate(ctx)})
		assert.NotContains(t, m.View(), "Continuing without saving drafts")
		assert.NotContains(t, m.View(), "Resumed")
		assert.Equal(t, models.StepFeatures, store.CurrentStep())
	})

	t.Run("resumed", func(t *testing.T) {
		store := draft.New(draft.NewMemoryStorage(saved))
		m := New(ctx, wizard.NewController(store, nil, nil), pricing.Default())

		m = send(t, m, hydratedMsg{ok: store.Hydrate(ctx)})
		assert.Contains(t, m.View(), "Resumed your saved draft")
	})
}

func TestModel_EditStepAndAdvance(t *testing.T) {
	m, store := newTestModel(t, nil)
	m = send(t, m, hydratedMsg{ok: store.Hydrate(context.Background())})

	// Pick a project type, then try to leave the step without an industry.
	m = send(t, m, key(tea.KeyRight), key(tea.KeyTab))
	assert.Equal(t, models.StepProjectType, store.CurrentStep())
	assert.Contains(t, m.fieldErrs, "industry")
	assert.Contains(t, m.View(), "highlighted fields")

	m = send(t, m, key(tea.KeyDown), key(tea.KeyRight), key(tea.KeyTab))
	require.Equal(t, models.StepFeatures, store.CurrentStep())
	assert.Empty(t, m.fieldErrs)

	d, ok := store.Draft()
	require.True(t, ok)
	assert.Equal(t, pricing.Default().ComputePrice(d), store.EstimatedPrice())
	assert.NotZero(t, store.EstimatedPrice())

	// Toggle the first feature on and off again.
	before := store.EstimatedPrice()
	m = send(t, m, key(tea.KeySpace))
	d, _ = store.Draft()
	assert.Len(t, d.SelectedFeatures, 1)
	assert.Greater(t, store.EstimatedPrice(), before)
	m = send(t, m, key(tea.KeySpace))
	assert.Equal(t, before, store.EstimatedPrice())

	// Steps ahead stay locked; going back works.
	m = send(t, m, runes("5"))
	assert.Equal(t, models.StepFeatures, store.CurrentStep())
	assert.Contains(t, m.errMsg, "not reachable")
	send(t, m, key(tea.KeyShiftTab))
	assert.Equal(t, models.StepProjectType, store.CurrentStep())
}

func TestModel_TextFieldAndSubmit(t *testing.T) {
	var submitted []models.QuoteSubmission
	sub := wizard.SubmitterFunc(func(_ context.Context, s models.QuoteSubmission) error {
		submitted = append(submitted, s)
		return nil
	})
	m, store := newTestModel(t, sub)
	m = send(t, m, hydratedMsg{ok: store.Hydrate(context.Background())})

	m = send(t, m, key(tea.KeyRight), key(tea.KeyDown), key(tea.KeyRight))
	for i := 0; i < 6; i++ {
		m = send(t, m, key(tea.KeyTab))
	}
	require.Equal(t, models.StepContact, store.CurrentStep())

	typeInto := func(m Model, value string) Model {
		m = send(t, m, key(tea.KeyEnter))
		require.True(t, m.editing)
		m.input.SetValue(value)
		m = send(t, m, key(tea.KeyEnter))
		require.False(t, m.editing)
		return send(t, m, key(tea.KeyDown))
	}
	m = typeInto(m, "Ada")
	m = typeInto(m, "Lovelace")
	m = typeInto(m, "ada@example.com")
	m = typeInto(m, "+1 555 123 4567")

	d, _ := store.Draft()
	require.NotNil(t, d.ContactInfo)
	assert.Equal(t, "ada@example.com", d.ContactInfo.Email)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	q, err := m.ctrl.Submit(context.Background())
	require.NoError(t, err)
	m = send(t, m, submitDoneMsg{quote: q})

	require.Len(t, submitted, 1)
	assert.Equal(t, models.WizardSubmitted, m.view.Phase)
	assert.Contains(t, m.View(), "Thank you")

	m = send(t, m, runes("n"))
	assert.Equal(t, models.WizardEditing, m.view.Phase)
	assert.Equal(t, models.StepProjectType, store.CurrentStep())
}

func TestParseAmount(t *testing.T) {
	n, err := parseAmount(" $12,500.50 ")
	require.NoError(t, err)
	assert.Equal(t, 12500.5, n)

	n, err = parseAmount("")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = parseAmount("-3")
	assert.Error(t, err)
	_, err = parseAmount("lots")
	assert.Error(t, err)
}
