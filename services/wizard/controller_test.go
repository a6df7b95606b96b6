package wizard

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quoteforge/models"
	"quoteforge/services/draft"
	"quoteforge/services/steps"
)

func ptr[T any](v T) *T { return &v }

// recordingSubmitter captures submissions and answers with err.
type recordingSubmitter struct {
	mu   sync.Mutex
	subs []models.QuoteSubmission
	err  error
}

func (r *recordingSubmitter) Submit(ctx context.Context, sub models.QuoteSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, sub)
	return r.err
}

func (r *recordingSubmitter) calls() []models.QuoteSubmission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.QuoteSubmission(nil), r.subs...)
}

func newHydratedController(t *testing.T, sub Submitter, opts ...ControllerOption) *Controller {
	t.Helper()
	store := draft.New(draft.NewMemoryStorage(nil))
	require.True(t, store.Hydrate(context.Background()))
	return NewController(store, steps.NewRegistry(nil), sub, opts...)
}

func fillProjectType(t *testing.T, c *Controller) {
	t.Helper()
	_, err := c.Update(models.StepProjectType, &steps.ProjectTypePatch{
		ProjectType: ptr(models.ProjectType("website")),
		Industry:    ptr(models.Industry("technology")),
	})
	require.NoError(t, err)
}

func fillContact(t *testing.T, c *Controller) {
	t.Helper()
	_, err := c.Update(models.StepContact, &steps.ContactPatch{
		FirstName: ptr("Ada"),
		LastName:  ptr("Lovelace"),
		Email:     ptr("ada@example.com"),
		Phone:     ptr("+1 555 123 4567"),
	})
	require.NoError(t, err)
}

func walkToFinalStep(t *testing.T, c *Controller) {
	t.Helper()
	for c.Store().CurrentStep() < models.LastStep {
		_, err := c.Next()
		require.NoError(t, err)
	}
}

func TestController_NextBlocksOnEnforcedStep(t *testing.T) {
	c := newHydratedController(t, &recordingSubmitter{})

	step, err := c.Next()
	ve, ok := steps.AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Equal(t, models.StepProjectType, ve.Step)
	assert.Equal(t, []string{"industry", "projectType"}, ve.Fields.Keys())
	assert.Equal(t, models.StepProjectType, step)
	assert.Equal(t, models.StepProjectType, c.Store().CurrentStep())

	fillProjectType(t, c)
	step, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, models.StepFeatures, step)
}

func TestController_OptionalStepsNeverBlock(t *testing.T) {
	c := newHydratedController(t, &recordingSubmitter{})
	fillProjectType(t, c)

	// An inverted budget range is reported as advice, not enforced.
	_, err := c.Update(models.StepBudget, &steps.BudgetPatch{Range: &models.BudgetRange{5000, 1000}})
	require.NoError(t, err)

	walkToFinalStep(t, c)
	assert.Equal(t, models.LastStep, c.Store().CurrentStep())

	v := c.View()
	require.Contains(t, v.Advisories, models.StepBudget)
	assert.Contains(t, v.Advisories[models.StepBudget], "budget.range.max")
}

func TestController_NextAtLastStepStays(t *testing.T) {
	c := newHydratedController(t, &recordingSubmitter{})
	fillProjectType(t, c)
	walkToFinalStep(t, c)
	fillContact(t, c)

	step, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, models.LastStep, step)
}

func TestController_PreviousClampsAtFirstStep(t *testing.T) {
	c := newHydratedController(t, &recordingSubmitter{})
	step, err := c.Previous()
	require.NoError(t, err)
	assert.Equal(t, models.FirstStep, step)
}

func TestController_JumpToOnlyReachedSteps(t *testing.T) {
	c := newHydratedController(t, &recordingSubmitter{})
	fillProjectType(t, c)
	for i := 0; i < 3; i++ {
		_, err := c.Next()
		require.NoError(t, err)
	}
	require.Equal(t, models.StepIntegrations, c.Store().CurrentStep())

	step, err := c.JumpTo(6)
	assert.ErrorIs(t, err, ErrStepLocked)
	assert.Equal(t, models.StepIntegrations, step)
	assert.Equal(t, models.StepIntegrations, c.Store().CurrentStep())

	_, err = c.JumpTo(0)
	assert.ErrorIs(t, err, ErrStepLocked)

	step, err = c.JumpTo(2)
	require.NoError(t, err)
	assert.Equal(t, models.StepFeatures, step)

	step, err = c.JumpTo(2)
	require.NoError(t, err)
	assert.Equal(t, models.StepFeatures, step)
}

func TestController_StepBoundsUnderRandomNavigation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 20; run++ {
		c := newHydratedController(t, &recordingSubmitter{})
		if run%2 == 0 {
			fillProjectType(t, c)
		}
		for op := 0; op < 200; op++ {
			before := c.Store().CurrentStep()
			switch rng.Intn(3) {
			case 0:
				_, _ = c.Next()
			case 1:
				_, _ = c.Previous()
			default:
				_, _ = c.JumpTo(rng.Intn(11) - 2)
			}
			after := c.Store().CurrentStep()
			require.True(t, after.Valid(), "step %d out of range", after)
			require.LessOrEqual(t, int(after), int(before)+1, "skipped ahead from %d to %d", before, after)
			if run%2 == 1 {
				require.Equal(t, models.FirstStep, after, "step 1 is enforced and empty")
			}
		}
	}
}

func TestController_SubmitRequiresFinalStep(t *testing.T) {
	sub := &recordingSubmitter{}
	c := newHydratedController(t, sub)
	fillProjectType(t, c)

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOnFinalStep)
	assert.Empty(t, sub.calls())
}

func TestController_SubmitValidatesContact(t *testing.T) {
	sub := &recordingSubmitter{}
	c := newHydratedController(t, sub)
	fillProjectType(t, c)
	walkToFinalStep(t, c)

	_, err := c.Submit(context.Background())
	ve, ok := steps.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, models.StepContact, ve.Step)
	assert.Contains(t, ve.Fields, "contactInfo.email")
	assert.Equal(t, models.WizardEditing, c.Phase())
	assert.Empty(t, sub.calls())
}

func TestController_SubmitFailureKeepsDraft(t *testing.T) {
	sub := &recordingSubmitter{err: errors.New("backend down")}
	c := newHydratedController(t, sub)
	fillProjectType(t, c)
	walkToFinalStep(t, c)
	fillContact(t, c)
	before, _ := c.Store().Draft()
	price := c.Store().EstimatedPrice()

	_, err := c.Submit(context.Background())
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.NotEmpty(t, subErr.QuoteID)
	assert.Contains(t, err.Error(), "backend down")

	after, _ := c.Store().Draft()
	assert.Equal(t, before, after)
	assert.Equal(t, price, c.Store().EstimatedPrice())
	assert.Equal(t, models.WizardEditing, c.Phase())
	assert.Equal(t, models.LastStep, c.Store().CurrentStep())

	rec, ok := c.Store().Quote(subErr.QuoteID)
	require.True(t, ok)
	assert.False(t, rec.IsSubmitted())

	// The user retries once the backend is back.
	sub.mu.Lock()
	sub.err = nil
	sub.mu.Unlock()
	rec, err = c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, subErr.QuoteID, rec.ID)
}

func TestController_SubmitSuccess(t *testing.T) {
	sub := &recordingSubmitter{}
	var delivered []models.PricedQuote
	c := newHydratedController(t, sub, OnSubmitted(func(q models.PricedQuote) {
		delivered = append(delivered, q)
	}))
	fillProjectType(t, c)
	walkToFinalStep(t, c)
	fillContact(t, c)

	rec, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.QuoteStatusSubmitted, rec.Status)
	require.NotNil(t, rec.SubmittedAt)
	assert.Equal(t, 1500.0, rec.EstimatedPrice)
	assert.Equal(t, models.WizardSubmitted, c.Phase())
	require.Len(t, delivered, 1)
	assert.Equal(t, rec.ID, delivered[0].ID)

	calls := sub.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, rec.ID, calls[0].QuoteID)
	assert.Equal(t, "USD", calls[0].Currency)
	assert.Equal(t, 1500.0, calls[0].EstimatedPrice)
	assert.Equal(t, "ada@example.com", calls[0].Draft.ContactInfo.Email)

	// The store started over.
	assert.Equal(t, models.FirstStep, c.Store().CurrentStep())
	d, _ := c.Store().Draft()
	assert.True(t, d.IsEmpty())

	// Submitting again is a no-op returning the same record.
	again, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rec, again)
	assert.Len(t, sub.calls(), 1)

	v := c.View()
	require.NotNil(t, v.LastSubmitted)
	assert.Equal(t, rec.ID, v.LastSubmitted.ID)

	require.NoError(t, c.StartNew())
	assert.Equal(t, models.WizardEditing, c.Phase())
	_, ok := c.LastSubmitted()
	assert.False(t, ok)
}

func TestController_SubmitInProgress(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	sub := SubmitterFunc(func(ctx context.Context, _ models.QuoteSubmission) error {
		close(entered)
		<-release
		return nil
	})
	c := newHydratedController(t, sub)
	fillProjectType(t, c)
	walkToFinalStep(t, c)
	fillContact(t, c)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		done <- err
	}()
	<-entered

	assert.Equal(t, models.WizardSubmitting, c.Phase())
	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	_, err = c.Update(models.StepContact, &steps.ContactPatch{FirstName: ptr("Grace")})
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	_, err = c.Previous()
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.ErrorIs(t, c.StartNew(), ErrSubmitInProgress)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("submit did not finish")
	}
	assert.Equal(t, models.WizardSubmitted, c.Phase())
}

func TestController_EditingAfterSubmitStartsNewQuote(t *testing.T) {
	c := newHydratedController(t, &recordingSubmitter{})
	fillProjectType(t, c)
	walkToFinalStep(t, c)
	fillContact(t, c)
	first, err := c.Submit(context.Background())
	require.NoError(t, err)

	fillProjectType(t, c)
	assert.Equal(t, models.WizardEditing, c.Phase())
	id, err := c.SaveDraft()
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, id)
}

func TestController_BeforeHydration(t *testing.T) {
	store := draft.New(draft.NewMemoryStorage([]byte(`{"currentStep": 4, "currentQuote": {"draft": {"projectType": "ecommerce"}}}`)))
	c := NewController(store, nil, &recordingSubmitter{})

	_, err := c.Next()
	assert.ErrorIs(t, err, draft.ErrNotHydrated)
	_, err = c.SaveDraft()
	assert.ErrorIs(t, err, draft.ErrNotHydrated)
	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, draft.ErrNotHydrated)

	v := c.View()
	assert.False(t, v.Hydrated)
	assert.Nil(t, v.Draft)
	assert.Nil(t, v.Advisories)
	assert.Equal(t, models.FirstStep, v.CurrentStep)
	assert.Equal(t, 0.0, v.EstimatedPrice)

	store.Hydrate(context.Background())
	v = c.View()
	assert.True(t, v.Hydrated)
	assert.Equal(t, models.StepIntegrations, v.CurrentStep)
	assert.Equal(t, 5000.0, v.EstimatedPrice)
}

func TestController_CorruptStoredDraftStartsAtFirstStep(t *testing.T) {
	store := draft.New(draft.NewMemoryStorage([]byte(`{"currentStep": 4, "currentQuote": `)))
	require.True(t, store.Hydrate(context.Background()))
	c := NewController(store, steps.NewRegistry(nil), &recordingSubmitter{})

	assert.Equal(t, models.FirstStep, c.View().CurrentStep)

	step, err := c.JumpTo(1)
	require.NoError(t, err)
	assert.Equal(t, models.FirstStep, step)

	_, err = c.Next()
	_, isValidation := steps.AsValidationError(err)
	assert.True(t, isValidation, "an empty first step blocks with field errors, got %v", err)

	fillProjectType(t, c)
	step, err = c.Next()
	require.NoError(t, err)
	assert.Equal(t, models.StepFeatures, step)
}

func TestController_View(t *testing.T) {
	c := newHydratedController(t, &recordingSubmitter{})
	fillProjectType(t, c)
	_, err := c.Next()
	require.NoError(t, err)

	v := c.View()
	assert.Equal(t, models.WizardEditing, v.Phase)
	assert.Equal(t, "USD", v.Currency)
	assert.Contains(t, v.FormattedPrice, "USD")
	assert.Contains(t, v.FormattedPrice, ".00")
	require.Len(t, v.Steps, 7)
	assert.True(t, v.Steps[0].Reachable)
	assert.True(t, v.Steps[1].Current)
	assert.True(t, v.Steps[1].Reachable)
	assert.False(t, v.Steps[2].Reachable)
	assert.Equal(t, "features", v.Steps[1].Key)
	require.NotNil(t, v.Breakdown)
	assert.Equal(t, 1500.0, v.Breakdown.Base)
}
