// Package wizard drives a quote draft through the seven steps: it gates
// navigation on step validation, autosaves, and submits finished quotes.
package wizard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"quoteforge/models"
	"quoteforge/services/draft"
	"quoteforge/services/pricing"
	"quoteforge/services/steps"
)

// Controller is the wizard state machine for one session. The draft itself
// lives in the injected store; the controller owns only the submit phase.
type Controller struct {
	mu        sync.Mutex
	store     *draft.Store
	steps     *steps.Registry
	submitter Submitter
	logger    *zap.Logger
	currency  currency.Unit
	lang      language.Tag
	now       func() time.Time

	phase         models.WizardPhase
	lastSubmitted *models.PricedQuote
	onSubmitted   func(models.PricedQuote)
}

type ControllerOption func(*Controller)

func WithControllerLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

func WithCurrency(unit currency.Unit, lang language.Tag) ControllerOption {
	return func(c *Controller) {
		c.currency = unit
		c.lang = lang
	}
}

func WithControllerClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// OnSubmitted registers a callback that receives every successfully
// submitted quote. It runs outside the controller lock.
func OnSubmitted(fn func(models.PricedQuote)) ControllerOption {
	return func(c *Controller) { c.onSubmitted = fn }
}

func NewController(store *draft.Store, registry *steps.Registry, submitter Submitter, opts ...ControllerOption) *Controller {
	if registry == nil {
		registry = steps.NewRegistry(nil)
	}
	c := &Controller{
		store:     store,
		steps:     registry,
		submitter: submitter,
		logger:    zap.NewNop(),
		currency:  pricing.DefaultCurrency,
		lang:      language.AmericanEnglish,
		now:       time.Now,
		phase:     models.WizardEditing,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Store() *draft.Store { return c.store }

func (c *Controller) Phase() models.WizardPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Next validates the current step when it is enforced and advances by one.
// On a validation failure the step stays put and the *steps.ValidationError
// carries the per-field messages.
func (c *Controller) Next() (models.StepID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return c.store.CurrentStep(), err
	}

	cur := c.store.CurrentStep()
	d, _ := c.store.Draft()
	if err := c.steps.Gate(cur, d); err != nil {
		c.logger.Debug("Step blocked by validation", zap.Int("step", int(cur)), zap.Error(err))
		return cur, err
	}
	return c.store.SetCurrentStep(int(cur) + 1)
}

func (c *Controller) Previous() (models.StepID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return c.store.CurrentStep(), err
	}
	return c.store.SetCurrentStep(int(c.store.CurrentStep()) - 1)
}

// JumpTo moves back to an already reached step. Steps ahead of the current
// one are locked.
func (c *Controller) JumpTo(n int) (models.StepID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return c.store.CurrentStep(), err
	}
	cur := c.store.CurrentStep()
	if n < int(models.FirstStep) || n > int(cur) {
		return cur, ErrStepLocked
	}
	return c.store.SetCurrentStep(n)
}

// Update merges a step patch into the draft and returns the new estimate.
func (c *Controller) Update(step models.StepID, patch steps.Patch) (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return c.store.EstimatedPrice(), err
	}
	return c.store.UpdateQuoteData(step, patch)
}

func (c *Controller) SaveDraft() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return "", err
	}
	return c.store.SaveQuote()
}

// Submit validates the contact step, saves the draft and sends it to the
// submitter. The controller lock is not held across the network call;
// concurrent edits and submits are refused with ErrSubmitInProgress until
// it returns. Submitting again after success returns the submitted record.
func (c *Controller) Submit(ctx context.Context) (models.PricedQuote, error) {
	c.mu.Lock()
	switch c.phase {
	case models.WizardSubmitting:
		c.mu.Unlock()
		return models.PricedQuote{}, ErrSubmitInProgress
	case models.WizardSubmitted:
		rec := *c.lastSubmitted
		c.mu.Unlock()
		return rec, nil
	}
	if !c.store.Hydrated() {
		c.mu.Unlock()
		return models.PricedQuote{}, draft.ErrNotHydrated
	}
	if c.store.CurrentStep() != models.LastStep {
		c.mu.Unlock()
		return models.PricedQuote{}, ErrNotOnFinalStep
	}
	d, _ := c.store.Draft()
	if err := c.steps.Gate(models.LastStep, d); err != nil {
		c.mu.Unlock()
		return models.PricedQuote{}, err
	}
	id, err := c.store.SaveQuote()
	if err != nil {
		c.mu.Unlock()
		return models.PricedQuote{}, err
	}
	sub := models.QuoteSubmission{
		QuoteID:        id,
		Draft:          d,
		EstimatedPrice: pricing.RoundMinor(c.store.EstimatedPrice(), c.currency),
		Currency:       c.currency.String(),
		SubmittedAt:    c.now().UTC(),
	}
	c.phase = models.WizardSubmitting
	c.mu.Unlock()

	c.logger.Info("Submitting quote", zap.String("quoteID", id), zap.Float64("estimatedPrice", sub.EstimatedPrice))
	sendErr := c.submitter.Submit(ctx, sub)

	c.mu.Lock()
	if sendErr != nil {
		c.phase = models.WizardEditing
		c.mu.Unlock()
		c.logger.Warn("Quote submission failed", zap.String("quoteID", id), zap.Error(sendErr))
		return models.PricedQuote{}, &SubmissionError{QuoteID: id, Err: sendErr}
	}
	rec, err := c.store.SubmitQuote(id)
	if err != nil {
		c.phase = models.WizardEditing
		c.mu.Unlock()
		return models.PricedQuote{}, err
	}
	c.phase = models.WizardSubmitted
	c.lastSubmitted = &rec
	callback := c.onSubmitted
	c.mu.Unlock()

	c.logger.Info("Quote submitted", zap.String("quoteID", id))
	if callback != nil {
		callback(rec)
	}
	return rec, nil
}

// StartNew leaves the submitted screen and begins editing the fresh draft.
func (c *Controller) StartNew() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == models.WizardSubmitting {
		return ErrSubmitInProgress
	}
	c.phase = models.WizardEditing
	c.lastSubmitted = nil
	return nil
}

// LastSubmitted returns the quote shown on the submitted screen, if any.
func (c *Controller) LastSubmitted() (models.PricedQuote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastSubmitted == nil {
		return models.PricedQuote{}, false
	}
	return *c.lastSubmitted, true
}

// autosave saves the draft when there is something worth saving. It reports
// whether a save happened.
func (c *Controller) autosave() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != models.WizardEditing || !c.store.Hydrated() {
		return false, nil
	}
	if d, _ := c.store.Draft(); d.IsEmpty() {
		return false, nil
	}
	if _, err := c.store.SaveQuote(); err != nil {
		return false, err
	}
	return true, nil
}

// editableLocked reports whether the draft may change right now. Editing
// after a successful submit implicitly starts the next quote, since the
// store has already reset to an empty draft.
func (c *Controller) editableLocked() error {
	switch c.phase {
	case models.WizardSubmitting:
		return ErrSubmitInProgress
	case models.WizardSubmitted:
		c.phase = models.WizardEditing
		c.lastSubmitted = nil
	}
	if !c.store.Hydrated() {
		return draft.ErrNotHydrated
	}
	return nil
}
