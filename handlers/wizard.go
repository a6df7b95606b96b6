package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"quoteforge/models"
	"quoteforge/services/export"
	"quoteforge/services/pricing"
	"quoteforge/services/steps"
	"quoteforge/services/wizard"
	"quoteforge/utils"
)

// WizardHandler serves the quote wizard, one session per client.
type WizardHandler struct {
	Sessions *wizard.Registry
	Catalog  *pricing.Catalog
	Currency currency.Unit
}

func NewWizardHandler(sessions *wizard.Registry, catalog *pricing.Catalog, unit currency.Unit) *WizardHandler {
	return &WizardHandler{
		Sessions: sessions,
		Catalog:  catalog,
		Currency: unit,
	}
}

// session resolves :sessionID, writing the error response when it fails.
func (h *WizardHandler) session(c *gin.Context) (*wizard.Session, bool) {
	s, err := h.Sessions.Get(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return s, true
}

func stepParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("step"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid step", fmt.Sprintf("step must be a number, got %q", c.Param("step")))
		return 0, false
	}
	return n, true
}

// CreateSession starts a wizard session with an empty draft.
func (h *WizardHandler) CreateSession(c *gin.Context) {
	s, err := h.Sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Wizard session started", zap.String("sessionID", s.ID))
	c.JSON(http.StatusCreated, gin.H{
		"sessionId": s.ID,
		"view":      s.Controller.View(),
	})
}

// GetSession returns the current view, resuming the session if needed.
func (h *WizardHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Controller.View())
}

// PatchStep merges the fields of one step into the draft.
func (h *WizardHandler) PatchStep(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	n, ok := stepParam(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid patch", err.Error())
		return
	}
	patch, err := steps.DecodePatch(models.StepID(n), body)
	if err != nil {
		respondError(c, err)
		return
	}
	price, err := s.Controller.Update(models.StepID(n), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"estimatedPrice": price,
		"view":           s.Controller.View(),
	})
}

func (h *WizardHandler) NextStep(c *gin.Context) {
	h.navigate(c, func(ctrl *wizard.Controller) (models.StepID, error) { return ctrl.Next() })
}

func (h *WizardHandler) PreviousStep(c *gin.Context) {
	h.navigate(c, func(ctrl *wizard.Controller) (models.StepID, error) { return ctrl.Previous() })
}

func (h *WizardHandler) JumpToStep(c *gin.Context) {
	n, ok := stepParam(c)
	if !ok {
		return
	}
	h.navigate(c, func(ctrl *wizard.Controller) (models.StepID, error) { return ctrl.JumpTo(n) })
}

func (h *WizardHandler) navigate(c *gin.Context, move func(*wizard.Controller) (models.StepID, error)) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := move(s.Controller); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Controller.View())
}

// SaveDraft stores the draft as a saved quote without changing the step.
func (h *WizardHandler) SaveDraft(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	id, err := s.Controller.SaveDraft()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quoteId": id,
		"view":    s.Controller.View(),
	})
}

// SubmitQuote sends the finished quote to the submission backend.
func (h *WizardHandler) SubmitQuote(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	rec, err := s.Controller.Submit(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"quote": rec,
		"view":  s.Controller.View(),
	})
}

// StartNewQuote leaves the submitted screen.
func (h *WizardHandler) StartNewQuote(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Controller.StartNew(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Controller.View())
}

func (h *WizardHandler) ListQuotes(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": s.Controller.Store().SavedQuotes()})
}

// QuotePDF renders a saved quote of the session as a PDF summary.
func (h *WizardHandler) QuotePDF(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	quoteID := c.Param("quoteID")
	q, found := s.Controller.Store().Quote(quoteID)
	if !found {
		utils.JSONError(c, http.StatusNotFound, "Quote not found", quoteID)
		return
	}
	var buf bytes.Buffer
	if err := export.QuotePDF(&buf, q, h.Catalog, h.Currency); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=quote-%s.pdf", q.ID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// EndSession stops autosave and drops the in-memory session. The stored
// draft stays resumable.
func (h *WizardHandler) EndSession(c *gin.Context) {
	if err := h.Sessions.Close(c.Param("sessionID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
