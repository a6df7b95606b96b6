package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quoteforge/services/draft"
	"quoteforge/services/steps"
	"quoteforge/services/wizard"
	"quoteforge/utils"
)

// respondError maps wizard and store errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	logger := getLogger(c)

	if ve, ok := steps.AsValidationError(err); ok {
		utils.JSONFieldErrors(c, http.StatusUnprocessableEntity, "Please complete the required fields", ve.Fields)
		return
	}

	var subErr *wizard.SubmissionError
	switch {
	case errors.As(err, &subErr):
		utils.JSONError(c, http.StatusBadGateway, "Quote submission failed", subErr.Err.Error())
	case errors.Is(err, steps.ErrFieldNotOwned):
		logger.Error("Patch wrote fields outside its step", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid patch", err.Error())
	case errors.Is(err, steps.ErrInvalidPatch), errors.Is(err, steps.ErrUnknownStep):
		utils.JSONError(c, http.StatusBadRequest, "Invalid patch", err.Error())
	case errors.Is(err, wizard.ErrStepLocked),
		errors.Is(err, wizard.ErrNotOnFinalStep),
		errors.Is(err, wizard.ErrSubmitInProgress),
		errors.Is(err, draft.ErrNotHydrated):
		utils.JSONError(c, http.StatusConflict, "Action not allowed right now", err.Error())
	case errors.Is(err, wizard.ErrUnknownSession):
		utils.JSONError(c, http.StatusNotFound, "Wizard session not found", err.Error())
	case errors.Is(err, draft.ErrUnknownQuote):
		logger.Error("Unknown quote id", zap.Error(err))
		utils.JSONError(c, http.StatusNotFound, "Quote not found", err.Error())
	default:
		logger.Error("Unexpected wizard error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
