package routes

import (
	"github.com/gin-gonic/gin"

	"quoteforge/handlers"
)

// RegisterWizardRoutes registers the quote wizard session endpoints.
func RegisterWizardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	wizard := r.Group("/api/wizard/sessions")
	{
		wizard.POST("", hb.CreateSession)
		wizard.GET("/:sessionID", hb.GetSession)
		wizard.DELETE("/:sessionID", hb.EndSession)

		wizard.PATCH("/:sessionID/steps/:step", hb.PatchStep)
		wizard.POST("/:sessionID/next", hb.NextStep)
		wizard.POST("/:sessionID/previous", hb.PreviousStep)
		wizard.POST("/:sessionID/jump/:step", hb.JumpToStep)

		wizard.POST("/:sessionID/save", hb.SaveDraft)
		wizard.POST("/:sessionID/submit", hb.SubmitQuote)
		wizard.POST("/:sessionID/new", hb.StartNewQuote)

		wizard.GET("/:sessionID/quotes", hb.ListSessionQuotes)
		wizard.GET("/:sessionID/quotes/:quoteID/pdf", hb.SessionQuotePDF)
	}
}
