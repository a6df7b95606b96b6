package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/currency"

	quotesRepo "quoteforge/database/repository/quotes"
	"quoteforge/services/pricing"
	"quoteforge/services/tasks"
	"quoteforge/services/wizard"
)

// Deps are the services the HTTP layer is built from.
type Deps struct {
	Sessions      *wizard.Registry
	Catalog       *pricing.Catalog
	Currency      currency.Unit
	QuoteRepo     quotesRepo.QuoteRepository
	Queue         tasks.Enqueuer
	FollowUpDelay time.Duration
}

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	GetCatalog gin.HandlerFunc
	Health     gin.HandlerFunc

	// Wizard endpoints
	CreateSession     gin.HandlerFunc
	GetSession        gin.HandlerFunc
	PatchStep         gin.HandlerFunc
	NextStep          gin.HandlerFunc
	PreviousStep      gin.HandlerFunc
	JumpToStep        gin.HandlerFunc
	SaveDraft         gin.HandlerFunc
	SubmitQuote       gin.HandlerFunc
	StartNewQuote     gin.HandlerFunc
	ListSessionQuotes gin.HandlerFunc
	SessionQuotePDF   gin.HandlerFunc
	EndSession        gin.HandlerFunc

	// Intake endpoint (reference submission backend)
	ReceiveQuote gin.HandlerFunc

	AdminHandler *AdminHandler
}

func NewHandlerBundle(d Deps) *HandlerBundle {
	if d.Catalog == nil {
		d.Catalog = pricing.Default()
	}
	if d.Currency == (currency.Unit{}) {
		d.Currency = pricing.DefaultCurrency
	}
	wh := NewWizardHandler(d.Sessions, d.Catalog, d.Currency)
	ih := NewIntakeHandler(d.QuoteRepo, d.Queue, d.Catalog, d.FollowUpDelay)

	return &HandlerBundle{
		GetCatalog: CatalogHandler(d.Catalog),
		Health:     HealthHandler,

		CreateSession:     wh.CreateSession,
		GetSession:        wh.GetSession,
		PatchStep:         wh.PatchStep,
		NextStep:          wh.NextStep,
		PreviousStep:      wh.PreviousStep,
		JumpToStep:        wh.JumpToStep,
		SaveDraft:         wh.SaveDraft,
		SubmitQuote:       wh.SubmitQuote,
		StartNewQuote:     wh.StartNewQuote,
		ListSessionQuotes: wh.ListQuotes,
		SessionQuotePDF:   wh.QuotePDF,
		EndSession:        wh.EndSession,

		ReceiveQuote: ih.ReceiveQuote,

		AdminHandler: NewAdminHandler(d.QuoteRepo, d.Catalog),
	}
}
