package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quoteforge/services/pricing"
	"quoteforge/services/steps"
)

// CatalogHandler serves the pricing tables, the non-priced option lists and
// the step descriptors a client needs to render the wizard.
func CatalogHandler(catalog *pricing.Catalog) gin.HandlerFunc {
	registry := steps.NewRegistry(catalog)
	listing := catalog.Listing()
	options := steps.StaticOptions()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pricing": listing,
			"options": options,
			"steps":   registry.Steps(),
		})
	}
}
