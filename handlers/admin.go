package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	quotesRepo "quoteforge/database/repository/quotes"
	"quoteforge/services/export"
	"quoteforge/services/pricing"
	"quoteforge/utils"
)

const defaultAdminListLimit = 100

// AdminHandler exposes the received quotes to the agency.
type AdminHandler struct {
	Repo    quotesRepo.QuoteRepository
	Catalog *pricing.Catalog
}

func NewAdminHandler(repo quotesRepo.QuoteRepository, catalog *pricing.Catalog) *AdminHandler {
	return &AdminHandler{
		Repo:    repo,
		Catalog: catalog,
	}
}

// GetAllQuotesHandler lists received quotes, newest first. ?limit caps the result.
func (ah *AdminHandler) GetAllQuotesHandler(c *gin.Context) {
	limit := int64(defaultAdminListLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			utils.JSONError(c, http.StatusBadRequest, "Invalid limit", raw)
			return
		}
		limit = n
	}
	records, err := ah.Repo.List(c.Request.Context(), limit)
	if err != nil {
		zap.L().Error("Failed to fetch quotes", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch quotes", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"quotes": records})
}

// ExportQuotesHandler downloads every received quote as an xlsx workbook.
func (ah *AdminHandler) ExportQuotesHandler(c *gin.Context) {
	records, err := ah.Repo.List(c.Request.Context(), 0)
	if err != nil {
		zap.L().Error("Failed to fetch quotes for export", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch quotes", "")
		return
	}
	var buf bytes.Buffer
	if err := export.QuotesWorkbook(&buf, records, ah.Catalog); err != nil {
		zap.L().Error("Failed to build quotes workbook", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to export quotes", "")
		return
	}
	name := fmt.Sprintf("quotes-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+name)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
