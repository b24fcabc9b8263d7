package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-keeper/internal/app"
)

// ExportFilename is the attachment name of GET /api/v1/quotes/export.
const ExportFilename = "quotes.json"

// importFormField is the multipart field carrying an import file.
const importFormField = "file"

// QuoteHandler handles quote-related HTTP endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		service: service,
	}
}

// ListQuotes handles GET /api/v1/quotes?cursor=&limit=
// Returns the stored quotes in store order, one page at a time.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req dto.PaginationRequest

	err := dto.BindQueryAndValidate(c, &req)
	if err != nil {
		respondBindError(c, err)
		return
	}

	offset, err := req.Offset()
	if err != nil {
		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	quotes, total := h.service.ListQuotes(offset, req.GetLimit())

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(dto.NewQuoteResponses(quotes), offset, total))
}

// AddQuote handles POST /api/v1/quotes
// Stores a new quote. Both fields are trimmed and must not be empty.
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req dto.AddQuoteRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := h.service.AddQuote(c.Request.Context(), req.Text, req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// GetRandomQuote handles GET /api/v1/quotes/random?category=
// Picks a quote from the category, or from the last selected one when the
// parameter is absent, and records it as the last viewed quote.
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	var req dto.RandomQuoteRequest

	err := dto.BindQueryAndValidate(c, &req)
	if err != nil {
		respondBindError(c, err)
		return
	}

	quote, err := h.service.ShowRandomQuote(c.Request.Context(), req.Category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// GetLastViewed handles GET /api/v1/quotes/last-viewed
func (h *QuoteHandler) GetLastViewed(c *gin.Context) {
	quote, err := h.service.LastViewed(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote))
}

// ExportQuotes handles GET /api/v1/quotes/export
// Serves the whole store as a quotes.json attachment.
func (h *QuoteHandler) ExportQuotes(c *gin.Context) {
	raw, err := h.service.Export(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	c.Data(http.StatusOK, "application/json", raw)
}

// ImportQuotes handles POST /api/v1/quotes/import
// Accepts the JSON array either as the raw body or as the multipart field
// "file", and appends every element to the store.
func (h *QuoteHandler) ImportQuotes(c *gin.Context) {
	body, err := importSource(c)
	if err != nil {
		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}
	defer body.Close()

	n, err := h.service.Import(c.Request.Context(), body)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ImportResponse{Imported: n, Message: app.QuotesImportedMessage})
}

func importSource(c *gin.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return c.Request.Body, nil
	}

	header, err := c.FormFile(importFormField)
	if err != nil {
		return nil, err
	}

	return header.Open()
}

// ListCategories handles GET /api/v1/categories
// Returns the distinct categories in first-appearance order and the
// persisted filter.
func (h *QuoteHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CategoriesResponse{
		Categories: h.service.Categories(),
		Selected:   h.service.SelectedCategory(c.Request.Context()),
	})
}

// RegisterQuoteRoutes registers quote and category routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.AddQuote)
	quotes.GET("/random", h.GetRandomQuote)
	quotes.GET("/last-viewed", h.GetLastViewed)
	quotes.GET("/export", h.ExportQuotes)
	quotes.POST("/import", h.ImportQuotes)

	rg.GET("/categories", h.ListCategories)
}

// respondBindError answers a request that failed binding or validation.
func respondBindError(c *gin.Context, err error) {
	if dto.IsValidationError(err) {
		dto.HandleValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
}
