package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"github.com/ingredient-parser/backend/internal/domain"
	"github.com/ingredient-parser/backend/internal/logger"
)

// IngredientParser is the pipeline behind the parse endpoint
type IngredientParser interface {
	ParseIngredients(ctx context.Context, descriptions []string, language string) ([]*domain.Ingredient, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	parser IngredientParser
	log    *logger.Logger
}

// NewHandler creates a new HTTP handler. A nil parser makes the parse endpoints answer 503.
func NewHandler(parser IngredientParser, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{parser: parser, log: log}
}

// parseRequest is the JSON form of a parse request
type parseRequest struct {
	Descriptions []string `json:"descriptions"`
	LanguageCode string   `json:"language_code"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ingredient-parser",
		"version": "1.0.0",
	})
}

// ParseIngredients parses a batch of ingredient descriptions.
// Accepts form fields descriptions[] and language_code, or the same fields as JSON.
func (h *Handler) ParseIngredients(c *gin.Context) {
	if h.parser == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "ingredient parser not configured"})
		return
	}

	req, err := bindParseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	descriptions := make([]string, len(req.Descriptions))
	for i, d := range req.Descriptions {
		descriptions[i] = strings.ToLower(strings.TrimSpace(d))
	}

	language := strings.TrimSpace(req.LanguageCode)
	if language == "" {
		language = domain.DefaultLanguage
	}

	ingredients, err := h.parser.ParseIngredients(c.Request.Context(), descriptions, language)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ingredients)
}

func bindParseRequest(c *gin.Context) (parseRequest, error) {
	var req parseRequest
	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		err := c.ShouldBindJSON(&req)
		return req, err
	}

	req.Descriptions = c.PostFormArray("descriptions[]")
	req.LanguageCode = c.PostForm("language_code")
	return req, nil
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var descErr *domain.DescriptionError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one description is required"})
	case errors.As(err, &descErr):
		h.log.Warn("description could not be parsed",
			"description", descErr.Description, "error", descErr.Err, "request_id", requestid.Get(c))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       "description could not be parsed",
			"description": descErr.Description,
		})
	default:
		h.log.Error("parse request failed", "error", err, "request_id", requestid.Get(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
