package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengatrack/jengatrack/internal/apperrors"
	"github.com/jengatrack/jengatrack/internal/usecase"
)

// DashboardHandler serves the read-side JSON API.
type DashboardHandler struct {
	dashboard *usecase.DashboardService
}

// NewDashboardHandler wires the dashboard endpoints.
func NewDashboardHandler(dashboard *usecase.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Projects lists the projects behind a phone number.
func (h *DashboardHandler) Projects(c *gin.Context) {
	projects, err := h.dashboard.ProjectsByPhone(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(projects), "projects": projects})
}

// ProjectSummary returns spend aggregates for one project.
func (h *DashboardHandler) ProjectSummary(c *gin.Context) {
	summary, err := h.dashboard.ProjectSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ProjectExpenses lists a project's expenses, newest first.
func (h *DashboardHandler) ProjectExpenses(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 0)
	offset := parseIntQuery(c, "offset", 0)
	if c.IsAborted() {
		return
	}

	expenses, err := h.dashboard.ProjectExpenses(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(expenses), "expenses": expenses})
}

// Categories lists the configured expense categories.
func (h *DashboardHandler) Categories(c *gin.Context) {
	categories, err := h.dashboard.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

// parseIntQuery reads an optional integer query parameter, aborting with a
// 400 when the value is not an integer.
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return fallback
	}
	return value
}

// respondError maps apperrors sentinels onto HTTP statuses. Internal detail
// stays in the logs; clients get the sentinel message only.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
