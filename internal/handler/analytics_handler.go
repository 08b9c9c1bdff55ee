package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noor-academy/student-portal-api/internal/service"
	"github.com/noor-academy/student-portal-api/pkg/response"
)

// AnalyticsHandler exposes the registration dashboard endpoint.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Registration godoc
// @Summary Registration and revenue summary
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/analytics [get]
func (h *AnalyticsHandler) Registration(c *gin.Context) {
	summary, cached, err := h.analytics.RegistrationSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, map[string]interface{}{"cached": cached})
}
