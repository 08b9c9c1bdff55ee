package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noor-academy/student-portal-api/internal/service"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
	"github.com/noor-academy/student-portal-api/pkg/response"
)

type searchService interface {
	Lookup(ctx context.Context, rawCode string) (*service.LookupResult, error)
}

// SearchHandler exposes the public student code search.
type SearchHandler struct {
	lookups searchService
	metrics *service.MetricsService
}

// NewSearchHandler constructs SearchHandler. metrics may be nil.
func NewSearchHandler(lookups searchService, metrics *service.MetricsService) *SearchHandler {
	return &SearchHandler{lookups: lookups, metrics: metrics}
}

type searchRequest struct {
	Code string `json:"code"`
}

// Messages shown to parents, matching the deployed front-end's language.
var searchMessages = map[string]string{
	appErrors.ErrInvalidCode.Code:        "برجاء كتابة الكود",
	appErrors.ErrUnknownGradePrefix.Code: "الكود غير صالح أو لا ينتمي لأي مستوى معروف",
	appErrors.ErrStudentNotFound.Code:    "لا يوجد طالب بهذا الكود",
	appErrors.ErrSourceUnavailable.Code:  "حدث خطأ في البحث",
}

// Search godoc
// @Summary Search a student by code
// @Tags Search
// @Accept json
// @Produce json
// @Param payload body searchRequest true "Student code"
// @Success 200 {object} response.SearchEnvelope
// @Router /api/search [post]
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, appErrors.ErrInvalidCode, 0)
		return
	}

	start := time.Now()
	result, err := h.lookups.Lookup(c.Request.Context(), req.Code)
	if err != nil {
		h.fail(c, err, time.Since(start))
		return
	}

	h.metrics.ObserveLookup(result.Source, "hit", time.Since(start))
	if result.CacheHit {
		c.Header("X-Cache", "HIT")
	}
	response.SearchHit(c, result.Record, result.Source)
}

// Usage godoc
// @Summary Describe the search endpoint
// @Tags Search
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/search [get]
func (h *SearchHandler) Usage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Student Search API",
		"usage":   "POST to this endpoint with a student code",
		"example": gin.H{"code": "G4001"},
	})
}

func (h *SearchHandler) fail(c *gin.Context, err error, duration time.Duration) {
	appErr := appErrors.FromError(err)
	if msg, ok := searchMessages[appErr.Code]; ok {
		appErr = appErrors.Clone(appErr, msg)
	}
	h.metrics.ObserveLookup("", lowerOutcome(appErr.Code), duration)
	response.SearchFailure(c, appErr)
}

func lowerOutcome(code string) string {
	switch code {
	case appErrors.ErrInvalidCode.Code:
		return "invalid_input"
	case appErrors.ErrUnknownGradePrefix.Code:
		return "unknown_prefix"
	case appErrors.ErrStudentNotFound.Code:
		return "not_found"
	case appErrors.ErrSourceUnavailable.Code:
		return "source_unavailable"
	default:
		return "error"
	}
}
