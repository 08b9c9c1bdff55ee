package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noor-academy/student-portal-api/internal/service"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
	"github.com/noor-academy/student-portal-api/pkg/response"
)

// FeedbackHandler exposes ticket intake and admin triage endpoints.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs FeedbackHandler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// SubmitFeedback godoc
// @Summary Submit a feedback ticket
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body service.SubmitFeedbackRequest true "Feedback payload"
// @Success 201 {object} response.Envelope
// @Router /api/feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	var req service.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	ticket, err := h.feedback.SubmitFeedback(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ticket)
}

// SubmitSuggestion godoc
// @Summary Submit a suggestion
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body service.SubmitSuggestionRequest true "Suggestion payload"
// @Success 201 {object} response.Envelope
// @Router /api/suggestion [post]
func (h *FeedbackHandler) SubmitSuggestion(c *gin.Context) {
	var req service.SubmitSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	ticket, err := h.feedback.SubmitSuggestion(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ticket)
}

// SubmitReview godoc
// @Summary Submit a portal review
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body service.SubmitReviewRequest true "Review payload"
// @Success 201 {object} response.Envelope
// @Router /api/review [post]
func (h *FeedbackHandler) SubmitReview(c *gin.Context) {
	var req service.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	review, err := h.feedback.SubmitReview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, review)
}

// Stats godoc
// @Summary Feedback statistics
// @Tags Feedback
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/feedback/stats [get]
func (h *FeedbackHandler) Stats(c *gin.Context) {
	stats, err := h.feedback.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Recent godoc
// @Summary Recent feedback tickets
// @Tags Feedback
// @Produce json
// @Param limit query int false "Max tickets" default(50)
// @Success 200 {object} response.Envelope
// @Router /api/feedback/recent [get]
func (h *FeedbackHandler) Recent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	tickets, err := h.feedback.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tickets, nil)
}

// Respond godoc
// @Summary Respond to a feedback ticket
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path string true "Ticket ID"
// @Param payload body service.RespondRequest true "Response payload"
// @Success 200 {object} response.Envelope
// @Router /api/feedback/{id}/respond [post]
func (h *FeedbackHandler) Respond(c *gin.Context) {
	var req service.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.feedback.Respond(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"updated": true}, nil)
}
