package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noor-academy/student-portal-api/internal/models"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
)

type feedbackRepository interface {
	CreateTicket(ctx context.Context, ticket *models.FeedbackTicket) error
	CreateReview(ctx context.Context, review *models.Review) error
	ListRecent(ctx context.Context, limit int) ([]models.FeedbackTicket, error)
	Stats(ctx context.Context) (*models.FeedbackStats, error)
	Respond(ctx context.Context, id, status, reply string) (int64, error)
}

type ticketArchive interface {
	Save(filename string, data []byte) (string, error)
}

// SubmitFeedbackRequest is the public feedback form payload.
type SubmitFeedbackRequest struct {
	Type        string `json:"type" validate:"required,max=50"`
	UserType    string `json:"userType" validate:"required,max=20"`
	UserName    string `json:"userName" validate:"max=100"`
	UserContact string `json:"userContact" validate:"max=100"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Message     string `json:"message" validate:"required,max=2000"`
	Urgency     string `json:"urgency" validate:"omitempty,oneof=low medium high urgent"`
}

// SubmitReviewRequest is the portal rating payload.
type SubmitReviewRequest struct {
	OverallRating   int    `json:"overallRating" validate:"required,min=1,max=5"`
	UsabilityRating int    `json:"usabilityRating" validate:"min=0,max=5"`
	SpeedRating     int    `json:"speedRating" validate:"min=0,max=5"`
	ReviewerName    string `json:"reviewerName" validate:"max=100"`
	ReviewText      string `json:"reviewText" validate:"max=1000"`
	Recommendation  string `json:"recommendation" validate:"max=200"`
}

// SubmitSuggestionRequest is the suggestion box payload.
type SubmitSuggestionRequest struct {
	UserType string `json:"userType" validate:"required,max=20"`
	UserName string `json:"userName" validate:"max=100"`
	Title    string `json:"title" validate:"required,max=200"`
	Details  string `json:"details" validate:"required,max=2000"`
}

// RespondRequest is the admin triage payload.
type RespondRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=new responded closed"`
	Response string `json:"response" validate:"required,max=2000"`
}

// FeedbackService handles ticket intake and admin triage. Every accepted
// submission is stored in Postgres and also archived as a flat JSON file,
// preserving the paper trail the original deployment relied on.
type FeedbackService struct {
	repo      feedbackRepository
	archive   ticketArchive
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs the feedback service. archive may be nil.
func NewFeedbackService(repo feedbackRepository, archive ticketArchive, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{repo: repo, archive: archive, validator: validate, logger: logger}
}

// SubmitFeedback stores a general feedback ticket.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, req SubmitFeedbackRequest) (*models.FeedbackTicket, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = "medium"
	}
	ticket := &models.FeedbackTicket{
		Kind:     models.TicketKindFeedback,
		UserType: req.UserType,
		UserName: req.UserName, UserContact: req.UserContact,
		Subject: req.Subject, Message: req.Message,
		Urgency: urgency,
		Status:  models.TicketStatusNew,
	}
	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}
	s.archiveTicket(ticket.Kind, ticket.ID, ticket)

	if urgency == "urgent" || urgency == "high" {
		s.logger.Warn("urgent feedback received",
			zap.String("id", ticket.ID),
			zap.String("user_type", ticket.UserType),
			zap.String("subject", ticket.Subject),
		)
	}
	return ticket, nil
}

// SubmitSuggestion stores a suggestion ticket.
func (s *FeedbackService) SubmitSuggestion(ctx context.Context, req SubmitSuggestionRequest) (*models.FeedbackTicket, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suggestion payload")
	}
	ticket := &models.FeedbackTicket{
		Kind:     models.TicketKindSuggestion,
		UserType: req.UserType,
		UserName: req.UserName,
		Subject:  req.Title,
		Message:  req.Details,
		Urgency:  "medium",
		Status:   models.TicketStatusNew,
	}
	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store suggestion")
	}
	s.archiveTicket(ticket.Kind, ticket.ID, ticket)
	return ticket, nil
}

// SubmitReview stores a portal rating.
func (s *FeedbackService) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	review := &models.Review{
		OverallRating:   req.OverallRating,
		UsabilityRating: req.UsabilityRating,
		SpeedRating:     req.SpeedRating,
		ReviewerName:    req.ReviewerName,
		ReviewText:      req.ReviewText,
		Recommendation:  req.Recommendation,
	}
	if err := s.repo.CreateReview(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store review")
	}
	s.archiveTicket("review", review.ID, review)
	return review, nil
}

// Stats returns triage counters for the admin dashboard.
func (s *FeedbackService) Stats(ctx context.Context) (*models.FeedbackStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback stats")
	}
	return stats, nil
}

// Recent returns the newest tickets.
func (s *FeedbackService) Recent(ctx context.Context, limit int) ([]models.FeedbackTicket, error) {
	tickets, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent feedback")
	}
	return tickets, nil
}

// Respond records an admin reply on a ticket.
func (s *FeedbackService) Respond(ctx context.Context, id string, req RespondRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid response payload")
	}
	status := req.Status
	if status == "" {
		status = models.TicketStatusResponded
	}
	affected, err := s.repo.Respond(ctx, id, status, req.Response)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update ticket")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "ticket not found")
	}
	return nil
}

func (s *FeedbackService) archiveTicket(kind, id string, payload interface{}) {
	if s.archive == nil {
		return
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		s.logger.Warn("ticket archive marshal failed", zap.String("id", id), zap.Error(err))
		return
	}
	timestamp := strings.ReplaceAll(time.Now().UTC().Format(time.RFC3339), ":", "-")
	filename := fmt.Sprintf("%s-%s.json", kind, timestamp)
	if _, err := s.archive.Save(filename, data); err != nil {
		s.logger.Warn("ticket archive write failed", zap.String("id", id), zap.Error(err))
	}
}
