package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noor-academy/student-portal-api/internal/models"
)

// FeedbackRepository persists feedback tickets and portal reviews.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs a FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// CreateTicket inserts a feedback or suggestion ticket.
func (r *FeedbackRepository) CreateTicket(ctx context.Context, ticket *models.FeedbackTicket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO user_feedback (id, kind, user_type, user_name, user_contact,
        subject, message, urgency, status, created_at)
        VALUES (:id, :kind, :user_type, :user_name, :user_contact,
        :subject, :message, :urgency, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ticket); err != nil {
		return fmt.Errorf("create feedback ticket: %w", err)
	}
	return nil
}

// CreateReview inserts a portal review.
func (r *FeedbackRepository) CreateReview(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO user_reviews (id, overall_rating, usability_rating, speed_rating,
        reviewer_name, review_text, recommendation, created_at)
        VALUES (:id, :overall_rating, :usability_rating, :speed_rating,
        :reviewer_name, :review_text, :recommendation, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListRecent returns the newest tickets for the admin dashboard.
func (r *FeedbackRepository) ListRecent(ctx context.Context, limit int) ([]models.FeedbackTicket, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT id, kind, user_type, user_name, user_contact, subject, message,
        urgency, status, response, responded_at, created_at
        FROM user_feedback ORDER BY created_at DESC LIMIT %d`, limit)
	var tickets []models.FeedbackTicket
	if err := r.db.SelectContext(ctx, &tickets, query); err != nil {
		return nil, fmt.Errorf("list recent feedback: %w", err)
	}
	return tickets, nil
}

// Stats aggregates ticket counts and the review average.
func (r *FeedbackRepository) Stats(ctx context.Context) (*models.FeedbackStats, error) {
	stats := &models.FeedbackStats{}

	const countQuery = `SELECT
        COUNT(*) FILTER (WHERE kind = 'feedback') AS feedback,
        COUNT(*) FILTER (WHERE kind = 'suggestion') AS suggestions,
        COUNT(*) FILTER (WHERE created_at > $1) AS recent
        FROM user_feedback`
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	var counts struct {
		Feedback    int `db:"feedback"`
		Suggestions int `db:"suggestions"`
		Recent      int `db:"recent"`
	}
	if err := r.db.GetContext(ctx, &counts, countQuery, weekAgo); err != nil {
		return nil, fmt.Errorf("count feedback: %w", err)
	}
	stats.TotalFeedback = counts.Feedback
	stats.TotalSuggestions = counts.Suggestions
	stats.RecentCount = counts.Recent

	const reviewQuery = `SELECT COUNT(*) AS total, COALESCE(AVG(overall_rating), 0) AS average FROM user_reviews`
	var reviews struct {
		Total   int     `db:"total"`
		Average float64 `db:"average"`
	}
	if err := r.db.GetContext(ctx, &reviews, reviewQuery); err != nil {
		return nil, fmt.Errorf("aggregate reviews: %w", err)
	}
	stats.TotalReviews = reviews.Total
	stats.AverageRating = reviews.Average

	return stats, nil
}

// Respond marks a ticket as handled and stores the admin's reply.
func (r *FeedbackRepository) Respond(ctx context.Context, id, status, reply string) (int64, error) {
	const query = `UPDATE user_feedback SET status = $2, response = $3, responded_at = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, reply, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("respond to feedback %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("respond rows affected: %w", err)
	}
	return affected, nil
}
