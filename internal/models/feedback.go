package models

import "time"

// Ticket kinds accepted by the feedback intake.
const (
	TicketKindFeedback   = "feedback"
	TicketKindSuggestion = "suggestion"
)

// Ticket statuses.
const (
	TicketStatusNew       = "new"
	TicketStatusResponded = "responded"
)

// FeedbackTicket is a message submitted through the public feedback form.
type FeedbackTicket struct {
	ID          string     `db:"id" json:"id"`
	Kind        string     `db:"kind" json:"kind"`
	UserType    string     `db:"user_type" json:"userType"`
	UserName    string     `db:"user_name" json:"userName,omitempty"`
	UserContact string     `db:"user_contact" json:"userContact,omitempty"`
	Subject     string     `db:"subject" json:"subject"`
	Message     string     `db:"message" json:"message"`
	Urgency     string     `db:"urgency" json:"urgency"`
	Status      string     `db:"status" json:"status"`
	Response    *string    `db:"response" json:"response,omitempty"`
	RespondedAt *time.Time `db:"responded_at" json:"respondedAt,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// Review is a star rating of the portal itself.
type Review struct {
	ID              string    `db:"id" json:"id"`
	OverallRating   int       `db:"overall_rating" json:"overallRating"`
	UsabilityRating int       `db:"usability_rating" json:"usabilityRating"`
	SpeedRating     int       `db:"speed_rating" json:"speedRating"`
	ReviewerName    string    `db:"reviewer_name" json:"reviewerName,omitempty"`
	ReviewText      string    `db:"review_text" json:"reviewText,omitempty"`
	Recommendation  string    `db:"recommendation" json:"recommendation,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// FeedbackStats summarises the triage queue for the admin dashboard.
type FeedbackStats struct {
	TotalFeedback    int     `json:"totalFeedback"`
	TotalReviews     int     `json:"totalReviews"`
	TotalSuggestions int     `json:"totalSuggestions"`
	AverageRating    float64 `json:"averageRating"`
	RecentCount      int     `json:"recentCount"`
}
