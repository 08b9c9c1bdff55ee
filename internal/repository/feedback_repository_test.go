package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noor-academy/student-portal-api/internal/models"
)

func TestFeedbackRepositoryCreateTicketAssignsID(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewFeedbackRepository(db)

	mock.ExpectExec(`INSERT INTO user_feedback`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ticket := &models.FeedbackTicket{
		Kind:     models.TicketKindFeedback,
		UserType: "parent",
		Subject:  "subject",
		Message:  "message",
		Urgency:  "medium",
		Status:   models.TicketStatusNew,
	}
	err := repo.CreateTicket(context.Background(), ticket)
	require.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)
	assert.False(t, ticket.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryStats(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewFeedbackRepository(db)

	mock.ExpectQuery(`FROM user_feedback`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"feedback", "suggestions", "recent"}).AddRow(5, 2, 3))
	mock.ExpectQuery(`FROM user_reviews`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "average"}).AddRow(4, 4.5))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalFeedback)
	assert.Equal(t, 2, stats.TotalSuggestions)
	assert.Equal(t, 3, stats.RecentCount)
	assert.Equal(t, 4, stats.TotalReviews)
	assert.InDelta(t, 4.5, stats.AverageRating, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedbackRepositoryRespond(t *testing.T) {
	db, mock, cleanup := newLookupMock(t)
	defer cleanup()
	repo := NewFeedbackRepository(db)

	mock.ExpectExec(`UPDATE user_feedback SET`).
		WithArgs("id1", models.TicketStatusResponded, "handled", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Respond(context.Background(), "id1", models.TicketStatusResponded, "handled")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
