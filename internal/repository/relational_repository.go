package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noor-academy/student-portal-api/internal/models"
)

// RelationalRepository reads the normalized three-table schema
// (students, student_performance, subscriptions) and composes the result.
type RelationalRepository struct {
	db *sqlx.DB
}

// NewRelationalRepository constructs a RelationalRepository.
func NewRelationalRepository(db *sqlx.DB) *RelationalRepository {
	return &RelationalRepository{db: db}
}

// FindByCode resolves a student and the associated performance and
// subscription rows. A missing student surfaces as sql.ErrNoRows; a missing
// subscription or empty performance history is not an error.
func (r *RelationalRepository) FindByCode(ctx context.Context, code string) (*models.StudentRecord, error) {
	const studentQuery = `SELECT id, student_code, full_name_arabic, grade_level, subscription_type,
        transfer_phone, whatsapp_phone, is_confirmed, enrollment_date, created_at, updated_at
        FROM students WHERE UPPER(student_code) = $1 LIMIT 1`

	var student models.StudentRow
	if err := r.db.GetContext(ctx, &student, studentQuery, code); err != nil {
		return nil, err
	}

	const performanceQuery = `SELECT id, student_id, month,
        session1_perf, session1_quiz, session2_perf, session2_quiz,
        session3_perf, session3_quiz, session4_perf, session4_quiz, final_evaluation
        FROM student_performance WHERE student_id = $1`

	var performance []models.PerformanceRow
	if err := r.db.SelectContext(ctx, &performance, performanceQuery, student.ID); err != nil {
		return nil, fmt.Errorf("load performance for %s: %w", code, err)
	}

	const subscriptionQuery = `SELECT id, student_id, subscription_type, amount,
        start_date, end_date, status, payment_method
        FROM subscriptions WHERE student_id = $1 ORDER BY start_date DESC NULLS LAST LIMIT 1`

	var subscription *models.SubscriptionRow
	var subRow models.SubscriptionRow
	err := r.db.GetContext(ctx, &subRow, subscriptionQuery, student.ID)
	switch {
	case err == nil:
		subscription = &subRow
	case errors.Is(err, sql.ErrNoRows):
		// No subscription on file; display defaults apply.
	default:
		return nil, fmt.Errorf("load subscription for %s: %w", code, err)
	}

	return relationalToRecord(&student, performance, subscription), nil
}

// Source names the schema shape for lookup diagnostics.
func (r *RelationalRepository) Source() string {
	return "relational"
}
