package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noor-academy/student-portal-api/internal/models"
)

// UnifiedRepository reads the consolidated students_unified table, the
// newest of the three coexisting schema shapes.
type UnifiedRepository struct {
	db *sqlx.DB
}

// NewUnifiedRepository constructs a UnifiedRepository.
func NewUnifiedRepository(db *sqlx.DB) *UnifiedRepository {
	return &UnifiedRepository{db: db}
}

// FindByCode fetches one record by exact, case-insensitive student code.
// A missing record surfaces as sql.ErrNoRows so callers can tell absence
// apart from an unreachable database.
func (r *UnifiedRepository) FindByCode(ctx context.Context, code string) (*models.StudentRecord, error) {
	const query = `SELECT id, student_code, name, full_name_arabic, grade_level, is_confirmed,
        september, october, november, december
        FROM students_unified WHERE UPPER(student_code) = $1 LIMIT 1`

	var row models.UnifiedRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		return nil, err
	}
	return unifiedToRecord(&row), nil
}

// Source names the schema shape for lookup diagnostics.
func (r *UnifiedRepository) Source() string {
	return "unified"
}
