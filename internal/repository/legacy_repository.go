package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noor-academy/student-portal-api/internal/models"
)

// LegacyRepository reads the oldest schema shape: one table per grade
// (g4, g5, g6, p1), each row carrying inline JSONB month columns.
type LegacyRepository struct {
	db *sqlx.DB
}

// NewLegacyRepository constructs a LegacyRepository.
func NewLegacyRepository(db *sqlx.DB) *LegacyRepository {
	return &LegacyRepository{db: db}
}

// FindByCode fetches one record from the per-grade table derived from the
// code's prefix. The table name comes from the GradeLevel enum, never from
// raw input.
func (r *LegacyRepository) FindByCode(ctx context.Context, grade models.GradeLevel, code string) (*models.StudentRecord, error) {
	query := fmt.Sprintf(`SELECT id, name, student_code, is_confirmed,
        september, october, november, december
        FROM %s WHERE UPPER(student_code) = $1 LIMIT 1`, grade.LegacyTable())

	var row models.LegacyRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		return nil, err
	}
	return legacyToRecord(grade, &row), nil
}

// Source names the schema shape for lookup diagnostics.
func (r *LegacyRepository) Source() string {
	return "legacy"
}
