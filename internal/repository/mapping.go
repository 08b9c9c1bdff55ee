package repository

import (
	"sort"
	"strings"

	"github.com/noor-academy/student-portal-api/internal/models"
)

// This file is the single place where the three schema shapes are mapped
// onto the canonical StudentRecord. Field aliasing (name vs
// full_name_arabic) and month reshaping happen here, once, when a row is
// loaded; the rest of the system only sees the canonical model.

func unifiedToRecord(row *models.UnifiedRow) *models.StudentRecord {
	record := &models.StudentRecord{
		StudentCode:     strings.ToUpper(row.StudentCode),
		DisplayName:     coalesce(deref(row.FullNameArabic), deref(row.Name)),
		PaymentVerified: row.IsConfirmed,
		Performance:     monthColumns(row.September, row.October, row.November, row.December),
	}
	record.GradeLevel = resolveGrade(deref(row.GradeLevel), record.StudentCode)
	return record
}

func legacyToRecord(grade models.GradeLevel, row *models.LegacyRow) *models.StudentRecord {
	return &models.StudentRecord{
		StudentCode:     strings.ToUpper(row.StudentCode),
		DisplayName:     row.Name,
		GradeLevel:      grade,
		PaymentVerified: row.IsConfirmed,
		Performance:     monthColumns(row.September, row.October, row.November, row.December),
	}
}

func relationalToRecord(student *models.StudentRow, performance []models.PerformanceRow, subscription *models.SubscriptionRow) *models.StudentRecord {
	record := &models.StudentRecord{
		StudentCode:      strings.ToUpper(student.StudentCode),
		DisplayName:      student.FullNameArabic,
		PaymentVerified:  student.IsConfirmed,
		WhatsappPhone:    deref(student.WhatsappPhone),
		SubscriptionType: student.SubscriptionType,
		Performance:      make([]models.MonthlyPerformance, 0, len(performance)),
	}
	record.GradeLevel = resolveGrade(student.GradeLevel, record.StudentCode)
	if student.EnrollmentDate != nil {
		record.EnrollmentDate = student.EnrollmentDate.Format("2006-01-02")
	}

	for _, row := range performance {
		mp := models.MonthlyPerformance{
			Month:           strings.ToLower(strings.TrimSpace(row.Month)),
			FinalEvaluation: deref(row.FinalEvaluation),
		}
		mp.Sessions[0] = models.SessionRecord{Performance: deref(row.Session1Perf), Quiz: derefInt(row.Session1Quiz)}
		mp.Sessions[1] = models.SessionRecord{Performance: deref(row.Session2Perf), Quiz: derefInt(row.Session2Quiz)}
		mp.Sessions[2] = models.SessionRecord{Performance: deref(row.Session3Perf), Quiz: derefInt(row.Session3Quiz)}
		mp.Sessions[3] = models.SessionRecord{Performance: deref(row.Session4Perf), Quiz: derefInt(row.Session4Quiz)}
		record.Performance = append(record.Performance, mp)
	}
	sortPerformance(record.Performance)

	if subscription != nil {
		sub := &models.Subscription{
			Type:          subscription.Type,
			Amount:        subscription.Amount,
			Status:        subscription.Status,
			PaymentMethod: deref(subscription.PaymentMethod),
		}
		if subscription.StartDate != nil {
			sub.StartDate = subscription.StartDate.Format("2006-01-02")
		}
		if subscription.EndDate != nil {
			sub.EndDate = subscription.EndDate.Format("2006-01-02")
		}
		record.Subscription = sub
	}
	return record
}

// monthColumns decodes the inline JSONB month columns into the ordered
// canonical list, skipping empty months.
func monthColumns(september, october, november, december []byte) []models.MonthlyPerformance {
	columns := []struct {
		name string
		raw  []byte
	}{
		{"september", september},
		{"october", october},
		{"november", november},
		{"december", december},
	}

	result := make([]models.MonthlyPerformance, 0, len(columns))
	for _, col := range columns {
		if mp, ok := models.DecodeMonthBlob(col.name, col.raw); ok {
			result = append(result, mp)
		}
	}
	return result
}

// sortPerformance orders months by the calendar canon; unknown months keep
// their relative source order after it.
func sortPerformance(list []models.MonthlyPerformance) {
	sort.SliceStable(list, func(i, j int) bool {
		return models.MonthIndex(list[i].Month) < models.MonthIndex(list[j].Month)
	})
}

// resolveGrade prefers the stored grade label and falls back to the code prefix.
func resolveGrade(label, code string) models.GradeLevel {
	if grade, ok := models.GradeFromLabel(label); ok {
		return grade
	}
	if len(code) >= 2 {
		if grade, ok := models.ParseGradePrefix(code[:2]); ok {
			return grade
		}
	}
	return ""
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
