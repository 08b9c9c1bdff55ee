package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// GradeLevel is the two character prefix of a student code.
type GradeLevel string

const (
	GradeG4 GradeLevel = "G4"
	GradeG5 GradeLevel = "G5"
	GradeG6 GradeLevel = "G6"
	GradeP1 GradeLevel = "P1"
)

// GradeLevels lists the supported grade prefixes in display order.
var GradeLevels = []GradeLevel{GradeG4, GradeG5, GradeG6, GradeP1}

// ParseGradePrefix maps the first two characters of a normalized code to a
// grade level. The second return value reports whether the prefix is known.
func ParseGradePrefix(prefix string) (GradeLevel, bool) {
	g := GradeLevel(strings.ToUpper(prefix))
	for _, known := range GradeLevels {
		if g == known {
			return g, true
		}
	}
	return "", false
}

// LegacyTable returns the per-grade table name used by the oldest schema shape.
func (g GradeLevel) LegacyTable() string {
	return strings.ToLower(string(g))
}

// Label returns the long form stored by the relational schema ("Grade 4", "Prep 1").
func (g GradeLevel) Label() string {
	switch g {
	case GradeP1:
		return "Prep 1"
	default:
		return "Grade " + strings.TrimPrefix(string(g), "G")
	}
}

// GradeFromLabel is the inverse of Label; unknown labels return false.
func GradeFromLabel(label string) (GradeLevel, bool) {
	switch strings.TrimSpace(label) {
	case "Grade 4":
		return GradeG4, true
	case "Grade 5":
		return GradeG5, true
	case "Grade 6":
		return GradeG6, true
	case "Prep 1":
		return GradeP1, true
	}
	// Some imports already store the short prefix.
	return ParseGradePrefix(label)
}

// SessionsPerMonth is fixed by the centre's schedule.
const SessionsPerMonth = 4

// CanonicalMonths orders the months the programme currently runs. Months
// outside this list are still carried, appended after the canon.
var CanonicalMonths = []string{"september", "october", "november", "december"}

// MonthIndex returns the canonical position of a month name, or the length
// of the canon for unknown months so they sort last.
func MonthIndex(month string) int {
	m := strings.ToLower(strings.TrimSpace(month))
	for i, known := range CanonicalMonths {
		if m == known {
			return i
		}
	}
	return len(CanonicalMonths)
}

// StudentRecord is the uniform display model returned by every lookup,
// regardless of which schema shape satisfied it. All optional fields are
// defaulted to display-safe zero values; the view layer never sees nil.
type StudentRecord struct {
	StudentCode      string               `json:"studentCode"`
	DisplayName      string               `json:"displayName"`
	GradeLevel       GradeLevel           `json:"gradeLevel"`
	PaymentVerified  bool                 `json:"paymentVerified"`
	WhatsappPhone    string               `json:"whatsappPhone,omitempty"`
	SubscriptionType string               `json:"subscriptionType,omitempty"`
	EnrollmentDate   string               `json:"enrollmentDate,omitempty"`
	Performance      []MonthlyPerformance `json:"performance"`
	Subscription     *Subscription        `json:"subscription,omitempty"`
}

// MonthlyPerformance is one month of session results for one student.
type MonthlyPerformance struct {
	Month           string                       `json:"month"`
	Sessions        [SessionsPerMonth]SessionRecord `json:"sessions"`
	FinalEvaluation string                       `json:"finalEvaluation"`
}

// SessionRecord holds one session's marks. Absent fields stay zero.
type SessionRecord struct {
	Attended    bool   `json:"attended"`
	Performance string `json:"performance"`
	Question1   int    `json:"question1"`
	Question2   int    `json:"question2"`
	Quiz        int    `json:"quiz"`
}

// Subscription is the payment plan attached to a student in the relational schema.
type Subscription struct {
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	StartDate     string  `json:"startDate,omitempty"`
	EndDate       string  `json:"endDate,omitempty"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
}

// Pagination carries list metadata for admin endpoints.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

// UnifiedRow is one row of the consolidated students_unified table. Month
// columns are JSONB blobs in the same shape the legacy tables used.
type UnifiedRow struct {
	ID             int64      `db:"id"`
	StudentCode    string     `db:"student_code"`
	Name           *string    `db:"name"`
	FullNameArabic *string    `db:"full_name_arabic"`
	GradeLevel     *string    `db:"grade_level"`
	IsConfirmed    bool       `db:"is_confirmed"`
	September      []byte     `db:"september"`
	October        []byte     `db:"october"`
	November       []byte     `db:"november"`
	December       []byte     `db:"december"`
}

// LegacyRow is one row of a per-grade table (g4, g5, g6, p1).
type LegacyRow struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	StudentCode string `db:"student_code"`
	IsConfirmed bool   `db:"is_confirmed"`
	September   []byte `db:"september"`
	October     []byte `db:"october"`
	November    []byte `db:"november"`
	December    []byte `db:"december"`
}

// StudentRow is the students table of the normalized relational schema.
type StudentRow struct {
	ID               int64      `db:"id"`
	StudentCode      string     `db:"student_code"`
	FullNameArabic   string     `db:"full_name_arabic"`
	GradeLevel       string     `db:"grade_level"`
	SubscriptionType string     `db:"subscription_type"`
	TransferPhone    *string    `db:"transfer_phone"`
	WhatsappPhone    *string    `db:"whatsapp_phone"`
	IsConfirmed      bool       `db:"is_confirmed"`
	EnrollmentDate   *time.Time `db:"enrollment_date"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// PerformanceRow is one month of the student_performance table.
type PerformanceRow struct {
	ID              int64   `db:"id"`
	StudentID       int64   `db:"student_id"`
	Month           string  `db:"month"`
	Session1Perf    *string `db:"session1_perf"`
	Session1Quiz    *int    `db:"session1_quiz"`
	Session2Perf    *string `db:"session2_perf"`
	Session2Quiz    *int    `db:"session2_quiz"`
	Session3Perf    *string `db:"session3_perf"`
	Session3Quiz    *int    `db:"session3_quiz"`
	Session4Perf    *string `db:"session4_perf"`
	Session4Quiz    *int    `db:"session4_quiz"`
	FinalEvaluation *string `db:"final_evaluation"`
}

// SubscriptionRow is one row of the subscriptions table.
type SubscriptionRow struct {
	ID            int64      `db:"id"`
	StudentID     int64      `db:"student_id"`
	Type          string     `db:"subscription_type"`
	Amount        float64    `db:"amount"`
	StartDate     *time.Time `db:"start_date"`
	EndDate       *time.Time `db:"end_date"`
	Status        string     `db:"status"`
	PaymentMethod *string    `db:"payment_method"`
}

// monthBlob is the JSONB payload stored per month by the legacy and unified
// shapes. The oldest imports wrote quiz scores as strings, so numeric fields
// tolerate both encodings.
type monthBlob struct {
	Session1Perf     string  `json:"session1_perf"`
	Session1Quiz     FlexInt `json:"session1_quiz"`
	Session1Attended bool    `json:"session1_attended"`
	Session1Q1       FlexInt `json:"session1_q1"`
	Session1Q2       FlexInt `json:"session1_q2"`
	Session2Perf     string  `json:"session2_perf"`
	Session2Quiz     FlexInt `json:"session2_quiz"`
	Session2Attended bool    `json:"session2_attended"`
	Session2Q1       FlexInt `json:"session2_q1"`
	Session2Q2       FlexInt `json:"session2_q2"`
	Session3Perf     string  `json:"session3_perf"`
	Session3Quiz     FlexInt `json:"session3_quiz"`
	Session3Attended bool    `json:"session3_attended"`
	Session3Q1       FlexInt `json:"session3_q1"`
	Session3Q2       FlexInt `json:"session3_q2"`
	Session4Perf     string  `json:"session4_perf"`
	Session4Quiz     FlexInt `json:"session4_quiz"`
	Session4Attended bool    `json:"session4_attended"`
	Session4Q1       FlexInt `json:"session4_q1"`
	Session4Q2       FlexInt `json:"session4_q2"`
	FinalEvaluation  string  `json:"final_evaluation"`
}

// FlexInt decodes JSON numbers and numeric strings alike.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		// Non-numeric legacy values ("غير محدد") degrade to zero rather
		// than failing the whole record.
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// DecodeMonthBlob converts a JSONB month column into the canonical
// MonthlyPerformance shape. Empty or malformed blobs return ok=false.
func DecodeMonthBlob(month string, raw []byte) (MonthlyPerformance, bool) {
	if len(raw) == 0 {
		return MonthlyPerformance{}, false
	}
	var blob monthBlob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return MonthlyPerformance{}, false
	}

	mp := MonthlyPerformance{Month: strings.ToLower(month), FinalEvaluation: blob.FinalEvaluation}
	mp.Sessions[0] = SessionRecord{Attended: blob.Session1Attended, Performance: blob.Session1Perf, Question1: int(blob.Session1Q1), Question2: int(blob.Session1Q2), Quiz: int(blob.Session1Quiz)}
	mp.Sessions[1] = SessionRecord{Attended: blob.Session2Attended, Performance: blob.Session2Perf, Question1: int(blob.Session2Q1), Question2: int(blob.Session2Q2), Quiz: int(blob.Session2Quiz)}
	mp.Sessions[2] = SessionRecord{Attended: blob.Session3Attended, Performance: blob.Session3Perf, Question1: int(blob.Session3Q1), Question2: int(blob.Session3Q2), Quiz: int(blob.Session3Quiz)}
	mp.Sessions[3] = SessionRecord{Attended: blob.Session4Attended, Performance: blob.Session4Perf, Question1: int(blob.Session4Q1), Question2: int(blob.Session4Q2), Quiz: int(blob.Session4Quiz)}

	if mp.FinalEvaluation == "" && isEmptyMonth(mp) {
		return MonthlyPerformance{}, false
	}
	return mp, true
}

func isEmptyMonth(mp MonthlyPerformance) bool {
	for _, s := range mp.Sessions {
		if s != (SessionRecord{}) {
			return false
		}
	}
	return true
}
