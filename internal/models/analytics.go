package models

// RegistrationSummary aggregates the registration pipeline for admins.
type RegistrationSummary struct {
	TotalStudents            int            `json:"totalStudents"`
	ConfirmedStudents        int            `json:"confirmedStudents"`
	PendingConfirmation      int            `json:"pendingConfirmation"`
	GradeDistribution        map[string]int `json:"gradeDistribution"`
	SubscriptionDistribution map[string]int `json:"subscriptionDistribution"`
	RecentEnrollments        int            `json:"recentEnrollments"`
	EstimatedMonthlyRevenue  float64        `json:"estimatedMonthlyRevenue"`
}
