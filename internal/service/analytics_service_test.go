package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noor-academy/student-portal-api/internal/repository"
)

type mockSummaryRepo struct {
	rows  []repository.StudentSummaryRow
	calls int
	err   error
}

func (m *mockSummaryRepo) Summary(ctx context.Context) ([]repository.StudentSummaryRow, error) {
	m.calls++
	return m.rows, m.err
}

func TestRegistrationSummaryAggregates(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockSummaryRepo{rows: []repository.StudentSummaryRow{
		{GradeLevel: "Grade 4", SubscriptionType: "اشتراك شهري", IsConfirmed: true, CreatedAt: now},
		{GradeLevel: "Grade 4", SubscriptionType: "اشتراك شهري", IsConfirmed: false, CreatedAt: now.AddDate(0, 0, -60)},
		{GradeLevel: "Prep 1", SubscriptionType: "اشتراك الترم", IsConfirmed: true, CreatedAt: now},
	}}
	svc := NewAnalyticsService(repo, nil, 0, zap.NewNop())

	summary, cached, err := svc.RegistrationSummary(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 3, summary.TotalStudents)
	assert.Equal(t, 2, summary.ConfirmedStudents)
	assert.Equal(t, 1, summary.PendingConfirmation)
	assert.Equal(t, 2, summary.GradeDistribution["Grade 4"])
	assert.Equal(t, 1, summary.GradeDistribution["Prep 1"])
	assert.Equal(t, 2, summary.RecentEnrollments)
	assert.InDelta(t, 120+120+200, summary.EstimatedMonthlyRevenue, 0.01)
}

func TestRegistrationSummaryCacheHit(t *testing.T) {
	repo := &mockSummaryRepo{}
	cache := &mockCache{}
	svc := NewAnalyticsService(repo, cache, time.Minute, zap.NewNop())

	_, cached, err := svc.RegistrationSummary(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, repo.calls)

	_, cached, err = svc.RegistrationSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, repo.calls, "second call must be served from cache")
}

func TestPlanMonthlyRevenue(t *testing.T) {
	assert.InDelta(t, 120, planMonthlyRevenue("اشتراك شهري"), 0.01)
	assert.InDelta(t, 200, planMonthlyRevenue("اشتراك الترم"), 0.01)
	assert.Zero(t, planMonthlyRevenue("unknown"))
}
