package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noor-academy/student-portal-api/internal/models"
	"github.com/noor-academy/student-portal-api/internal/repository"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
)

type summaryRepository interface {
	Summary(ctx context.Context) ([]repository.StudentSummaryRow, error)
}

const analyticsCacheKey = "analytics:registration"

// Subscription plan pricing used for the revenue estimate, in EGP. Monthly
// plans bill per month; term plans are one payment spread over three months.
const (
	monthlyPlanPrice = 120
	termPlanPrice    = 600
	termPlanMonths   = 3
)

// AnalyticsService aggregates the registration pipeline for the admin
// dashboard.
type AnalyticsService struct {
	repo     summaryRepository
	cache    lookupCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAnalyticsService constructs the analytics service. cache may be nil.
func NewAnalyticsService(repo summaryRepository, cache lookupCache, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// RegistrationSummary computes totals, distributions, and the revenue
// estimate. Results are cached; the second return value reports a cache hit.
func (s *AnalyticsService) RegistrationSummary(ctx context.Context) (*models.RegistrationSummary, bool, error) {
	if s.cache != nil && s.cacheTTL > 0 {
		var cached models.RegistrationSummary
		if err := s.cache.Get(ctx, analyticsCacheKey, &cached); err == nil {
			return &cached, true, nil
		}
	}

	rows, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration summary")
	}

	summary := &models.RegistrationSummary{
		GradeDistribution:        make(map[string]int),
		SubscriptionDistribution: make(map[string]int),
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -30)

	for _, row := range rows {
		summary.TotalStudents++
		if row.IsConfirmed {
			summary.ConfirmedStudents++
		} else {
			summary.PendingConfirmation++
		}
		summary.GradeDistribution[row.GradeLevel]++
		if row.SubscriptionType != "" {
			summary.SubscriptionDistribution[row.SubscriptionType]++
		}
		if row.CreatedAt.After(cutoff) {
			summary.RecentEnrollments++
		}
		summary.EstimatedMonthlyRevenue += planMonthlyRevenue(row.SubscriptionType)
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, analyticsCacheKey, summary, s.cacheTTL); err != nil {
			s.logger.Warn("analytics cache store failed", zap.Error(err))
		}
	}
	return summary, false, nil
}

// planMonthlyRevenue estimates a plan's monthly contribution from its
// Arabic display name, the only place plan kind is recorded.
func planMonthlyRevenue(subscriptionType string) float64 {
	switch {
	case strings.Contains(subscriptionType, "شهري"):
		return monthlyPlanPrice
	case strings.Contains(subscriptionType, "الترم"):
		return float64(termPlanPrice) / termPlanMonths
	default:
		return 0
	}
}
