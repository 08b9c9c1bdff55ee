package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noor-academy/student-portal-api/internal/models"
	appErrors "github.com/noor-academy/student-portal-api/pkg/errors"
)

type unifiedSource interface {
	FindByCode(ctx context.Context, code string) (*models.StudentRecord, error)
}

type legacySource interface {
	FindByCode(ctx context.Context, grade models.GradeLevel, code string) (*models.StudentRecord, error)
}

type relationalSource interface {
	FindByCode(ctx context.Context, code string) (*models.StudentRecord, error)
}

type lookupCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// LookupResult pairs the uniform display model with the name of the schema
// shape that satisfied the lookup.
type LookupResult struct {
	Record *models.StudentRecord `json:"record"`
	Source string                `json:"source"`

	// CacheHit is set when the result came from the Redis cache rather
	// than a source query. Not persisted in the cached value itself.
	CacheHit bool `json:"-"`
}

// Source names reported in LookupResult.
const (
	SourceUnified    = "unified"
	SourceLegacy     = "legacy"
	SourceRelational = "relational"
)

// LookupService resolves a raw student code against the three coexisting
// schema shapes in priority order: unified table, per-grade legacy table,
// normalized relational schema. It only ever reads.
type LookupService struct {
	unified    unifiedSource
	legacy     legacySource
	relational relationalSource
	cache      lookupCache
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewLookupService constructs the lookup service. cache may be nil to
// disable result caching.
func NewLookupService(unified unifiedSource, legacy legacySource, relational relationalSource, cache lookupCache, cacheTTL time.Duration, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{
		unified:    unified,
		legacy:     legacy,
		relational: relational,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Lookup validates and normalizes rawCode, then tries each source until one
// yields a record. Exactly one of result and error is returned. A source
// query failing for any reason other than "no rows" aborts the lookup with
// ErrSourceUnavailable: a database outage must never read as "no such
// student".
func (s *LookupService) Lookup(ctx context.Context, rawCode string) (*LookupResult, error) {
	code := normalizeCode(rawCode)
	if len(code) < 2 {
		return nil, appErrors.Clone(appErrors.ErrInvalidCode, "")
	}

	grade, ok := models.ParseGradePrefix(code[:2])
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownGradePrefix, "")
	}

	if s.cache != nil && s.cacheTTL > 0 {
		var cached LookupResult
		if err := s.cache.Get(ctx, lookupCacheKey(code), &cached); err == nil && cached.Record != nil {
			s.logger.Debug("lookup cache hit", zap.String("code", code), zap.String("source", cached.Source))
			cached.CacheHit = true
			return &cached, nil
		}
	}

	start := time.Now()
	tried := make([]string, 0, 3)

	for _, candidate := range []struct {
		source string
		find   func(context.Context) (*models.StudentRecord, error)
	}{
		{SourceUnified, func(ctx context.Context) (*models.StudentRecord, error) {
			return s.unified.FindByCode(ctx, code)
		}},
		{SourceLegacy, func(ctx context.Context) (*models.StudentRecord, error) {
			return s.legacy.FindByCode(ctx, grade, code)
		}},
		{SourceRelational, func(ctx context.Context) (*models.StudentRecord, error) {
			return s.relational.FindByCode(ctx, code)
		}},
	} {
		tried = append(tried, candidate.source)
		record, err := candidate.find(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			s.logger.Error("lookup source failed",
				zap.String("code", code),
				zap.String("source", candidate.source),
				zap.Strings("tried", tried),
				zap.Error(err),
			)
			return nil, appErrors.Wrap(err, appErrors.ErrSourceUnavailable.Code, appErrors.ErrSourceUnavailable.Status, appErrors.ErrSourceUnavailable.Message)
		}

		result := &LookupResult{Record: record, Source: candidate.source}
		s.logger.Info("lookup resolved",
			zap.String("code", code),
			zap.String("source", candidate.source),
			zap.Strings("tried", tried),
			zap.Duration("duration", time.Since(start)),
		)
		s.storeInCache(ctx, code, result)
		return result, nil
	}

	s.logger.Info("lookup missed all sources",
		zap.String("code", code),
		zap.Strings("tried", tried),
		zap.Duration("duration", time.Since(start)),
	)
	return nil, appErrors.Clone(appErrors.ErrStudentNotFound, "")
}

func (s *LookupService) storeInCache(ctx context.Context, code string, result *LookupResult) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, lookupCacheKey(code), result, s.cacheTTL); err != nil {
		s.logger.Warn("lookup cache store failed", zap.String("code", code), zap.Error(err))
	}
}

func lookupCacheKey(code string) string {
	return "lookup:" + code
}

// normalizeCode trims the input, strips every character that is not an
// ASCII letter or digit, and upper-cases the rest.
func normalizeCode(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - ('a' - 'A'))
		}
	}
	return b.String()
}
