package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/uni-attend-api/internal/models"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

const (
	statsCacheKey     = "stats:admin"
	statsCachePattern = "stats:*"
)

type statsRepository interface {
	CountStudents(ctx context.Context) (int, error)
	CountTeachers(ctx context.Context) (int, error)
	CountCourses(ctx context.Context) (int, error)
	ScanStatusTotals(ctx context.Context) (map[string]int, error)
}

// StatsService aggregates dashboard counts, cached between writes.
type StatsService struct {
	repo   statsRepository
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsService constructs a StatsService instance.
func NewStatsService(repo statsRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StatsService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// AdminStats returns the headline counts, served from cache when fresh.
func (s *StatsService) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var cached models.AdminStats
	if hit, err := s.cache.Get(ctx, statsCacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	students, err := s.repo.CountStudents(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	teachers, err := s.repo.CountTeachers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count teachers")
	}
	courses, err := s.repo.CountCourses(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}
	scans, err := s.repo.ScanStatusTotals(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to total scans")
	}

	stats := &models.AdminStats{
		TotalStudents: students,
		TotalTeachers: teachers,
		TotalCourses:  courses,
		ScanTotals:    scans,
		GeneratedAt:   time.Now().UTC(),
	}

	if err := s.cache.Set(ctx, statsCacheKey, stats, s.ttl); err != nil {
		s.logger.Warn("failed to cache admin stats", zap.Error(err))
	}

	return stats, nil
}

// Invalidate drops cached stats after a write that changes the counts.
func (s *StatsService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, statsCachePattern); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}
