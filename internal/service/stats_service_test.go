package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-attend-api/internal/models"
	appErrors "github.com/noah-isme/uni-attend-api/pkg/errors"
)

type mockStatsRepo struct {
	students int
	teachers int
	courses  int
	scans    map[string]int
	calls    int
}

func (m *mockStatsRepo) CountStudents(ctx context.Context) (int, error) {
	m.calls++
	return m.students, nil
}

func (m *mockStatsRepo) CountTeachers(ctx context.Context) (int, error) { return m.teachers, nil }
func (m *mockStatsRepo) CountCourses(ctx context.Context) (int, error)  { return m.courses, nil }
func (m *mockStatsRepo) ScanStatusTotals(ctx context.Context) (map[string]int, error) {
	return m.scans, nil
}

// memoryCache keeps the last stored stats payload so Get can hand it back
// without a real codec.
type memoryCache struct {
	entries map[string][]byte
	stats   models.AdminStats
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if _, ok := m.entries[key]; !ok {
		return appErrors.ErrCacheMiss
	}
	stats, ok := dest.(*models.AdminStats)
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*stats = m.stats
	return nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = []byte("1")
	if stats, ok := value.(*models.AdminStats); ok {
		m.stats = *stats
	}
	return nil
}

func (m *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.entries = nil
	return nil
}

var _ CacheRepository = (*memoryCache)(nil)

func TestAdminStatsAggregatesAndCaches(t *testing.T) {
	repo := &mockStatsRepo{students: 12, teachers: 3, courses: 5, scans: map[string]int{"Present": 40, "Late": 7, "Absent": 13}}
	cache := NewCacheService(&memoryCache{}, nil, time.Minute, nil, true)
	svc := NewStatsService(repo, cache, time.Minute, nil)

	stats, err := svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalStudents)
	assert.Equal(t, 3, stats.TotalTeachers)
	assert.Equal(t, 5, stats.TotalCourses)
	assert.Equal(t, 7, stats.ScanTotals["Late"])
	assert.Equal(t, 1, repo.calls)

	_, err = svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "second read must come from cache")
}

func TestAdminStatsInvalidateForcesRecount(t *testing.T) {
	repo := &mockStatsRepo{students: 1}
	cache := NewCacheService(&memoryCache{}, nil, time.Minute, nil, true)
	svc := NewStatsService(repo, cache, time.Minute, nil)

	_, err := svc.AdminStats(context.Background())
	require.NoError(t, err)

	svc.Invalidate(context.Background())
	repo.students = 2

	stats, err := svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 2, repo.calls)
}

func TestAdminStatsWithoutCache(t *testing.T) {
	repo := &mockStatsRepo{students: 4}
	cache := NewCacheService(nil, nil, time.Minute, nil, false)
	svc := NewStatsService(repo, cache, time.Minute, nil)

	_, err := svc.AdminStats(context.Background())
	require.NoError(t, err)
	_, err = svc.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls, "disabled cache always recounts")
}
