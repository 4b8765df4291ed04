package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"examprep/study"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]study.AccessStatus
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]study.AccessStatus{}}
}

func (m *memoryCache) Get(_ context.Context, c, u string) (study.AccessStatus, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return study.AccessStatus{}, false, errors.New("cache down")
	}
	st, ok := m.entries[c+"/"+u]
	return st, ok, nil
}

func (m *memoryCache) Set(_ context.Context, c, u string, st study.AccessStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[c+"/"+u] = st
	return nil
}

func (m *memoryCache) Invalidate(_ context.Context, c, u string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, c+"/"+u)
	return nil
}

type countingSource struct {
	status study.AccessStatus
	calls  int
}

func (s *countingSource) CourseDetail(context.Context, string) (study.Course, error) {
	return study.Course{ID: "1"}, nil
}

func (s *countingSource) AccessStatus(context.Context, string, string) (study.AccessStatus, error) {
	s.calls++
	return s.status, nil
}

func (s *countingSource) Enroll(context.Context, string, string) error {
	s.status.IsEnrolled = true
	return nil
}

func TestSourceCachesUntilEnroll(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{}
	cached := NewSource(src, newMemoryCache(), nil)

	st, err := cached.AccessStatus(ctx, "1", "9")
	require.NoError(t, err)
	assert.False(t, st.IsEnrolled)
	_, _ = cached.AccessStatus(ctx, "1", "9")
	assert.Equal(t, 1, src.calls)

	require.NoError(t, cached.Enroll(ctx, "1", "9"))
	st, err = cached.AccessStatus(ctx, "1", "9")
	require.NoError(t, err)
	assert.True(t, st.IsEnrolled, "enrollment is never served stale")
	assert.Equal(t, 2, src.calls)

	src.status.HasPaid = true
	cached.Invalidate(ctx, "1", "9")
	st, _ = cached.AccessStatus(ctx, "1", "9")
	assert.True(t, st.HasPaid)
}

func TestSourceFallsThroughOnCacheError(t *testing.T) {
	mc := newMemoryCache()
	mc.failGet = true
	src := &countingSource{status: study.AccessStatus{IsEnrolled: true}}

	st, err := NewSource(src, mc, nil).AccessStatus(context.Background(), "1", "9")
	require.NoError(t, err)
	assert.True(t, st.IsEnrolled)
}

func TestNopNeverHits(t *testing.T) {
	src := &countingSource{}
	cached := NewSource(src, nil, nil)
	_, _ = cached.AccessStatus(context.Background(), "1", "9")
	_, _ = cached.AccessStatus(context.Background(), "1", "9")
	assert.Equal(t, 2, src.calls)

	course, err := cached.CourseDetail(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "1", course.ID)
}

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	r, err := NewRedis(addr, os.Getenv("TEST_REDIS_PASSWORD"), time.Minute)
	require.NoError(t, err)
	defer r.Close()
	r.prefix = "examprep:test:" + t.Name()

	ctx := context.Background()
	_, ok, err := r.Get(ctx, "c", "u")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "c", "u", study.AccessStatus{IsEnrolled: true}))
	st, ok, err := r.Get(ctx, "c", "u")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, st.IsEnrolled)

	require.NoError(t, r.Invalidate(ctx, "c", "u"))
	_, ok, err = r.Get(ctx, "c", "u")
	require.NoError(t, err)
	assert.False(t, ok)
}
