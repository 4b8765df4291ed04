package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"examprep/logger"
	"examprep/study"

	goredis "github.com/redis/go-redis/v9"
)

// AccessCache keeps access statuses between study sessions. Entries must be invalidated
// whenever enrollment or payment changes.
type AccessCache interface {
	Get(ctx context.Context, courseID, userID string) (study.AccessStatus, bool, error)
	Set(ctx context.Context, courseID, userID string, st study.AccessStatus) error
	Invalidate(ctx context.Context, courseID, userID string) error
}

type Redis struct {
	rdb    *goredis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis connects and pings. The returned cache owns the client.
func NewRedis(addr, password string, ttl time.Duration) (*Redis, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    password,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl, prefix: "examprep:access"}, nil
}

func (r *Redis) key(courseID, userID string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, courseID, userID)
}

func (r *Redis) Get(ctx context.Context, courseID, userID string) (study.AccessStatus, bool, error) {
	raw, err := r.rdb.Get(ctx, r.key(courseID, userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return study.AccessStatus{}, false, nil
	}
	if err != nil {
		return study.AccessStatus{}, false, err
	}
	var st study.AccessStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return study.AccessStatus{}, false, nil
	}
	return st, true, nil
}

func (r *Redis) Set(ctx context.Context, courseID, userID string, st study.AccessStatus) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.key(courseID, userID), raw, r.ttl).Err()
}

func (r *Redis) Invalidate(ctx context.Context, courseID, userID string) error {
	return r.rdb.Del(ctx, r.key(courseID, userID)).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

// Nop never hits; every lookup goes to the source.
type Nop struct{}

func (Nop) Get(context.Context, string, string) (study.AccessStatus, bool, error) {
	return study.AccessStatus{}, false, nil
}
func (Nop) Set(context.Context, string, string, study.AccessStatus) error { return nil }
func (Nop) Invalidate(context.Context, string, string) error              { return nil }

// Source serves access statuses from the cache and everything else from the wrapped source.
// Cache failures are logged and fall through to the source.
type Source struct {
	study.Source
	cache AccessCache
	log   *logger.Logger
}

func NewSource(src study.Source, c AccessCache, log *logger.Logger) *Source {
	if c == nil {
		c = Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Source{Source: src, cache: c, log: log.With("component", "access-cache")}
}

func (s *Source) AccessStatus(ctx context.Context, courseID, userID string) (study.AccessStatus, error) {
	st, ok, err := s.cache.Get(ctx, courseID, userID)
	if err != nil {
		s.log.Warn("access cache read failed", "course", courseID, "user", userID, "error", err)
	}
	if ok {
		return st, nil
	}

	st, err = s.Source.AccessStatus(ctx, courseID, userID)
	if err != nil {
		return study.AccessStatus{}, err
	}
	if err := s.cache.Set(ctx, courseID, userID, st); err != nil {
		s.log.Warn("access cache write failed", "course", courseID, "user", userID, "error", err)
	}
	return st, nil
}

// Enroll invalidates the cached status before and after the write so no stale
// "not enrolled" entry survives it.
func (s *Source) Enroll(ctx context.Context, courseID, userID string) error {
	s.Invalidate(ctx, courseID, userID)
	err := s.Source.Enroll(ctx, courseID, userID)
	s.Invalidate(ctx, courseID, userID)
	return err
}

// Invalidate drops a cached status, e.g. after a payment was recorded.
func (s *Source) Invalidate(ctx context.Context, courseID, userID string) {
	if err := s.cache.Invalidate(ctx, courseID, userID); err != nil {
		s.log.Warn("access cache invalidate failed", "course", courseID, "user", userID, "error", err)
	}
}
