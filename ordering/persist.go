package ordering

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"examprep/logger"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrOrderPartiallySaved means some buckets were written and others were not; the
	// caller should re-fetch the canonical order instead of trusting local state.
	ErrOrderPartiallySaved = errors.New("order partially saved")
	ErrOrderNotSaved       = errors.New("order not saved")
)

// Updater issues one batched update for a bucket.
type Updater interface {
	UpdateOrder(ctx context.Context, b Bucket) error
}

// SaveError reports the per-bucket outcome of a failed Persist.
type SaveError struct {
	Saved  []ItemType
	Failed map[ItemType]error
}

func (e *SaveError) kind() error {
	if len(e.Saved) == 0 {
		return ErrOrderNotSaved
	}
	return ErrOrderPartiallySaved
}

func (e *SaveError) Error() string {
	failed := make([]string, 0, len(e.Failed))
	for t := range e.Failed {
		failed = append(failed, string(t))
	}
	sort.Strings(failed)

	var cause error
	for _, t := range failed {
		cause = multierr.Append(cause, fmt.Errorf("%s: %w", t, e.Failed[ItemType(t)]))
	}
	return fmt.Sprintf("%v (failed: %s): %v", e.kind(), strings.Join(failed, ", "), cause)
}

// Unwrap exposes the sentinel and every bucket cause to errors.Is and errors.As.
func (e *SaveError) Unwrap() []error {
	out := []error{e.kind()}
	for _, err := range e.Failed {
		out = append(out, err)
	}
	return out
}

// Persister fans bucket updates out concurrently. A failing bucket never cancels its
// siblings: every request runs to completion so the result can say exactly what was saved.
type Persister struct {
	updater Updater
	limit   int
	log     *logger.Logger
}

type PersisterOption func(*Persister)

// WithConcurrency caps in-flight bucket requests; zero or less means one per bucket.
func WithConcurrency(n int) PersisterOption {
	return func(p *Persister) { p.limit = n }
}

func NewPersister(u Updater, log *logger.Logger, opts ...PersisterOption) *Persister {
	if log == nil {
		log = logger.Nop()
	}
	p := &Persister{updater: u, log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Persist writes every non-empty bucket and succeeds only when all of them succeed.
func (p *Persister) Persist(ctx context.Context, buckets []Bucket) error {
	work := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		if len(b.Entries) > 0 {
			work = append(work, b)
		}
	}
	if len(work) == 0 {
		return nil
	}

	results := make([]error, len(work))
	var g errgroup.Group
	if p.limit > 0 {
		g.SetLimit(p.limit)
	}
	for i, b := range work {
		i, b := i, b
		g.Go(func() error {
			if err := p.updater.UpdateOrder(ctx, b); err != nil {
				results[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()

	se := &SaveError{Failed: make(map[ItemType]error)}
	for i, b := range work {
		if results[i] != nil {
			se.Failed[b.Type] = multierr.Append(se.Failed[b.Type], results[i])
			continue
		}
		se.Saved = append(se.Saved, b.Type)
	}
	if len(se.Failed) == 0 {
		p.log.Debug("order saved", "buckets", len(work))
		return nil
	}

	p.log.Warn("order save failed", "saved", len(se.Saved), "failed", len(se.Failed), "error", se.Error())
	return se
}
