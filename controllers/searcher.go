package controllers

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// ErrSuperseded is returned by Searcher.Search when a newer query was issued
// before this one finished. Its result was discarded.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Searcher runs search-as-you-type queries. Every call cancels the one still
// in flight and only the most recently issued query's result is applied,
// whatever order the responses arrive in.
type Searcher[T any] struct {
	all    func(ctx context.Context) ([]T, error)
	search func(ctx context.Context, query string) ([]T, error)
	apply  func(query string, results []T)

	limiter *rate.Limiter

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

type SearchOption func(*searchOptions)

type searchOptions struct {
	perSecond float64
}

// WithSearchRate paces outgoing queries to perSecond. Zero leaves them
// unpaced.
func WithSearchRate(perSecond float64) SearchOption {
	return func(o *searchOptions) {
		o.perSecond = perSecond
	}
}

// NewSearcher wires a searcher. An empty query runs all; apply receives each
// result that wins.
func NewSearcher[T any](
	all func(ctx context.Context) ([]T, error),
	search func(ctx context.Context, query string) ([]T, error),
	apply func(query string, results []T),
	opts ...SearchOption,
) *Searcher[T] {
	var o searchOptions
	for _, opt := range opts {
		opt(&o)
	}
	s := &Searcher[T]{all: all, search: search, apply: apply}
	if o.perSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(o.perSecond), 1)
	}
	return s
}

// Search issues query. It returns the results when they were applied, or
// ErrSuperseded when a later call overtook it.
func (s *Searcher[T]) Search(ctx context.Context, query string) ([]T, error) {
	query = strings.TrimSpace(query)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			if s.stale(gen) {
				return nil, ErrSuperseded
			}
			return nil, err
		}
	}

	var (
		results []T
		err     error
	)
	if query == "" {
		results, err = s.all(ctx)
	} else {
		results, err = s.search(ctx, query)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil, ErrSuperseded
	}
	s.cancel = nil
	if err != nil {
		return nil, err
	}
	if s.apply != nil {
		s.apply(query, results)
	}
	return results, nil
}

func (s *Searcher[T]) stale(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.gen
}

// Reload issues the unfiltered query. Being overtaken by a later query is
// not an error.
func (s *Searcher[T]) Reload(ctx context.Context) error {
	_, err := s.Search(ctx, "")
	if errors.Is(err, ErrSuperseded) {
		return nil
	}
	return err
}

// Cancel abandons whatever query is in flight.
func (s *Searcher[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
