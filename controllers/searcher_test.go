package controllers_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashrajoria/storefront/controllers"
)

type appliedLog struct {
	mu      sync.Mutex
	results [][]string
}

func (a *appliedLog) apply(_ string, r []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.results = append(a.results, r)
}

func (a *appliedLog) all() [][]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([][]string(nil), a.results...)
}

func allProducts(context.Context) ([]string, error) {
	return []string{"iPhone 15", "Galaxy S24"}, nil
}

func TestSearcher_LastIssuedWins(t *testing.T) {
	for _, honorsCancel := range []bool{false, true} {
		name := "ignores cancellation"
		if honorsCancel {
			name = "honors cancellation"
		}
		t.Run(name, func(t *testing.T) {
			started := make(chan struct{})
			release := make(chan struct{})
			search := func(ctx context.Context, q string) ([]string, error) {
				if q == "sam" {
					close(started)
					if honorsCancel {
						select {
						case <-release:
						case <-ctx.Done():
							return nil, ctx.Err()
						}
					} else {
						<-release
					}
					return []string{"Galaxy S24"}, nil
				}
				return []string{"iPhone 15"}, nil
			}

			var log appliedLog
			s := controllers.NewSearcher(allProducts, search, log.apply)

			samDone := make(chan error, 1)
			go func() {
				_, err := s.Search(context.Background(), "sam")
				samDone <- err
			}()
			<-started

			res, err := s.Search(context.Background(), "iphone")
			require.NoError(t, err)
			assert.Equal(t, []string{"iPhone 15"}, res)

			close(release)
			assert.ErrorIs(t, <-samDone, controllers.ErrSuperseded)
			assert.Equal(t, [][]string{{"iPhone 15"}}, log.all())
		})
	}
}

func TestSearcher_EmptyQueryFallsBackToAll(t *testing.T) {
	var log appliedLog
	s := controllers.NewSearcher(allProducts, func(context.Context, string) ([]string, error) {
		t.Fatal("filtered search must not run for an empty query")
		return nil, nil
	}, log.apply)

	res, err := s.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestSearcher_ErrorIsNotApplied(t *testing.T) {
	var log appliedLog
	boom := errors.New("boom")
	s := controllers.NewSearcher(allProducts, func(context.Context, string) ([]string, error) {
		return nil, boom
	}, log.apply)

	_, err := s.Search(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, log.all())
}

func TestSearcher_CancelSupersedes(t *testing.T) {
	started := make(chan struct{})
	s := controllers.NewSearcher(allProducts, func(ctx context.Context, _ string) ([]string, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), "slow")
		done <- err
	}()
	<-started
	s.Cancel()
	assert.ErrorIs(t, <-done, controllers.ErrSuperseded)
}

func TestSearcher_RatePacesQueries(t *testing.T) {
	s := controllers.NewSearcher(allProducts, func(_ context.Context, q string) ([]string, error) {
		return []string{q}, nil
	}, nil, controllers.WithSearchRate(20))

	start := time.Now()
	for _, q := range []string{"a", "b", "c"} {
		_, err := s.Search(context.Background(), q)
		require.NoError(t, err)
	}
	// burst of one, then 50ms per query
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestSearcher_ReloadOvertakenBySearch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	slowAll := func(context.Context) ([]string, error) {
		close(started)
		<-release
		return []string{"iPhone 15", "Galaxy S24"}, nil
	}
	var log appliedLog
	s := controllers.NewSearcher(slowAll, func(_ context.Context, q string) ([]string, error) {
		return []string{"Galaxy S24"}, nil
	}, log.apply)

	done := make(chan error, 1)
	go func() { done <- s.Reload(context.Background()) }()
	<-started

	_, err := s.Search(context.Background(), "galaxy")
	require.NoError(t, err)
	close(release)

	assert.NoError(t, <-done)
	assert.Equal(t, [][]string{{"Galaxy S24"}}, log.all())
}
