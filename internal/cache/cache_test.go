package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestGetCachesUntilInvalidated(t *testing.T) {
	var calls atomic.Int64
	r := NewResource(func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"a"}, nil
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v, err := r.Get(ctx)
		if err != nil || len(v) != 1 {
			t.Fatalf("get %d: %v %v", i, v, err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("cached gets should not refetch, calls=%d", n)
	}

	r.Invalidate()
	if _, err := r.Get(ctx); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("invalidate should force one refetch, calls=%d", n)
	}
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	r := NewResource(func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	})

	const n = 8
	var wg sync.WaitGroup
	results := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := r.Get(context.Background())
			if err != nil {
				t.Errorf("get: %v", err)
			}
			results[i] = v
		}(i)
	}
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("concurrent gets issued %d fetches", got)
	}
	for i, v := range results {
		if v != 42 {
			t.Fatalf("caller %d got %d", i, v)
		}
	}
}

func TestFetchErrorKeepsPriorData(t *testing.T) {
	var fail atomic.Bool
	r := NewResource(func(ctx context.Context) (string, error) {
		if fail.Load() {
			return "", errors.New("boom")
		}
		return "good", nil
	})
	ctx := context.Background()

	if v, err := r.Get(ctx); err != nil || v != "good" {
		t.Fatalf("warm up: %q %v", v, err)
	}

	fail.Store(true)
	r.Invalidate()
	v, err := r.Get(ctx)
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if v != "good" {
		t.Fatalf("stale value dropped: %q", v)
	}
	if got, ok := r.Peek(); !ok || got != "good" {
		t.Fatalf("peek after failure: %q %v", got, ok)
	}

	fail.Store(false)
	if v, err := r.Get(ctx); err != nil || v != "good" {
		t.Fatalf("recovery: %q %v", v, err)
	}
	if r.Err() != nil {
		t.Fatalf("error should clear after success: %v", r.Err())
	}
}
