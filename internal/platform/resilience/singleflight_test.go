package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_CollapsesConcurrentFetches(t *testing.T) {
	var g SingleFlight
	var fetches atomic.Int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			value, err, _ := g.Do("league/388.l.27081/standings", func() (any, error) {
				fetches.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "doc", nil
			})
			if err != nil {
				t.Errorf("shared fetch failed: %v", err)
			}
			if value != "doc" {
				t.Errorf("shared fetch value = %v, want doc", value)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := fetches.Load(); got != 1 {
		t.Fatalf("fetch ran %d times, want 1", got)
	}
}

func TestSingleFlight_ErrorsAreSharedThenForgotten(t *testing.T) {
	var g SingleFlight
	wantErr := errors.New("upstream down")

	_, err, shared := g.Do("league/388.l.27081/settings", func() (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) || shared {
		t.Fatalf("first call err=%v shared=%v, want the fetch error unshared", err, shared)
	}

	value, err, _ := g.Do("league/388.l.27081/settings", func() (any, error) {
		return "recovered", nil
	})
	if err != nil || value != "recovered" {
		t.Fatalf("second call = (%v, %v), failed keys must not stay poisoned", value, err)
	}
}
