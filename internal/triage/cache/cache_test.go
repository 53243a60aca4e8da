package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/awmpietro/under5-screening/internal/triage"
)

func sampleResult() triage.Result {
	return triage.Result{
		Tier:     triage.RiskMedium,
		Top:      triage.Ranked{Condition: triage.Malaria, Probability: 100},
		Triggers: []triage.Trigger{},
	}
}

func TestInMemory_GetOrCompute_DeduplicatesConcurrentSameKey(t *testing.T) {
	c := NewInMemory(16)
	var calls atomic.Int32

	fn := func() (triage.Result, error) {
		calls.Add(1)
		time.Sleep(30 * time.Millisecond)
		return sampleResult(), nil
	}

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetOrCompute(context.Background(), "same-key", fn)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected fn to run once, got %d", got)
	}
}

func TestInMemory_GetOrCompute_ErrorIsNotCached(t *testing.T) {
	c := NewInMemory(16)
	var calls atomic.Int32
	ctx := context.Background()

	_, err := c.GetOrCompute(ctx, "k", func() (triage.Result, error) {
		calls.Add(1)
		return triage.Result{}, errors.New("boom")
	})
	if err == nil {
		t.Fatalf("expected error")
	}

	got, err := c.GetOrCompute(ctx, "k", func() (triage.Result, error) {
		calls.Add(1)
		return sampleResult(), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Top.Condition != triage.Malaria {
		t.Fatalf("got %+v", got.Top)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected fn to run twice (error should not be cached), got %d", n)
	}
}

func TestInMemory_GetOrCompute_PanicDoesNotBlockWaiters(t *testing.T) {
	c := NewInMemory(16)
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	first := make(chan error, 1)
	go func() {
		_, err := c.GetOrCompute(context.Background(), "panic-key", func() (triage.Result, error) {
			calls.Add(1)
			close(started)
			<-release
			panic("boom")
		})
		first <- err
	}()
	<-started

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.GetOrCompute(context.Background(), "panic-key", func() (triage.Result, error) {
				calls.Add(1)
				return sampleResult(), nil
			})
			errs <- err
		}()
	}

	// Give the waiters time to find the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	if err := <-first; err == nil {
		t.Fatalf("expected panic converted into error")
	}
	for err := range errs {
		if err == nil {
			t.Fatalf("expected waiters to share the panic error")
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected single in-flight execution, got %d", got)
	}
}

func TestInMemory_GetOrCompute_WaiterHonoursContext(t *testing.T) {
	c := NewInMemory(4)
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go c.GetOrCompute(context.Background(), "slow", func() (triage.Result, error) {
		close(started)
		<-release
		return sampleResult(), nil
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.GetOrCompute(ctx, "slow", func() (triage.Result, error) {
		t.Error("waiter must not compute")
		return triage.Result{}, nil
	}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestInMemory_StopsAdmittingWhenFull(t *testing.T) {
	c := NewInMemory(2)
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if _, err := c.GetOrCompute(ctx, k, func() (triage.Result, error) { return sampleResult(), nil }); err != nil {
			t.Fatal(err)
		}
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	var calls int
	_, _ = c.GetOrCompute(ctx, "c", func() (triage.Result, error) {
		calls++
		return sampleResult(), nil
	})
	if calls != 1 {
		t.Fatalf("key beyond capacity should be recomputed")
	}
}

func TestNoop_AlwaysComputes(t *testing.T) {
	var calls int
	fn := func() (triage.Result, error) { calls++; return sampleResult(), nil }
	for range 3 {
		if _, err := (Noop{}).GetOrCompute(context.Background(), "k", fn); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 3 {
		t.Fatalf("calls = %d", calls)
	}
}
