package uow_test

import (
	"sync"
	"testing"

	"github.com/jsamuelsen11/go-uow/internal/uow"
)

func TestOrderGenerator_StartsAboveZero(t *testing.T) {
	t.Parallel()

	g := uow.NewOrderGenerator()
	if got := g.Next(); got != 1 {
		t.Errorf("first Next() = %d, want 1", got)
	}
}

func TestOrderGenerator_StrictlyIncreasingSequential(t *testing.T) {
	t.Parallel()

	g := uow.NewOrderGenerator()
	prev := g.Next()
	for range 1000 {
		next := g.Next()
		if next <= prev {
			t.Fatalf("Next() = %d after %d, want strictly increasing", next, prev)
		}
		prev = next
	}
}

func TestOrderGenerator_UniqueUnderConcurrency(t *testing.T) {
	t.Parallel()

	g := uow.NewOrderGenerator()
	const (
		workers = 8
		perWork = 500
	)

	results := make([][]int64, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]int64, 0, perWork)
			for range perWork {
				local = append(local, g.Next())
			}
			results[w] = local
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool, workers*perWork)
	for _, local := range results {
		for i, v := range local {
			if v <= 0 {
				t.Fatalf("Next() = %d, want > 0", v)
			}
			if seen[v] {
				t.Fatalf("Next() returned %d twice", v)
			}
			seen[v] = true
			if i > 0 && v <= local[i-1] {
				t.Fatalf("per-goroutine sequence inverted: %d after %d", v, local[i-1])
			}
		}
	}
	if len(seen) != workers*perWork {
		t.Errorf("got %d unique orders, want %d", len(seen), workers*perWork)
	}
}

func TestNextEventOrder_Increasing(t *testing.T) {
	t.Parallel()

	a := uow.NextEventOrder()
	b := uow.NextEventOrder()
	if b <= a {
		t.Errorf("NextEventOrder() = %d after %d, want strictly increasing", b, a)
	}
}
