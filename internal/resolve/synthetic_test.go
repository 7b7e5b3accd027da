package resolve

import (
	"sync"
	"testing"
)

func TestSyntheticIDs_StartAtBase(t *testing.T) {
	t.Parallel()

	ids := NewSyntheticIDs()
	if got := ids.Assign("first"); got != SyntheticIDBase {
		t.Fatalf("first ID = %d, want %d", got, SyntheticIDBase)
	}
	if got := ids.Assign("second"); got != SyntheticIDBase+1 {
		t.Fatalf("second ID = %d, want %d", got, SyntheticIDBase+1)
	}
}

func TestSyntheticIDs_Lookup(t *testing.T) {
	t.Parallel()

	ids := NewSyntheticIDs()
	id := ids.Assign("wireless mouse")

	name, ok := ids.Lookup(id)
	if !ok || name != "wireless mouse" {
		t.Fatalf("Lookup(%d) = %q, %v", id, name, ok)
	}
	if _, ok := ids.Lookup(id + 100); ok {
		t.Fatalf("Lookup of unassigned ID succeeded")
	}
}

func TestSyntheticIDs_DistinctUnderConcurrency(t *testing.T) {
	t.Parallel()

	ids := NewSyntheticIDs()

	const workers = 16
	const perWorker = 50
	results := make(chan int64, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				results <- ids.Assign("item")
			}
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]struct{})
	for id := range results {
		if id < SyntheticIDBase {
			t.Fatalf("ID %d below base %d", id, SyntheticIDBase)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID %d", id)
		}
		seen[id] = struct{}{}
	}
	if len(seen) != workers*perWorker {
		t.Fatalf("got %d distinct IDs, want %d", len(seen), workers*perWorker)
	}
}
