package conversation

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jawellis/internship-finder/internal/search"
)

func TestMergePreferences_SetOnceNeverCleared(t *testing.T) {
	t.Parallel()

	s := NewStore()

	got := s.MergePreferences("c1", Preferences{Field: "fashion design", Location: "Paris"})
	if got.Field != "fashion design" || got.Location != "Paris" {
		t.Fatalf("initial merge = %+v", got)
	}

	// Empty fields must not clear existing values.
	got = s.MergePreferences("c1", Preferences{Paid: Paid})
	if got.Field != "fashion design" || got.Location != "Paris" || got.Paid != Paid {
		t.Errorf("merge with empty fields cleared state: %+v", got)
	}

	// An explicit new extraction overwrites.
	got = s.MergePreferences("c1", Preferences{Location: "Berlin"})
	if got.Location != "Berlin" || got.Field != "fashion design" {
		t.Errorf("explicit overwrite failed: %+v", got)
	}
}

func TestPreferences_UnknownConversation(t *testing.T) {
	t.Parallel()

	s := NewStore()
	if got := s.Preferences("nope"); got != (Preferences{}) {
		t.Errorf("Preferences(unknown) = %+v, want zero", got)
	}
	if got := s.Results("nope"); got != nil {
		t.Errorf("Results(unknown) = %v, want nil", got)
	}
}

func TestSetResults_CapsAndCopies(t *testing.T) {
	t.Parallel()

	s := NewStore()
	recs := []search.Internship{
		{Title: "A"}, {Title: "B"}, {Title: "C"}, {Title: "D"},
	}
	s.SetResults("c1", recs)

	got := s.Results("c1")
	if len(got) != 3 {
		t.Fatalf("len(Results) = %d, want cap of 3", len(got))
	}

	// Mutating the caller's slice must not reach the store.
	recs[0].Title = "mutated"
	if s.Results("c1")[0].Title != "A" {
		t.Error("store aliased the caller's slice")
	}

	// Mutating a returned snapshot must not reach the store.
	got[1].Title = "mutated"
	if s.Results("c1")[1].Title != "B" {
		t.Error("returned snapshot aliases store state")
	}
}

func TestResults_IdempotentRead(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.SetResults("c1", []search.Internship{{Title: "A"}, {Title: "B"}})

	first := s.Results("c1")
	second := s.Results("c1")
	if len(first) != len(second) {
		t.Fatalf("reads differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("record %d drifted between reads: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSetResults_OverwritesPrevious(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.SetResults("c1", []search.Internship{{Title: "old"}})
	s.SetResults("c1", []search.Internship{{Title: "new1"}, {Title: "new2"}})

	got := s.Results("c1")
	if len(got) != 2 || got[0].Title != "new1" {
		t.Errorf("Results = %+v, want overwritten list", got)
	}
}

func TestStore_ConversationsAreIsolated(t *testing.T) {
	t.Parallel()

	s := NewStore()
	s.MergePreferences("alice", Preferences{Field: "finance"})
	s.MergePreferences("bob", Preferences{Field: "design"})
	s.SetResults("alice", []search.Internship{{Title: "quant intern"}})

	if got := s.Preferences("bob").Field; got != "design" {
		t.Errorf("bob's field = %q", got)
	}
	if got := s.Results("bob"); len(got) != 0 {
		t.Errorf("bob sees alice's results: %v", got)
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := NewStore()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := fmt.Sprintf("conv-%d", i%4)
			for j := range 100 {
				s.MergePreferences(id, Preferences{Field: fmt.Sprintf("field-%d", j)})
				s.SetResults(id, []search.Internship{{Title: "t"}})
				_ = s.Results(id)
				_ = s.Preferences(id)
			}
		}()
	}
	wg.Wait()

	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := NewContext(context.Background(), "conv-42")
	if got := FromContext(ctx); got != "conv-42" {
		t.Errorf("FromContext = %q", got)
	}
	if got := FromContext(context.Background()); got != DefaultID {
		t.Errorf("FromContext without ID = %q, want %q", got, DefaultID)
	}
}
