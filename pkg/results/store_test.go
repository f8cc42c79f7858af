package results

import (
	"errors"
	"sync"
	"testing"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
)

func candidates(ids ...string) []*analysis.Candidate {
	out := make([]*analysis.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, &analysis.Candidate{ID: id, Name: "name-" + id})
	}
	return out
}

func shortlistIDs(s *Store) []string {
	var ids []string
	for _, c := range s.Shortlisted() {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestToggleRoundTrip(t *testing.T) {
	s := NewStore()
	s.SetResults(candidates("c1", "c2"))

	got, err := s.Toggle("c1")
	if err != nil || got != Added {
		t.Fatalf("expected added, got %v %v", got, err)
	}
	if !s.IsShortlisted("c1") {
		t.Fatal("expected c1 shortlisted")
	}

	got, err = s.Toggle("c1")
	if err != nil || got != Removed {
		t.Fatalf("expected removed, got %v %v", got, err)
	}
	if s.IsShortlisted("c1") || s.ShortlistLen() != 0 {
		t.Fatal("expected empty shortlist after two toggles")
	}
}

func TestToggleUnknownCandidate(t *testing.T) {
	s := NewStore()
	s.SetResults(candidates("c1"))

	if _, err := s.Toggle("ghost"); !errors.Is(err, ErrUnknownCandidate) {
		t.Fatalf("expected ErrUnknownCandidate, got %v", err)
	}
	if s.ShortlistLen() != 0 {
		t.Fatal("unknown id must not be shortlisted")
	}
}

func TestShortlistInsertionOrder(t *testing.T) {
	s := NewStore()
	s.SetResults(candidates("c1", "c2", "c3"))

	for _, id := range []string{"c3", "c1", "c2"} {
		if _, err := s.Toggle(id); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	_, _ = s.Toggle("c1")
	_, _ = s.Toggle("c1")

	got := shortlistIDs(s)
	want := []string{"c3", "c2", "c1"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestShortlistSurvivesNewResults(t *testing.T) {
	s := NewStore()
	s.SetResults(candidates("c1", "c2"))
	_, _ = s.Toggle("c1")

	s.SetResults(candidates("c9"))

	if !s.IsShortlisted("c1") {
		t.Fatal("shortlist must keep earlier candidates")
	}
	if ids := shortlistIDs(s); len(ids) != 1 || ids[0] != "c1" {
		t.Fatalf("unexpected shortlist: %v", ids)
	}
	if _, ok := s.Candidate("c2"); !ok {
		t.Fatal("previously seen candidates stay resolvable")
	}
	if res := s.Results(); len(res) != 1 || res[0].ID != "c9" {
		t.Fatalf("unexpected active results: %v", res)
	}

	if _, err := s.Toggle("c2"); err != nil {
		t.Fatalf("earlier candidate must be shortlistable: %v", err)
	}
}

func TestSetResultsDeduplicates(t *testing.T) {
	s := NewStore()

	first := &analysis.Candidate{ID: "c1", Name: "First"}
	s.SetResults([]*analysis.Candidate{first, {ID: "c1", Name: "Second"}, nil, {ID: "c2"}})

	res := s.Results()
	if len(res) != 2 || res[0] != first {
		t.Fatalf("expected first record kept, got %v", res)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	s := NewStore()
	s.SetResults(candidates("c1", "c2", "c3", "c4"))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := []string{"c1", "c2", "c3", "c4"}[i%4]
			for range 100 {
				_, _ = s.Toggle(id)
				_ = s.Shortlisted()
				_ = s.Results()
			}
		}(i)
	}
	wg.Wait()

	// each id was toggled an even number of times
	if n := s.ShortlistLen(); n != 0 {
		t.Fatalf("expected empty shortlist, got %d", n)
	}
}
