// Package results keeps the active result set of the last completed analysis
// and the user's shortlist.
package results

import (
	"container/list"
	"errors"
	"sync"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
)

var ErrUnknownCandidate = errors.New("candidate was not part of any completed analysis")

type Toggle int

const (
	Added Toggle = iota + 1
	Removed
)

func (t Toggle) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	results []*analysis.Candidate
	// every candidate seen in a completed result set, by id
	seen map[string]*analysis.Candidate

	order *list.List
	index map[string]*list.Element
}

func NewStore() *Store {
	return &Store{
		seen:  make(map[string]*analysis.Candidate),
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

// SetResults replaces the active result set. Duplicate ids keep the first record.
func (s *Store) SetResults(candidates []*analysis.Candidate) {
	set := make([]*analysis.Candidate, 0, len(candidates))
	ids := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if _, dup := ids[c.ID]; dup {
			continue
		}
		ids[c.ID] = struct{}{}
		set = append(set, c)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = set
	for _, c := range set {
		s.seen[c.ID] = c
	}
	// Shortlisted entries follow the newest record for their id.
	for id, el := range s.index {
		if c, ok := s.seen[id]; ok {
			el.Value = c
		}
	}
}

// Results returns a copy of the active result set in service order.
func (s *Store) Results() []*analysis.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*analysis.Candidate, len(s.results))
	copy(out, s.results)
	return out
}

// Candidate looks id up in the active result set first, then in earlier ones.
func (s *Store) Candidate(id string) (*analysis.Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.results {
		if c.ID == id {
			return c, true
		}
	}
	c, ok := s.seen[id]
	return c, ok
}

// Toggle flips shortlist membership of id.
func (s *Store) Toggle(id string) (Toggle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.index[id]; ok {
		s.order.Remove(el)
		delete(s.index, id)
		return Removed, nil
	}

	c, ok := s.seen[id]
	if !ok {
		return 0, ErrUnknownCandidate
	}
	s.index[id] = s.order.PushBack(c)
	return Added, nil
}

func (s *Store) IsShortlisted(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Shortlisted returns the shortlisted candidates in the order they were added.
func (s *Store) Shortlisted() []*analysis.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*analysis.Candidate, 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*analysis.Candidate))
	}
	return out
}

func (s *Store) ShortlistLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}
