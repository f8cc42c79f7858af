package query

import (
	"cmp"
	"slices"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Membership answers whether a candidate is shortlisted.
type Membership interface {
	IsShortlisted(id string) bool
}

type Entry struct {
	Candidate   *analysis.Candidate
	Shortlisted bool
}

// View filters then sorts results for s. The input slice is not modified.
func View(results []*analysis.Candidate, shortlist Membership, s State) []Entry {
	filtered, _ := Run(Filters(s), results, nil)
	Sort(filtered, s.Sort)

	entries := make([]Entry, 0, len(filtered))
	for _, c := range filtered {
		entries = append(entries, Entry{
			Candidate:   c,
			Shortlisted: shortlist != nil && shortlist.IsShortlisted(c.ID),
		})
	}
	return entries
}

// Sort orders candidates in place. Unknown keys leave the order untouched.
func Sort(candidates []*analysis.Candidate, key SortKey) {
	switch key {
	case SortScore:
		slices.SortStableFunc(candidates, func(a, b *analysis.Candidate) int {
			return cmp.Compare(b.MatchScore, a.MatchScore)
		})
	case SortExperience:
		slices.SortStableFunc(candidates, func(a, b *analysis.Candidate) int {
			return cmp.Compare(b.ExperienceYears, a.ExperienceYears)
		})
	case SortName:
		// Collators keep internal buffers and are not safe to share.
		col := collate.New(language.English)
		slices.SortStableFunc(candidates, func(a, b *analysis.Candidate) int {
			return col.CompareString(a.Name, b.Name)
		})
	}
}
