package query

import (
	"strings"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"go.uber.org/zap"
)

// Filter represents a single narrowing step applied to candidates.
type Filter interface {
	Name() string
	IsEnabled() bool
	Apply(in []*analysis.Candidate) ([]*analysis.Candidate, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// StepReport pairs a step with the filter that produced it.
type StepReport struct {
	Name    string
	Enabled bool
	Step    Step
}

// Filters builds the pipeline for s. Search and score filters are ANDed.
func Filters(s State) []Filter {
	return []Filter{
		&searchFilter{term: strings.ToLower(strings.TrimSpace(s.Search))},
		&scoreFilter{bucket: s.Score},
	}
}

// Run executes the filters in order and returns what is left with per-step counts.
func Run(filters []Filter, in []*analysis.Candidate, logger *zap.Logger) ([]*analysis.Candidate, []StepReport) {
	out := make([]*analysis.Candidate, len(in))
	copy(out, in)

	reports := make([]StepReport, 0, len(filters))
	for _, f := range filters {
		if !f.IsEnabled() {
			reports = append(reports, StepReport{Name: f.Name(), Step: Step{Initial: len(out), Left: len(out)}})
			continue
		}

		var step Step
		out, step = f.Apply(out)
		reports = append(reports, StepReport{Name: f.Name(), Enabled: true, Step: step})

		if logger != nil {
			logger.Debug("filter step",
				zap.String("name", f.Name()),
				zap.Int("initial", step.Initial),
				zap.Int("dropped", step.Dropped),
				zap.Int("left", step.Left),
			)
		}
	}

	return out, reports
}

// Explain reports how each filter of s narrows results.
func Explain(results []*analysis.Candidate, s State) []StepReport {
	_, reports := Run(Filters(s), results, nil)
	return reports
}

type searchFilter struct {
	term string
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) IsEnabled() bool { return f.term != "" }

func (f *searchFilter) Apply(in []*analysis.Candidate) ([]*analysis.Candidate, Step) {
	return keep(in, f.matches)
}

// matches is a case-insensitive substring test on name, email or any skill.
func (f *searchFilter) matches(c *analysis.Candidate) bool {
	if strings.Contains(strings.ToLower(c.Name), f.term) || strings.Contains(strings.ToLower(c.Email), f.term) {
		return true
	}
	for _, skill := range c.Skills {
		if strings.Contains(strings.ToLower(skill), f.term) {
			return true
		}
	}
	return false
}

type scoreFilter struct {
	bucket ScoreBucket
}

func (f *scoreFilter) Name() string { return "score" }

func (f *scoreFilter) IsEnabled() bool { return f.bucket != "" && f.bucket != ScoreAll }

func (f *scoreFilter) Apply(in []*analysis.Candidate) ([]*analysis.Candidate, Step) {
	return keep(in, func(c *analysis.Candidate) bool { return f.bucket.Contains(c.MatchScore) })
}

func keep(in []*analysis.Candidate, pred func(*analysis.Candidate) bool) ([]*analysis.Candidate, Step) {
	initial := len(in)
	out := in[:0]
	for _, c := range in {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out, Step{Initial: initial, Dropped: initial - len(out), Left: len(out)}
}
