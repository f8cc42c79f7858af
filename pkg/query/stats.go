package query

import (
	"cmp"
	"math"
	"slices"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
)

const topSkillsLimit = 5

type SkillCount struct {
	Skill string
	Count int
}

// Stats aggregates a full result set.
type Stats struct {
	Total   int
	Buckets map[ScoreBucket]int
	// High is >=90, Good is 80-89, Below is <80.
	High    int
	Good    int
	Below   int
	Average int

	TopSkills []SkillCount
}

// Summarize computes statistics over the unfiltered results.
func Summarize(results []*analysis.Candidate) Stats {
	entries := View(results, nil, State{})

	st := Stats{
		Total:   len(entries),
		Buckets: make(map[ScoreBucket]int, len(Buckets)),
	}
	for _, b := range Buckets {
		st.Buckets[b] = 0
	}

	sum := 0
	skills := map[string]int{}
	for _, e := range entries {
		c := e.Candidate
		sum += c.MatchScore
		st.Buckets[BucketOf(c.MatchScore)]++

		switch {
		case c.MatchScore >= 90:
			st.High++
		case c.MatchScore >= 80:
			st.Good++
		default:
			st.Below++
		}

		for _, s := range c.Skills {
			skills[s]++
		}
	}

	if st.Total > 0 {
		st.Average = int(math.Round(float64(sum) / float64(st.Total)))
	}

	st.TopSkills = make([]SkillCount, 0, len(skills))
	for s, n := range skills {
		st.TopSkills = append(st.TopSkills, SkillCount{Skill: s, Count: n})
	}
	slices.SortFunc(st.TopSkills, func(a, b SkillCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Skill, b.Skill)
	})
	if len(st.TopSkills) > topSkillsLimit {
		st.TopSkills = st.TopSkills[:topSkillsLimit]
	}

	return st
}

// Percent returns n as a rounded share of Total. Zero when there are no candidates.
func (s Stats) Percent(n int) int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(s.Total)))
}

// SkillPercent is the share of candidates listing the skill.
func (s Stats) SkillPercent(sc SkillCount) int {
	return s.Percent(sc.Count)
}
