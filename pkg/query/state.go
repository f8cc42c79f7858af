// Package query derives filtered, sorted views and statistics from a result set.
// Everything here is pure: nothing is stored between calls.
package query

import (
	"fmt"
	"strings"
)

type ScoreBucket string

const (
	ScoreAll   ScoreBucket = "all"
	Score90    ScoreBucket = "90+"
	Score80    ScoreBucket = "80-89"
	Score70    ScoreBucket = "70-79"
	ScoreBelow ScoreBucket = "<70"
)

// Buckets lists the concrete score ranges from best to worst.
var Buckets = []ScoreBucket{Score90, Score80, Score70, ScoreBelow}

type SortKey string

const (
	SortScore      SortKey = "score"
	SortName       SortKey = "name"
	SortExperience SortKey = "experience"
)

// State is the user's current query. The zero value matches everything and
// keeps service order.
type State struct {
	Search string
	Score  ScoreBucket
	Sort   SortKey
}

// DefaultState is what a fresh browse session starts with.
func DefaultState() State {
	return State{Score: ScoreAll, Sort: SortScore}
}

func ParseScoreBucket(s string) (ScoreBucket, error) {
	b := ScoreBucket(strings.TrimSpace(s))
	switch b {
	case ScoreAll, Score90, Score80, Score70, ScoreBelow:
		return b, nil
	case "":
		return ScoreAll, nil
	}
	return "", fmt.Errorf("unknown score filter %q (want one of all, 90+, 80-89, 70-79, <70)", s)
}

func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case SortScore, SortName, SortExperience:
		return k, nil
	case "":
		return SortScore, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want score, name or experience)", s)
}

// BucketOf returns the range a score falls into.
func BucketOf(score int) ScoreBucket {
	switch {
	case score >= 90:
		return Score90
	case score >= 80:
		return Score80
	case score >= 70:
		return Score70
	default:
		return ScoreBelow
	}
}

// Contains reports whether score satisfies the bucket. Empty and "all" match everything.
func (b ScoreBucket) Contains(score int) bool {
	if b == "" || b == ScoreAll {
		return true
	}
	return BucketOf(score) == b
}
