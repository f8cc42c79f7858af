package analysis

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/mitchellh/mapstructure"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Candidate is one analyzed resume. Optional fields are nil when the service omitted them.
type Candidate struct {
	ID              string              `json:"id" yaml:"id"`
	Name            string              `json:"name" yaml:"name"`
	Email           string              `json:"email" yaml:"email"`
	Phone           string              `json:"phone" yaml:"phone"`
	Location        *string             `json:"location,omitempty" yaml:"location,omitempty"`
	ExperienceYears int                 `json:"experience" yaml:"experience_years"`
	MatchScore      int                 `json:"matchScore" yaml:"match_score"`
	Skills          []string            `json:"skills" yaml:"skills"`
	Highlights      []string            `json:"highlights" yaml:"highlights"`
	Gaps            []string            `json:"gaps,omitempty" yaml:"gaps,omitempty"`
	Summary         *string             `json:"summary,omitempty" yaml:"summary,omitempty"`
	ScoreBreakdown  map[string]int      `json:"scoreBreakdown,omitempty" yaml:"score_breakdown,omitempty"`
	SkillCategories map[string][]string `json:"skillCategories,omitempty" yaml:"skill_categories,omitempty"`
}

// HasGaps reports whether the analysis found any development areas.
func (c *Candidate) HasGaps() bool {
	return len(c.Gaps) > 0
}

// DecodeCandidate converts one loosely typed record into a Candidate.
// Numbers may arrive as strings ("5 years", "87%"), ids as numbers.
func DecodeCandidate(raw map[string]any) (*Candidate, error) {
	var candidate Candidate

	cfg := &mapstructure.DecoderConfig{
		Result:           &candidate,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       leadingNumberHook,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode candidate: %w", err)
	}

	candidate.normalize()

	if candidate.ID == "" {
		return nil, fmt.Errorf("decode candidate %q: id is missing", candidate.Name)
	}

	return &candidate, nil
}

func (c *Candidate) normalize() {
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Location = blankToNil(c.Location)
	c.Summary = blankToNil(c.Summary)
	c.MatchScore = clampScore(c.MatchScore)
	c.Skills = uniqueStrings(c.Skills)

	if c.ExperienceYears < 0 {
		c.ExperienceYears = 0
	}

	for category, score := range c.ScoreBreakdown {
		c.ScoreBreakdown[category] = clampScore(score)
	}
}

func clampScore(score int) int {
	return min(max(score, MinScore), MaxScore)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func uniqueStrings(values []string) []string {
	if values == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// leadingNumberHook lets integer fields accept strings such as "5 years" or "87.5%".
func leadingNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}

	return leadingNumber(data.(string)), nil
}

func leadingNumber(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		r := rune(s[end])
		if unicode.IsDigit(r) || r == '.' || (end == 0 && (r == '-' || r == '+')) {
			end++
			continue
		}
		break
	}

	if end == 0 {
		return 0
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f))
}
