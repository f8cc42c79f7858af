package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"github.com/Rikcr7/ResuMATE/pkg/query"
)

const shortlistMark = "★"

func printView(w io.Writer, entries []query.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No candidates match the current query.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tSCORE\tEXPERIENCE\tEMAIL\tTOP SKILLS")
	for _, e := range entries {
		c := e.Candidate
		mark := ""
		if e.Shortlisted {
			mark = shortlistMark
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%dy\t%s\t%s\n",
			mark, c.ID, c.Name, c.MatchScore, c.ExperienceYears, c.Email, topSkills(c.Skills, 3),
		)
	}
	tw.Flush()
}

func printStats(w io.Writer, st query.Stats) {
	fmt.Fprintf(w, "\nCandidates: %d  Average score: %d\n", st.Total, st.Average)
	fmt.Fprintf(w, "  excellent (90+): %d (%d%%)\n", st.High, st.Percent(st.High))
	fmt.Fprintf(w, "  good (80-89):    %d (%d%%)\n", st.Good, st.Percent(st.Good))
	fmt.Fprintf(w, "  below 80:        %d (%d%%)\n", st.Below, st.Percent(st.Below))

	fmt.Fprintln(w, "Score distribution:")
	for _, b := range query.Buckets {
		fmt.Fprintf(w, "  %-6s %d\n", b, st.Buckets[b])
	}

	if len(st.TopSkills) == 0 {
		return
	}
	fmt.Fprintln(w, "Top skills:")
	for _, s := range st.TopSkills {
		fmt.Fprintf(w, "  %-20s %d (%d%%)\n", s.Skill, s.Count, st.SkillPercent(s))
	}
}

func printCandidate(w io.Writer, c *analysis.Candidate, shortlisted bool) {
	fmt.Fprintf(w, "\n%s (%s)", c.Name, c.ID)
	if shortlisted {
		fmt.Fprintf(w, " %s shortlisted", shortlistMark)
	}
	fmt.Fprintf(w, "\n  match score: %d  experience: %d years\n", c.MatchScore, c.ExperienceYears)

	if c.Email != "" {
		fmt.Fprintf(w, "  email: %s\n", c.Email)
	}
	if c.Phone != "" {
		fmt.Fprintf(w, "  phone: %s\n", c.Phone)
	}
	if c.Location != nil {
		fmt.Fprintf(w, "  location: %s\n", *c.Location)
	}
	if c.Summary != nil {
		fmt.Fprintf(w, "  summary: %s\n", *c.Summary)
	}
	if len(c.ScoreBreakdown) > 0 {
		fmt.Fprintln(w, "  score breakdown:")
		for _, k := range sortedKeys(c.ScoreBreakdown) {
			fmt.Fprintf(w, "    %-16s %d\n", k, c.ScoreBreakdown[k])
		}
	}
	if len(c.Skills) > 0 {
		fmt.Fprintf(w, "  skills: %s\n", strings.Join(c.Skills, ", "))
	}
	if len(c.SkillCategories) > 0 {
		for _, k := range sortedKeys(c.SkillCategories) {
			fmt.Fprintf(w, "    %s: %s\n", k, strings.Join(c.SkillCategories[k], ", "))
		}
	}
	printList(w, "highlights", c.Highlights)
	if c.HasGaps() {
		printList(w, "gaps", c.Gaps)
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "    - %s\n", it)
	}
}

func topSkills(skills []string, n int) string {
	if len(skills) <= n {
		return strings.Join(skills, ", ")
	}
	return fmt.Sprintf("%s +%d", strings.Join(skills[:n], ", "), len(skills)-n)
}
