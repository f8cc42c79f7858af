package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"github.com/Rikcr7/ResuMATE/pkg/query"
	"github.com/Rikcr7/ResuMATE/pkg/results"
	"github.com/Rikcr7/ResuMATE/pkg/screening"

	"github.com/manifoldco/promptui"
	"go.uber.org/zap"
)

const (
	PromptShowResults     = "Show results"
	PromptSearch          = "Search"
	PromptScoreFilter     = "Filter by score"
	PromptSort            = "Sort"
	PromptToggle          = "Toggle shortlist"
	PromptShowShortlist   = "Show shortlist"
	PromptStatistics      = "Statistics"
	PromptDetails         = "Candidate details"
	PromptExport          = "Export report"
	PromptShortlistToFile = "Dump shortlist to file"
	PromptExit            = "Exit"
	PromptBack            = "back"
)

var errExit = errors.New("exit requested")

var actions = []string{
	PromptShowResults, PromptSearch, PromptScoreFilter, PromptSort, PromptToggle,
	PromptShowShortlist, PromptStatistics, PromptDetails, PromptExport,
	PromptShortlistToFile, PromptExit,
}

type browser struct {
	ctx       context.Context
	session   *screening.Session
	store     *results.Store
	state     query.State
	exportDir string
	logger    *zap.Logger
	out       io.Writer
}

func (b *browser) loop() error {
	for {
		prompt := promptui.Select{
			Label: b.label(),
			Items: actions,
			Size:  len(actions),
		}

		_, action, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return errExit
			}
			return err
		}

		if err := b.handle(action); err != nil {
			if errors.Is(err, errExit) || errors.Is(err, promptui.ErrInterrupt) {
				return errExit
			}
			return err
		}
	}
}

func (b *browser) label() string {
	return fmt.Sprintf("search=%q score=%s sort=%s shortlisted=%d",
		b.state.Search, b.state.Score, b.state.Sort, b.store.ShortlistLen())
}

func (b *browser) handle(action string) error {
	switch action {
	case PromptShowResults:
		printView(b.out, b.view())
		return nil
	case PromptSearch:
		p := promptui.Prompt{Label: "Search name, email or skill", Default: b.state.Search, AllowEdit: true}
		term, err := p.Run()
		if err != nil {
			return err
		}
		b.state.Search = strings.TrimSpace(term)
		printView(b.out, b.view())
		return nil
	case PromptScoreFilter:
		items := append([]query.ScoreBucket{query.ScoreAll}, query.Buckets...)
		_, choice, err := (&promptui.Select{Label: "Score range", Items: items}).Run()
		if err != nil {
			return err
		}
		if b.state.Score, err = query.ParseScoreBucket(choice); err != nil {
			return err
		}
		printView(b.out, b.view())
		return nil
	case PromptSort:
		items := []query.SortKey{query.SortScore, query.SortName, query.SortExperience}
		_, choice, err := (&promptui.Select{Label: "Sort by", Items: items}).Run()
		if err != nil {
			return err
		}
		if b.state.Sort, err = query.ParseSortKey(choice); err != nil {
			return err
		}
		printView(b.out, b.view())
		return nil
	case PromptToggle:
		return b.toggle()
	case PromptShowShortlist:
		b.showShortlist()
		return nil
	case PromptStatistics:
		printStats(b.out, query.Summarize(b.store.Results()))
		return nil
	case PromptDetails:
		return b.details()
	case PromptExport:
		return b.export()
	case PromptShortlistToFile:
		filename, err := dumpShortlist(b.store)
		if err != nil {
			return fmt.Errorf("dump shortlist to file: %w", err)
		}
		b.logger.Info("dumping shortlist to file", zap.String("filename", filename), zap.Int("count", b.store.ShortlistLen()))
		return nil
	case PromptExit:
		b.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func (b *browser) view() []query.Entry {
	return query.View(b.store.Results(), b.store, b.state)
}

// pick asks the user for one candidate of the current view.
func (b *browser) pick(label string) (*analysis.Candidate, error) {
	entries := b.view()
	if len(entries) == 0 {
		fmt.Fprintln(b.out, "No candidates match the current query.")
		return nil, nil
	}

	items := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		mark := " "
		if e.Shortlisted {
			mark = shortlistMark
		}
		items = append(items, fmt.Sprintf("%s %s %s (%d)", mark, e.Candidate.ID, e.Candidate.Name, e.Candidate.MatchScore))
	}
	items = append(items, PromptBack)

	idx, _, err := (&promptui.Select{Label: label, Items: items, Size: 15}).Run()
	if err != nil {
		return nil, err
	}
	if idx == len(entries) {
		return nil, nil
	}
	return entries[idx].Candidate, nil
}

func (b *browser) toggle() error {
	c, err := b.pick("Choose a candidate to (un)shortlist and press ENTER")
	if err != nil || c == nil {
		return err
	}

	result, err := b.store.Toggle(c.ID)
	if err != nil {
		return fmt.Errorf("toggle %s: %w", c.ID, err)
	}

	b.logger.Info("shortlist updated",
		zap.String("candidate_id", c.ID),
		zap.String("result", result.String()),
		zap.Int("shortlisted", b.store.ShortlistLen()),
	)
	return nil
}

func (b *browser) showShortlist() {
	shortlisted := b.store.Shortlisted()
	if len(shortlisted) == 0 {
		fmt.Fprintln(b.out, "The shortlist is empty.")
		return
	}

	entries := make([]query.Entry, 0, len(shortlisted))
	for _, c := range shortlisted {
		entries = append(entries, query.Entry{Candidate: c, Shortlisted: true})
	}
	printView(b.out, entries)
}

func (b *browser) details() error {
	c, err := b.pick("Choose a candidate and press ENTER")
	if err != nil || c == nil {
		return err
	}

	full, err := b.session.Candidate(b.ctx, c.ID)
	if err != nil {
		// the analysis record is still worth showing
		b.logger.Warn("fetching candidate details failed", zap.String("candidate_id", c.ID), zap.Error(err))
		full = c
	}

	printCandidate(b.out, full, b.store.IsShortlisted(c.ID))
	return nil
}

func (b *browser) export() error {
	report, err := b.session.Export(b.ctx)
	if err != nil {
		b.logger.Error("export failed", zap.Error(err))
		return nil
	}

	path, err := saveReport(report, b.exportDir)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	b.logger.Info("report exported", zap.String("filename", path))
	return nil
}
