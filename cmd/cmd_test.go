package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"github.com/Rikcr7/ResuMATE/pkg/query"
	"github.com/Rikcr7/ResuMATE/pkg/results"
	"gopkg.in/yaml.v3"
)

func TestInitialQuery(t *testing.T) {
	state, err := initialQuery(&QueryConfig{Search: "go", Score: "80-89", Sort: "name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != (query.State{Search: "go", Score: query.Score80, Sort: query.SortName}) {
		t.Fatalf("unexpected state: %+v", state)
	}

	if _, err := initialQuery(&QueryConfig{Score: "50+"}); err == nil {
		t.Fatal("expected error for unknown score filter")
	}

	if state, _ := initialQuery(nil); state != query.DefaultState() {
		t.Fatalf("nil config must give the default state: %+v", state)
	}
}

func TestJobDescriptionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.md")
	if err := os.WriteFile(path, []byte("Build services"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := jobDescription(&JobConfig{Description: "inline", DescriptionFile: path})
	if err != nil || got != "Build services" {
		t.Fatalf("expected file to win, got %q %v", got, err)
	}

	got, err = jobDescription(&JobConfig{Description: "inline"})
	if err != nil || got != "inline" {
		t.Fatalf("expected inline description, got %q %v", got, err)
	}
}

func TestRedactedHidesToken(t *testing.T) {
	config := &Config{Service: &ServiceConfig{URL: "http://svc", Token: "secret"}}

	if got := redacted(config); got.Service.Token != "***" {
		t.Fatalf("token must be redacted, got %q", got.Service.Token)
	}
	if config.Service.Token != "secret" {
		t.Fatal("original config must not be modified")
	}
}

func TestSaveReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	path, err := saveReport(&analysis.Report{
		Body:     io.NopCloser(strings.NewReader("%PDF")),
		Filename: "analysis-report-1.pdf",
	}, dir)
	if err != nil {
		t.Fatalf("save report: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "%PDF" {
		t.Fatalf("unexpected report file: %q %v", data, err)
	}
	if filepath.Base(path) != "analysis-report-1.pdf" {
		t.Fatalf("unexpected report path: %s", path)
	}
}

func TestDumpShortlist(t *testing.T) {
	store := results.NewStore()
	store.SetResults([]*analysis.Candidate{{ID: "c1", Name: "Ann", MatchScore: 91}, {ID: "c2", Name: "Bob"}})
	if _, err := store.Toggle("c1"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	filename, err := dumpShortlist(store)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	t.Cleanup(func() { os.Remove(filename) })

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}

	var dump shortlistDump
	if err := yaml.Unmarshal(data, &dump); err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	if dump.Count != 1 || len(dump.Candidates) != 1 || dump.Candidates[0].MatchScore != 91 {
		t.Fatalf("unexpected dump: %s", data)
	}
}

func TestPrintViewMarksShortlisted(t *testing.T) {
	var buf bytes.Buffer
	printView(&buf, []query.Entry{
		{Candidate: &analysis.Candidate{ID: "c1", Name: "Ann", MatchScore: 91, Skills: []string{"Go", "SQL", "K8s", "Rust"}}, Shortlisted: true},
		{Candidate: &analysis.Candidate{ID: "c2", Name: "Bob", MatchScore: 70}},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[1], shortlistMark) || strings.HasPrefix(lines[2], shortlistMark) {
		t.Fatalf("unexpected shortlist marks:\n%s", buf.String())
	}
	if !strings.Contains(lines[1], "Go, SQL, K8s +1") {
		t.Fatalf("expected truncated skills:\n%s", buf.String())
	}

	buf.Reset()
	printView(&buf, nil)
	if !strings.Contains(buf.String(), "No candidates") {
		t.Fatalf("unexpected empty output: %q", buf.String())
	}
}
