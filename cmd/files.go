package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"github.com/Rikcr7/ResuMATE/pkg/results"
	"gopkg.in/yaml.v3"
)

// saveReport writes the report body into dir and returns the file path.
func saveReport(report *analysis.Report, dir string) (string, error) {
	defer report.Body.Close()

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, report.Filename)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(file, report.Body); err != nil {
		file.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	return path, nil
}

type shortlistDump struct {
	Count      int                   `yaml:"count"`
	Candidates []*analysis.Candidate `yaml:"candidates"`
}

// dumpShortlist writes the shortlist to a temporary YAML file.
func dumpShortlist(store *results.Store) (string, error) {
	file, err := os.CreateTemp("", "shortlist_*.yaml")
	if err != nil {
		return "", err
	}
	defer file.Close()

	shortlisted := store.Shortlisted()

	enc := yaml.NewEncoder(file)
	enc.SetIndent(2)
	if err := enc.Encode(shortlistDump{Count: len(shortlisted), Candidates: shortlisted}); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	return file.Name(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
