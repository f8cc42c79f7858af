// Package screening drives an analysis job from submission to a terminal
// state and hands completed results to the result store.
package screening

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"github.com/Rikcr7/ResuMATE/pkg/intake"
)

type State string

const (
	StateSubmitted State = "submitted"
	StatePolling   State = "polling"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Request field names reported by ValidationError.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldFiles       = "files"
)

// Service is the part of the analysis API the workflow depends on.
// *analysis.Client implements it.
type Service interface {
	Analyze(ctx context.Context, s *analysis.Submission) (*analysis.AnalyzeResponse, error)
	Status(ctx context.Context, analysisID string) (*analysis.StatusResponse, error)
	Export(ctx context.Context, analysisID string) (*analysis.Report, error)
	Candidate(ctx context.Context, id string) (*analysis.Candidate, error)
}

// JobRequest is what gets submitted. Only pending files are uploaded.
type JobRequest struct {
	Title       string
	Description string
	Files       []intake.StagedFile
}

// Validate checks title, description and files in that order.
func (r JobRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Field: FieldTitle}
	}
	if strings.TrimSpace(r.Description) == "" {
		return &ValidationError{Field: FieldDescription}
	}
	if len(r.uploads()) == 0 {
		return &ValidationError{Field: FieldFiles}
	}
	return nil
}

func (r JobRequest) uploads() []analysis.Upload {
	uploads := make([]analysis.Upload, 0, len(r.Files))
	for _, f := range r.Files {
		if f.Status != intake.StatusPending {
			continue
		}
		uploads = append(uploads, f.Upload())
	}
	return uploads
}

// AnalysisJob is a point-in-time snapshot of a submitted job.
type AnalysisJob struct {
	ID          string
	State       State
	Results     []*analysis.Candidate
	Attempts    int
	LastError   error
	SubmittedAt time.Time
	FinishedAt  time.Time
}

func (j AnalysisJob) snapshot() AnalysisJob {
	j.Results = slices.Clone(j.Results)
	return j
}
