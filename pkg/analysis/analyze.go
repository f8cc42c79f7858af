package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	fieldJobTitle       = "jobTitle"
	fieldJobDescription = "jobDescription"
	fieldResumes        = "resumes"
)

// Upload is one file part of a submission.
type Upload struct {
	Name     string
	MimeType string
	Open     func() (io.ReadCloser, error)
}

// Submission is the body of POST /api/analyze.
type Submission struct {
	JobTitle       string
	JobDescription string
	Resumes        []Upload
}

// AnalyzeResponse is the answer of POST /api/analyze.
type AnalyzeResponse struct {
	Success    bool   `json:"success"`
	AnalysisID string `json:"analysisId"`
	Message    string `json:"message,omitempty"`
}

// Analyze starts a new analysis job. Every call creates a new job on the service.
func (c *Client) Analyze(ctx context.Context, s *Submission) (*AnalyzeResponse, error) {
	if s == nil || len(s.Resumes) == 0 {
		return nil, errors.New("at least one resume is required")
	}

	fields := []formField{
		{name: fieldJobTitle, value: s.JobTitle},
		{name: fieldJobDescription, value: s.JobDescription},
	}

	var resp AnalyzeResponse
	if err := c.postMultipart(ctx, c.baseURL+analyzePath, fields, fieldResumes, s.Resumes, &resp); err != nil {
		return nil, fmt.Errorf("start analysis: %w", err)
	}

	resp.AnalysisID = strings.TrimSpace(resp.AnalysisID)

	return &resp, nil
}
