package screening

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rikcr7/ResuMATE/internal/logger"
	"github.com/Rikcr7/ResuMATE/internal/metrics"
	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"go.uber.org/zap"
)

type Submitter struct {
	svc    Service
	logger *zap.Logger
}

func NewSubmitter(svc Service, log *zap.Logger) *Submitter {
	return &Submitter{svc: svc, logger: logger.OrNop(log)}
}

// Submit validates req and sends it in a single request. Nothing reaches the
// network when validation fails.
func (s *Submitter) Submit(ctx context.Context, req JobRequest) (AnalysisJob, error) {
	if err := req.Validate(); err != nil {
		return AnalysisJob{}, err
	}

	uploads := req.uploads()
	resp, err := s.svc.Analyze(ctx, &analysis.Submission{
		JobTitle:       strings.TrimSpace(req.Title),
		JobDescription: strings.TrimSpace(req.Description),
		Resumes:        uploads,
	})
	if err != nil {
		return AnalysisJob{}, &SubmissionError{Err: err}
	}
	if !resp.Success {
		return AnalysisJob{}, &SubmissionError{Message: resp.Message}
	}
	if resp.AnalysisID == "" {
		return AnalysisJob{}, &SubmissionError{Err: errors.New("service returned an empty analysis id")}
	}

	metrics.IncJobSubmitted()
	s.logger.Info("analysis submitted",
		zap.String(logger.FieldJobID, resp.AnalysisID),
		zap.Int("resumes", len(uploads)),
	)

	return AnalysisJob{
		ID:          resp.AnalysisID,
		State:       StateSubmitted,
		SubmittedAt: time.Now(),
	}, nil
}
