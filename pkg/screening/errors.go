package screening

import (
	"errors"
	"fmt"
)

var (
	ErrPollExhausted  = errors.New("analysis did not finish within the polling budget")
	ErrSuperseded     = errors.New("analysis superseded by a newer submission")
	ErrNoCompletedJob = errors.New("no completed analysis")
	ErrUnknownJob     = errors.New("unknown analysis job")
)

// ValidationError names the first request field that failed local validation.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field == FieldFiles {
		return "at least one resume is required"
	}
	return fmt.Sprintf("job %s is required", e.Field)
}

// SubmissionError is returned when the service did not accept a job.
type SubmissionError struct {
	Message string
	Err     error
}

func (e *SubmissionError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("submit analysis: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("submit analysis: rejected by service: %s", e.Message)
	default:
		return "submit analysis: rejected by service"
	}
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// PollTransportError ends polling after a status query could not be completed.
type PollTransportError struct {
	JobID    string
	Attempts int
	Err      error
}

func (e *PollTransportError) Error() string {
	return fmt.Sprintf("poll analysis %s: attempt %d: %v", e.JobID, e.Attempts, e.Err)
}

func (e *PollTransportError) Unwrap() error { return e.Err }

// PollFailedError carries the service's explanation for a failed analysis.
type PollFailedError struct {
	JobID  string
	Reason string
}

func (e *PollFailedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("analysis %s failed", e.JobID)
	}
	return fmt.Sprintf("analysis %s failed: %s", e.JobID, e.Reason)
}

type ExportError struct {
	JobID string
	Err   error
}

func (e *ExportError) Error() string {
	if e.JobID == "" {
		return fmt.Sprintf("export report: %v", e.Err)
	}
	return fmt.Sprintf("export report for %s: %v", e.JobID, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
