package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// JobStatus is the state reported by the service for an analysis job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// StatusResponse is the decoded answer of GET /api/analysis/{id}/status.
type StatusResponse struct {
	Status  JobStatus
	Results []*Candidate
	// Reason carries the service's failure explanation, if any.
	Reason string
}

type statusPayload struct {
	Status  string           `json:"status"`
	Results []map[string]any `json:"results"`
	Error   any              `json:"error"`
	Message string           `json:"message"`
}

// Status fetches the current state of an analysis job.
func (c *Client) Status(ctx context.Context, analysisID string) (*StatusResponse, error) {
	u := c.baseURL + fmt.Sprintf(statusPath, url.PathEscape(analysisID))

	var payload statusPayload
	if err := c.getJSON(ctx, u, &payload); err != nil {
		return nil, fmt.Errorf("get analysis status: %w", err)
	}

	resp := &StatusResponse{
		Status: JobStatus(strings.ToLower(strings.TrimSpace(payload.Status))),
		Reason: failureReason(payload.Error, payload.Message),
	}

	if resp.Status == StatusCompleted {
		resp.Results = c.decodeCandidates(analysisID, payload.Results)
	}

	return resp, nil
}

// decodeCandidates keeps every decodable record once, in service order.
func (c *Client) decodeCandidates(analysisID string, raw []map[string]any) []*Candidate {
	candidates := make([]*Candidate, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for idx, record := range raw {
		candidate, err := DecodeCandidate(record)
		if err != nil {
			c.logger.Warn("skipping undecodable candidate",
				zap.String("job_id", analysisID),
				zap.Int("index", idx),
				zap.Error(err),
			)
			continue
		}

		if _, dup := seen[candidate.ID]; dup {
			c.logger.Warn("skipping duplicate candidate",
				zap.String("job_id", analysisID),
				zap.String("candidate_id", candidate.ID),
			)
			continue
		}

		seen[candidate.ID] = struct{}{}
		candidates = append(candidates, candidate)
	}

	return candidates
}

func failureReason(errField any, message string) string {
	switch v := errField.(type) {
	case nil:
		return strings.TrimSpace(message)
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
		return strings.TrimSpace(message)
	case map[string]any:
		if msg, ok := v["message"].(string); ok && strings.TrimSpace(msg) != "" {
			return strings.TrimSpace(msg)
		}
	}

	data, err := json.Marshal(errField)
	if err != nil {
		return fmt.Sprintf("%v", errField)
	}
	return string(data)
}
