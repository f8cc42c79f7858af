package analysis

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rikcr7/ResuMATE/internal/utils"
)

// Report is a downloadable analysis report. The caller must close Body.
type Report struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
}

// Export requests the report of a completed analysis job.
func (c *Client) Export(ctx context.Context, analysisID string) (*Report, error) {
	u := c.baseURL + fmt.Sprintf(exportPath, url.PathEscape(analysisID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)

	resp, err := c.request(req)
	if err != nil {
		return nil, fmt.Errorf("export analysis: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("export analysis: %w", &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   utils.TruncateForLog(string(data), maxErrorBody),
		})
	}

	body, err := bodyReader(resp)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("export analysis: %w", err)
	}

	return &Report{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    reportFilename(resp.Header.Get("Content-Disposition"), time.Now()),
	}, nil
}

func reportFilename(disposition string, now time.Time) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			name := filepath.Base(strings.TrimSpace(params["filename"]))
			if name != "" && name != "." && name != string(filepath.Separator) {
				return name
			}
		}
	}

	return fmt.Sprintf("analysis-report-%d.pdf", now.UnixMilli())
}
