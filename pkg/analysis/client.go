// Package analysis is the HTTP/JSON client of the resume analysis service.
package analysis

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Rikcr7/ResuMATE/internal/logger"
)

const (
	userAgent      = "ResuMATE/screening-client"
	defaultTimeout = 30 * time.Second

	analyzePath   = "/api/analyze"
	statusPath    = "/api/analysis/%s/status"
	exportPath    = "/api/analysis/%s/export"
	candidatePath = "/api/candidates/%s"
)

// Config configures a Client. Only BaseURL is required.
type Config struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration
	// CacheSize bounds the candidate detail cache; zero disables it.
	CacheSize int
	CacheTTL  time.Duration
}

// Client talks to the analysis service.
type Client struct {
	baseURL    string
	token      string
	logger     *zap.Logger
	cache      *candidateCache
	HTTPClient *http.Client
	UserAgent  string
}

func New(cfg Config, log *zap.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("analysis service url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = userAgent
	}

	return &Client{
		baseURL: base,
		token:   strings.TrimSpace(cfg.Token),
		logger:  logger.OrNop(log),
		cache:   newCandidateCache(cfg.CacheSize, cfg.CacheTTL),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		UserAgent: ua,
	}, nil
}

// BaseURL returns the normalised service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
