package screening

import (
	"context"
	"fmt"
	"time"

	"github.com/Rikcr7/ResuMATE/internal/logger"
	"github.com/Rikcr7/ResuMATE/internal/metrics"
	"github.com/Rikcr7/ResuMATE/internal/utils"
	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"go.uber.org/zap"
)

const (
	DefaultPollInterval     = 2 * time.Second
	DefaultMaxBackoff       = 30 * time.Second
	DefaultTransientRetries = 3
	DefaultMaxAttempts      = 900
)

var waitFor = utils.WaitFor

// PollPolicy bounds how a job is polled. TransientRetries of zero makes any
// failed status query terminal.
type PollPolicy struct {
	Interval         time.Duration
	MaxBackoff       time.Duration
	TransientRetries int
	MaxAttempts      int
}

func DefaultPollPolicy() PollPolicy {
	return PollPolicy{
		Interval:         DefaultPollInterval,
		MaxBackoff:       DefaultMaxBackoff,
		TransientRetries: DefaultTransientRetries,
		MaxAttempts:      DefaultMaxAttempts,
	}
}

func (p PollPolicy) withDefaults() PollPolicy {
	if p.Interval <= 0 {
		p.Interval = DefaultPollInterval
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = DefaultMaxBackoff
	}
	if p.MaxBackoff < p.Interval {
		p.MaxBackoff = p.Interval
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.TransientRetries < 0 {
		p.TransientRetries = 0
	}
	return p
}

// Backoff is the wait before retry n (zero based): Interval·2^n, capped by MaxBackoff.
func (p PollPolicy) Backoff(n int) time.Duration {
	d := p.Interval
	for range n {
		d *= 2
		if d >= p.MaxBackoff {
			return p.MaxBackoff
		}
	}
	return min(d, p.MaxBackoff)
}

// Outcome is the terminal result of polling one job.
type Outcome struct {
	State    State
	Results  []*analysis.Candidate
	Attempts int
	Err      error
}

// Poller queries job status until the job reaches a terminal state.
type Poller struct {
	svc    Service
	policy PollPolicy
	logger *zap.Logger
	wait   func(context.Context, time.Duration) error
}

func NewPoller(svc Service, policy PollPolicy, log *zap.Logger) *Poller {
	return &Poller{
		svc:    svc,
		policy: policy.withDefaults(),
		logger: logger.OrNop(log),
		wait:   waitFor,
	}
}

func (p *Poller) Policy() PollPolicy {
	return p.policy
}

// Run blocks until jobID completes, fails, exhausts the policy or ctx ends.
// Status queries are strictly sequential.
func (p *Poller) Run(ctx context.Context, jobID string) Outcome {
	log := logger.WithJob(p.logger, jobID)

	delay := p.policy.Interval
	failures := 0

	for attempt := 1; ; attempt++ {
		if err := p.wait(ctx, delay); err != nil {
			return Outcome{State: StateFailed, Attempts: attempt - 1, Err: err}
		}

		resp, err := p.svc.Status(ctx, jobID)
		if err != nil {
			if ctx.Err() != nil {
				return Outcome{State: StateFailed, Attempts: attempt, Err: ctx.Err()}
			}

			if !analysis.IsTransient(err) || failures >= p.policy.TransientRetries {
				metrics.IncPoll("error")
				log.Warn("status query failed", zap.Int(logger.FieldAttempt, attempt), zap.Error(err))
				return Outcome{
					State:    StateFailed,
					Attempts: attempt,
					Err:      &PollTransportError{JobID: jobID, Attempts: attempt, Err: err},
				}
			}

			delay = p.policy.Backoff(failures)
			failures++
			metrics.IncPoll("transient_error")
			log.Info("status query failed, retrying",
				zap.Int(logger.FieldAttempt, attempt),
				zap.Int("retry", failures),
				zap.Duration("backoff", delay),
				zap.Error(err),
			)
		} else {
			failures = 0
			delay = p.policy.Interval

			switch resp.Status {
			case analysis.StatusCompleted:
				metrics.IncPoll("completed")
				log.Info("analysis completed",
					zap.Int(logger.FieldAttempt, attempt),
					zap.Int("candidates", len(resp.Results)),
				)
				return Outcome{State: StateCompleted, Results: resp.Results, Attempts: attempt}
			case analysis.StatusFailed:
				metrics.IncPoll("failed")
				log.Warn("analysis failed", zap.Int(logger.FieldAttempt, attempt), zap.String("reason", resp.Reason))
				return Outcome{
					State:    StateFailed,
					Attempts: attempt,
					Err:      &PollFailedError{JobID: jobID, Reason: resp.Reason},
				}
			default:
				metrics.IncPoll("pending")
				log.Debug("analysis in progress",
					zap.Int(logger.FieldAttempt, attempt),
					zap.String(logger.FieldState, string(resp.Status)),
				)
			}
		}

		if attempt >= p.policy.MaxAttempts {
			log.Warn("polling budget exhausted", zap.Int(logger.FieldAttempt, attempt))
			return Outcome{
				State:    StateFailed,
				Attempts: attempt,
				Err:      fmt.Errorf("%w: %d status queries", ErrPollExhausted, attempt),
			}
		}
	}
}
