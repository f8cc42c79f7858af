package screening

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Rikcr7/ResuMATE/internal/logger"
	"github.com/Rikcr7/ResuMATE/internal/metrics"
	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"github.com/Rikcr7/ResuMATE/pkg/results"
	"go.uber.org/zap"
)

// Session owns the active job. At most one job is active; outcomes of any
// other job are discarded. Lock order is Session.mu, then the store's lock.
type Session struct {
	svc       Service
	submitter *Submitter
	poller    *Poller
	store     *results.Store
	logger    *zap.Logger

	base   context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	active *run
	jobs   map[string]*run
}

type run struct {
	job    AnalysisJob
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func (r *run) finish() {
	r.once.Do(func() { close(r.done) })
}

func NewSession(svc Service, store *results.Store, policy PollPolicy, log *zap.Logger) *Session {
	log = logger.OrNop(log)
	base, cancel := context.WithCancel(context.Background())

	return &Session{
		svc:       svc,
		submitter: NewSubmitter(svc, log),
		poller:    NewPoller(svc, policy, log),
		store:     store,
		logger:    log,
		base:      base,
		cancel:    cancel,
		jobs:      make(map[string]*run),
	}
}

func (s *Session) Store() *results.Store {
	return s.store
}

// Submit sends req and starts polling it in the background. A job that is
// still polling is cancelled and marked failed with ErrSuperseded.
func (s *Session) Submit(ctx context.Context, req JobRequest) (AnalysisJob, error) {
	job, err := s.submitter.Submit(ctx, req)
	if err != nil {
		return AnalysisJob{}, err
	}

	pollCtx, cancel := context.WithCancel(s.base)
	job.State = StatePolling
	r := &run{job: job, cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if prev := s.active; prev != nil && !prev.job.State.Terminal() {
		s.supersede(prev)
	}
	s.active = r
	s.jobs[job.ID] = r
	snapshot := r.job.snapshot()
	s.mu.Unlock()

	go s.poll(pollCtx, r)

	return snapshot, nil
}

// supersede must be called with s.mu held.
func (s *Session) supersede(r *run) {
	r.cancel()
	r.job.State = StateFailed
	r.job.LastError = ErrSuperseded
	r.job.FinishedAt = time.Now()
	r.finish()

	metrics.IncJobOutcome(string(StateFailed))
	logger.WithJob(s.logger, r.job.ID).Info("analysis superseded")
}

func (s *Session) poll(ctx context.Context, r *run) {
	defer r.cancel()
	s.apply(r, s.poller.Run(ctx, r.job.ID))
}

// apply records a terminal outcome if r is still the active job.
func (s *Session) apply(r *run, out Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer r.finish()

	log := logger.WithJob(s.logger, r.job.ID)

	if s.active != r || r.job.State.Terminal() {
		metrics.IncStaleDiscarded()
		log.Info("discarding outcome of inactive analysis", zap.String(logger.FieldState, string(out.State)))
		return
	}

	r.job.State = out.State
	r.job.Attempts = out.Attempts
	r.job.FinishedAt = time.Now()

	if out.State == StateCompleted {
		r.job.Results = out.Results
		s.store.SetResults(out.Results)
	} else {
		r.job.LastError = out.Err
	}

	metrics.IncJobOutcome(string(out.State))
	log.Info("analysis finished",
		zap.String(logger.FieldState, string(out.State)),
		zap.Int(logger.FieldAttempt, out.Attempts),
		zap.Duration("elapsed", r.job.FinishedAt.Sub(r.job.SubmittedAt)),
	)
}

// Wait blocks until jobID is terminal or ctx ends.
func (s *Session) Wait(ctx context.Context, jobID string) (AnalysisJob, error) {
	s.mu.Lock()
	r, ok := s.jobs[jobID]
	s.mu.Unlock()
	if !ok {
		return AnalysisJob{}, fmt.Errorf("%w: %s", ErrUnknownJob, jobID)
	}

	select {
	case <-r.done:
	case <-ctx.Done():
		return s.snapshot(r), ctx.Err()
	}

	return s.snapshot(r), nil
}

func (s *Session) snapshot(r *run) AnalysisJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.job.snapshot()
}

// Active returns the current job, if any.
func (s *Session) Active() (AnalysisJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return AnalysisJob{}, false
	}
	return s.active.job.snapshot(), true
}

func (s *Session) Job(id string) (AnalysisJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.jobs[id]
	if !ok {
		return AnalysisJob{}, false
	}
	return r.job.snapshot(), true
}

// Export downloads the report of the active job. The job must be completed.
// The caller closes the report body.
func (s *Session) Export(ctx context.Context) (*analysis.Report, error) {
	s.mu.Lock()
	var id string
	ready := s.active != nil && s.active.job.State == StateCompleted
	if ready {
		id = s.active.job.ID
	}
	s.mu.Unlock()

	if !ready {
		return nil, &ExportError{Err: ErrNoCompletedJob}
	}

	report, err := s.svc.Export(ctx, id)
	if err != nil {
		return nil, &ExportError{JobID: id, Err: err}
	}

	logger.WithJob(s.logger, id).Info("report exported", zap.String("filename", report.Filename))
	return report, nil
}

// Candidate fetches the full record of a candidate.
func (s *Session) Candidate(ctx context.Context, id string) (*analysis.Candidate, error) {
	c, err := s.svc.Candidate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get candidate %s: %w", id, err)
	}
	return c, nil
}

// Close cancels every running poll.
func (s *Session) Close() {
	s.cancel()
}
