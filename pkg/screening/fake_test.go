package screening

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Rikcr7/ResuMATE/pkg/analysis"
	"github.com/Rikcr7/ResuMATE/pkg/intake"
)

type reply struct {
	resp *analysis.StatusResponse
	err  error
}

func pending() reply { return reply{resp: &analysis.StatusResponse{Status: analysis.StatusPending}} }

func completed(ids ...string) reply {
	out := make([]*analysis.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, &analysis.Candidate{ID: id, Name: "name-" + id, MatchScore: 80})
	}
	return reply{resp: &analysis.StatusResponse{Status: analysis.StatusCompleted, Results: out}}
}

func failed(reason string) reply {
	return reply{resp: &analysis.StatusResponse{Status: analysis.StatusFailed, Reason: reason}}
}

func transportErr(code int) reply {
	return reply{err: &analysis.StatusError{Code: code, Status: "status"}}
}

// fakeService answers status queries from per-job queues. An exhausted queue
// keeps reporting pending.
type fakeService struct {
	mu sync.Mutex

	ids         []string
	analyzeResp *analysis.AnalyzeResponse
	analyzeErr  error
	submissions []*analysis.Submission

	replies     map[string][]reply
	statusHook  func(ctx context.Context, id string) (reply, bool)
	statusCalls map[string]int

	exportErr error
}

func newFakeService(ids ...string) *fakeService {
	return &fakeService{
		ids:         ids,
		replies:     make(map[string][]reply),
		statusCalls: make(map[string]int),
	}
}

func (f *fakeService) queue(id string, replies ...reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[id] = append(f.replies[id], replies...)
}

func (f *fakeService) Analyze(_ context.Context, s *analysis.Submission) (*analysis.AnalyzeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.submissions = append(f.submissions, s)
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	if f.analyzeResp != nil {
		return f.analyzeResp, nil
	}

	id := f.ids[0]
	f.ids = f.ids[1:]
	return &analysis.AnalyzeResponse{Success: true, AnalysisID: id}, nil
}

func (f *fakeService) Status(ctx context.Context, id string) (*analysis.StatusResponse, error) {
	f.mu.Lock()
	f.statusCalls[id]++
	hook := f.statusHook
	f.mu.Unlock()

	if hook != nil {
		if r, ok := hook(ctx, id); ok {
			return r.resp, r.err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	q := f.replies[id]
	if len(q) == 0 {
		return pending().resp, nil
	}
	f.replies[id] = q[1:]
	return q[0].resp, q[0].err
}

func (f *fakeService) Export(_ context.Context, id string) (*analysis.Report, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return &analysis.Report{
		Body:        io.NopCloser(strings.NewReader("report " + id)),
		ContentType: "application/pdf",
		Filename:    id + ".pdf",
	}, nil
}

func (f *fakeService) Candidate(_ context.Context, id string) (*analysis.Candidate, error) {
	return &analysis.Candidate{ID: id, Name: "detail-" + id}, nil
}

func (f *fakeService) calls(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls[id]
}

func (f *fakeService) submitted() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submissions)
}

// noWait replaces the poll delay with a recorder for the duration of the test.
func noWait(t *testing.T) func() []time.Duration {
	t.Helper()

	var (
		mu     sync.Mutex
		delays []time.Duration
	)

	original := waitFor
	waitFor = func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		delays = append(delays, d)
		mu.Unlock()
		return ctx.Err()
	}
	t.Cleanup(func() { waitFor = original })

	return func() []time.Duration {
		mu.Lock()
		defer mu.Unlock()
		return append([]time.Duration(nil), delays...)
	}
}

func validRequest(t *testing.T) JobRequest {
	t.Helper()

	stager := intake.NewStager(intake.Limits{}, nil)
	if _, err := stager.Stage(intake.FromBytes("ann.pdf", "application/pdf", []byte("%PDF"))); err != nil {
		t.Fatalf("stage: %v", err)
	}

	return JobRequest{
		Title:       "Go Engineer",
		Description: "Build services",
		Files:       stager.Files(),
	}
}
