package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersNormaliseLabels(t *testing.T) {
	before := testutil.ToFloat64(jobOutcomesTotal.WithLabelValues("completed"))

	IncJobOutcome(" Completed ")
	IncJobOutcome("completed")

	if got := testutil.ToFloat64(jobOutcomesTotal.WithLabelValues("completed")); got != before+2 {
		t.Fatalf("expected %v completed outcomes, got %v", before+2, got)
	}
}

func TestWriteTextfile(t *testing.T) {
	MustRegister()
	MustRegister()

	IncJobSubmitted()
	IncStaleDiscarded()

	path := filepath.Join(t.TempDir(), "resumate.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}

	for _, name := range []string{"resumate_jobs_submitted_total", "resumate_stale_outcomes_discarded_total"} {
		if !strings.Contains(string(data), name) {
			t.Fatalf("expected %s in textfile output", name)
		}
	}
}
