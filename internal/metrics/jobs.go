package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(jobsSubmittedTotal, jobOutcomesTotal, pollRequestsTotal, staleOutcomesTotal)
}

var (
	jobsSubmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resumate_jobs_submitted_total",
		Help: "Analysis jobs accepted by the analysis service.",
	})

	jobOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumate_job_outcomes_total",
			Help: "Analysis jobs that reached a terminal state, labeled by state.",
		},
		[]string{"state"}, // 'completed', 'failed'
	)

	pollRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resumate_poll_requests_total",
			Help: "Status queries issued while polling, labeled by result.",
		},
		[]string{"result"},
	)

	staleOutcomesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resumate_stale_outcomes_discarded_total",
		Help: "Poll outcomes dropped because their job was superseded.",
	})
)

func IncJobSubmitted() { jobsSubmittedTotal.Inc() }

func IncJobOutcome(state string) {
	jobOutcomesTotal.WithLabelValues(norm(state)).Inc()
}

func IncPoll(result string) {
	pollRequestsTotal.WithLabelValues(norm(result)).Inc()
}

func IncStaleDiscarded() { staleOutcomesTotal.Inc() }
