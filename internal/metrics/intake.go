package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(filesStagedTotal) }

var filesStagedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "resumate_files_staged_total",
		Help: "Files offered for staging, labeled by result ('accepted' or the rejection reason).",
	},
	[]string{"result"},
)

func IncFileStaged(result string) {
	filesStagedTotal.WithLabelValues(norm(result)).Inc()
}
