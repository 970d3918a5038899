package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "gosppt/internal/errors"
)

const (
	statusLabel = "status"
	modeLabel   = "mode"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sppt_runs_total",
		Help: "The number of engine runs by outcome.",
	}, []string{
		statusLabel,
	})

	runLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sppt_run_duration_seconds",
		Help:    "The time to complete one engine run.",
		Buckets: []float64{.001, .01, .05, .1, .5, 1, 5, 10, 30, 60},
	}, []string{
		modeLabel,
	})

	resampledEvents = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sppt_resampled_events",
		Help:    "The number of events resampled per variable.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 10),
	})
)

func runMode(usePercentages bool) string {
	if usePercentages {
		return "percentages"
	}
	return "counts"
}

func instrumentRun(usePercentages bool, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = apperrors.GetCode(err)
	}
	runsTotal.With(prometheus.Labels{statusLabel: status}).Inc()
	runLatency.With(prometheus.Labels{modeLabel: runMode(usePercentages)}).Observe(time.Since(start).Seconds())
}

func instrumentEvents(n int) {
	resampledEvents.Observe(float64(n))
}
