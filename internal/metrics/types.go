package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	ChallengesCreated   prometheus.Counter
	ChallengesClosed    *prometheus.CounterVec
	MatchesResolved     prometheus.Counter
	PersistenceFailures prometheus.Counter
	CommandDuration     *prometheus.HistogramVec
	SlackNotifSent      prometheus.Counter
	SlackNotifFailed    prometheus.Counter
	StartupTimeSeconds  prometheus.Gauge
}
