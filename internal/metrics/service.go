package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ChallengesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_challenges_created_total",
			Help: "The total number of challenges issued.",
		}),
		ChallengesClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ladder_challenges_closed_total",
			Help: "The total number of challenges closed without a result, by reason.",
		}, []string{"reason"}),
		MatchesResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_matches_resolved_total",
			Help: "The total number of reported matches.",
		}),
		PersistenceFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_persistence_failures_total",
			Help: "The total number of rating changes that could not be saved.",
		}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ladder_command_duration_seconds",
			Help:    "The duration of slash command handling.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"command"}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ladder_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ladder_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ChallengesCreated,
		s.ChallengesClosed,
		s.MatchesResolved,
		s.PersistenceFailures,
		s.CommandDuration,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncChallengesCreated() {
	s.ChallengesCreated.Inc()
}

func (s *Service) IncChallengesClosed(reason string) {
	s.ChallengesClosed.WithLabelValues(reason).Inc()
}

func (s *Service) IncMatchesResolved() {
	s.MatchesResolved.Inc()
}

func (s *Service) IncPersistenceFailures() {
	s.PersistenceFailures.Inc()
}

func (s *Service) ObserveCommandDuration(command string, duration float64) {
	s.CommandDuration.WithLabelValues(command).Observe(duration)
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
