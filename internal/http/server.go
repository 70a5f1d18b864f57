package http

import (
	"net/http"

	"github.com/mauv0809/ladder-manager/internal/config"
	"github.com/mauv0809/ladder-manager/internal/http/handlers"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/metrics"
	"github.com/mauv0809/ladder-manager/internal/notifier"
	"github.com/mauv0809/ladder-manager/internal/pubsub"
)

func NewServer(svc *ladder.Service, metricsSvc metrics.Metrics, metricsHandler http.Handler, usage metrics.UsageStore, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Ladder:         svc,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Usage:          usage,
		Cfg:            cfg,
		Notifier:       notifier,
		Dispatcher: &handlers.Dispatcher{
			Ladder:   svc,
			Notifier: notifier,
			Metrics:  metricsSvc,
			PubSub:   pubsub,
		},
		Router: http.NewServeMux(),
		pubsub: pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	verify := slackVerifyMiddleware(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(handlers.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(handlers.LeaderboardHandler(s.Ladder), paramsMiddleware))
	s.Router.Handle("/challenges", Chain(handlers.ChallengesHandler(s.Ladder), paramsMiddleware))
	s.Router.Handle("/sync-archive", Chain(handlers.SyncArchiveHandler(s.Ladder, s.Metrics), paramsMiddleware))
	s.Router.Handle("/usage", Chain(handlers.UsageHandler(s.Usage), paramsMiddleware))
	s.Router.Handle("/slack/command/ladder", Chain(handlers.LadderCommandHandler(s.Dispatcher, s.Usage), paramsMiddleware, verify))
	s.Router.Handle("/pubsub/match-resolved", Chain(handlers.MatchResolvedEventHandler(s.Notifier, s.pubsub), paramsMiddleware, pushAuthMiddleware(s.Cfg.PushAuth)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
