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

type Server struct {
	Ladder         *ladder.Service
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Usage          metrics.UsageStore
	Cfg            config.Config
	Notifier       notifier.Notifier
	Dispatcher     *handlers.Dispatcher
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
