package handlers

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/notifier"
	"github.com/mauv0809/ladder-manager/internal/pubsub"
)

// MatchResolvedEventHandler receives ladder-match-resolved push messages and
// posts the result to the ladder channel.
func MatchResolvedEventHandler(n notifier.Notifier, pubsubClient pubsub.PubSubClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match resolved message", "body", string(bodyBytes))

		rawData, err := decodePushMessage(bodyBytes)
		if err != nil {
			log.Error("Invalid push message", "error", err)
			http.Error(w, "Invalid push message", http.StatusBadRequest)
			return
		}

		var result ladder.MatchResolved
		if err := pubsubClient.ProcessMessage(rawData, &result); err != nil {
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}
		if err := n.SendMatchResult(r.Context(), result, IsDryRunFromContext(r)); err != nil {
			// A non-2xx response makes Pub/Sub redeliver.
			http.Error(w, "Failed to post match result", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}
