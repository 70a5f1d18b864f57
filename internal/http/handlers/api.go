package handlers

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/metrics"
	"github.com/mauv0809/ladder-manager/internal/ratings"
)

// LeaderboardHandler returns standings as JSON. Query parameters: partition
// (general or 1v1) and limit (0 or absent for everyone).
func LeaderboardHandler(svc *ladder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partition := ratings.General
		if p := r.URL.Query().Get("partition"); p != "" {
			partition = ratings.Partition(p)
		}
		if partition != ratings.General && partition != ratings.OneVOne {
			http.Error(w, "Unknown partition", http.StatusBadRequest)
			return
		}
		limit := 0
		if l := r.URL.Query().Get("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		respondWithJSON(w, svc.Leaderboard(partition, limit))
	}
}

func ChallengesHandler(svc *ladder.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, svc.Ongoing())
	}
}

// SyncArchiveHandler archives and restores records against the user directory.
func SyncArchiveHandler(svc *ladder.Service, m metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		res, err := svc.SyncArchive(r.Context())
		if err != nil && !ladder.IsWarning(err) {
			log.Error("Failed to sync archive", "error", err)
			http.Error(w, "Failed to sync archive", http.StatusInternalServerError)
			return
		}
		if err != nil {
			m.IncPersistenceFailures()
			log.Warn("Archive synced but not saved", "error", err)
		}
		respondWithJSON(w, res)
	}
}

// UsageHandler returns how often each command was used.
func UsageHandler(usage metrics.UsageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counters, err := usage.GetAll()
		if err != nil {
			log.Error("Failed to read usage counters", "error", err)
			http.Error(w, "Failed to read usage counters", http.StatusInternalServerError)
			return
		}
		respondWithJSON(w, counters)
	}
}
