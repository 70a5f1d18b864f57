package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/ladder-manager/internal/config"
	"github.com/mauv0809/ladder-manager/internal/database"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/rating"
	"github.com/mauv0809/ladder-manager/internal/ratings"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	cfg := map[string]string{
		"DB_NAME":           "ladder.db",
		"SEED_MATCHES":      "200",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
	}
	for key := range cfg {
		if value, ok := os.LookupEnv(key); ok {
			cfg[key] = value
		}
	}
	return cfg
}

// main plays random matches between dummy players through the ladder so a
// development database has a populated leaderboard.
func main() {
	log.Info("Starting ladder seeder...")
	cfg := loadConfig()

	numMatches, err := strconv.Atoi(cfg["SEED_MATCHES"])
	if err != nil || numMatches < 1 {
		log.Fatalf("Invalid SEED_MATCHES value %q", cfg["SEED_MATCHES"])
	}

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	ctx := context.Background()
	store := ratings.NewStore(ratings.NewRepository(db))
	svc, err := ladder.NewService(config.DefaultLadder, store, nil, nil)
	if err != nil {
		log.Fatalf("Failed to create ladder: %s", err)
	}
	if err := svc.Restore(ctx); err != nil {
		log.Fatalf("Failed to load ratings: %s", err)
	}

	players := make([]string, 8)
	for i := range players {
		players[i] = fmt.Sprintf("USEED%d", i+1)
	}

	log.Info("Preparing to play dummy matches...", "total", numMatches, "players", len(players))
	startTime := time.Now()
	for i := 0; i < numMatches; i++ {
		a, b := rand.Intn(len(players)), rand.Intn(len(players)-1)
		if b >= a {
			b++
		}
		challenger, target := players[a], players[b]

		if _, err := svc.Challenge(ctx, challenger, target); err != nil {
			log.Fatalf("Failed to create challenge: %s", err)
		}
		if _, err := svc.AcceptChallenge(ctx, target); err != nil {
			log.Fatalf("Failed to accept challenge: %s", err)
		}
		sets := []rating.Set{{Outcome: rating.Win, Count: rand.Intn(3)}, {Outcome: rating.Loss, Count: rand.Intn(3)}}
		sets = nonEmpty(sets)
		if _, err := svc.Report(ctx, challenger, sets); err != nil {
			// A warning still means the match counted; the next report retries the save.
			if !ladder.IsWarning(err) {
				log.Fatalf("Failed to report match: %s", err)
			}
			log.Warn("Match not saved", "error", err)
		}
		if (i+1)%50 == 0 {
			log.Info("Played batch", "completed", i+1, "total", numMatches)
		}
	}

	duration := time.Since(startTime)
	log.Info("Successfully seeded the ladder.", "duration", duration)
	for _, s := range svc.Leaderboard(ratings.General, 3) {
		log.Info("Top player", "player", s.PlayerID, "rating", s.Rating, "wins", s.Wins, "losses", s.Losses)
	}
}

// nonEmpty drops zero-count sets, always leaving at least one win.
func nonEmpty(sets []rating.Set) []rating.Set {
	var out []rating.Set
	for _, s := range sets {
		if s.Count > 0 {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = []rating.Set{{Outcome: rating.Win, Count: 1}}
	}
	return out
}
