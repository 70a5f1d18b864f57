package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/ladder-manager/internal/rating"
)

// DefaultLadder mirrors the rules the ladder shipped with.
var DefaultLadder = LadderConfig{
	StartingRating:        2000,
	BaseRatingChange:      25,
	PredictionDifference:  25,
	EnforceEqualSizeTeams: false,
	Separate1v1MMR:        false,
	LeaderboardSize:       10,
}

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	ladder, err := loadLadder(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: Invalid ladder configuration: %s", err)
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Slack: SlackConfig{
			Token:         getEnv("SLACK_BOT_TOKEN"),
			ChannelID:     getEnv("SLACK_CHANNEL_ID"),
			SigningSecret: getEnv("SLACK_SIGNING_SECRET"),
		},
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		ProjectID: os.Getenv("GCP_PROJECT"),
		PushAuth: PushAuthConfig{
			Audience:       os.Getenv("PUBSUB_PUSH_AUDIENCE"),
			ServiceAccount: os.Getenv("PUBSUB_PUSH_SERVICE_ACCOUNT"),
		},
		Ladder:    ladder,
	}
	log.Info("Configuration loaded",
		"starting_rating", ladder.StartingRating,
		"base_rating_change", ladder.BaseRatingChange,
		"prediction_difference", ladder.PredictionDifference,
		"enforce_equal_size_teams", ladder.EnforceEqualSizeTeams,
		"separate_1v1_mmr", ladder.Separate1v1MMR,
	)
	return cfg
}

// loadLadder reads the optional ladder settings, falling back to DefaultLadder.
func loadLadder(lookup func(string) (string, bool)) (LadderConfig, error) {
	cfg := DefaultLadder

	ints := []struct {
		key string
		dst *int
	}{
		{"STARTING_RATING", &cfg.StartingRating},
		{"BASE_RATING_CHANGE", &cfg.BaseRatingChange},
		{"PREDICTION_DIFFERENCE", &cfg.PredictionDifference},
		{"LEADERBOARD_SIZE", &cfg.LeaderboardSize},
	}
	for _, v := range ints {
		raw, ok := lookup(v.key)
		if !ok || raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return LadderConfig{}, fmt.Errorf("%s: %w", v.key, err)
		}
		*v.dst = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"ENFORCE_EQUAL_SIZE_TEAMS", &cfg.EnforceEqualSizeTeams},
		{"SEPARATE_1V1_MMR", &cfg.Separate1v1MMR},
	}
	for _, v := range bools {
		raw, ok := lookup(v.key)
		if !ok || raw == "" {
			continue
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return LadderConfig{}, fmt.Errorf("%s: %w", v.key, err)
		}
		*v.dst = b
	}

	if err := cfg.Validate(); err != nil {
		return LadderConfig{}, err
	}
	return cfg, nil
}

// Validate reports rules the rating formula cannot work with.
func (c LadderConfig) Validate() error {
	if c.PredictionDifference <= 0 {
		return fmt.Errorf("%w: PREDICTION_DIFFERENCE must be positive, got %d", rating.ErrConfiguration, c.PredictionDifference)
	}
	if c.BaseRatingChange <= 0 {
		return fmt.Errorf("%w: BASE_RATING_CHANGE must be positive, got %d", rating.ErrConfiguration, c.BaseRatingChange)
	}
	return nil
}
