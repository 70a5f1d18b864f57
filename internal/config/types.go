package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Slack     SlackConfig
	Turso     TursoConfig
	ProjectID string
	PushAuth  PushAuthConfig
	Ladder    LadderConfig
}

// PushAuthConfig identifies authenticated Pub/Sub push requests. Pushes are
// refused when Audience is empty.
type PushAuthConfig struct {
	Audience       string
	ServiceAccount string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// LadderConfig holds the rating and challenge rules. It is passed by value
// and never mutated after Load.
type LadderConfig struct {
	StartingRating        int
	BaseRatingChange      int
	PredictionDifference  int
	EnforceEqualSizeTeams bool
	Separate1v1MMR        bool
	LeaderboardSize       int
}
