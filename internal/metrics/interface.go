package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncChallengesCreated()
	IncChallengesClosed(reason string)
	IncMatchesResolved()
	IncPersistenceFailures()
	ObserveCommandDuration(command string, duration float64)
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

// UsageStore keeps durable counters of how often each command is used.
type UsageStore interface {
	Increment(key string)
	GetAll() (map[string]int, error)
}
