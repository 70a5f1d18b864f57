package metrics

import "sync"

var _ Metrics = (*Mock)(nil)

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	challengesCreated   int
	challengesClosed    map[string]int
	matchesResolved     int
	persistenceFailures int
	commandDurations    map[string][]float64
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		challengesClosed: make(map[string]int),
		commandDurations: make(map[string][]float64),
	}
}

func (m *Mock) IncChallengesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challengesCreated++
}

func (m *Mock) IncChallengesClosed(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challengesClosed[reason]++
}

func (m *Mock) IncMatchesResolved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesResolved++
}

func (m *Mock) IncPersistenceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistenceFailures++
}

func (m *Mock) ObserveCommandDuration(command string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commandDurations[command] = append(m.commandDurations[command], duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ChallengesCreated returns the number of times IncChallengesCreated was called.
func (m *Mock) ChallengesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.challengesCreated
}

// ChallengesClosed returns how often IncChallengesClosed was called with reason.
func (m *Mock) ChallengesClosed(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.challengesClosed[reason]
}

// MatchesResolved returns the number of times IncMatchesResolved was called.
func (m *Mock) MatchesResolved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesResolved
}

// PersistenceFailures returns the number of times IncPersistenceFailures was called.
func (m *Mock) PersistenceFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persistenceFailures
}

// CommandObservations returns how many durations were observed for command.
func (m *Mock) CommandObservations(command string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.commandDurations[command])
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

// StartupTime returns the last value passed to SetStartupTime.
func (m *Mock) StartupTime() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startupTime
}
