package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mauv0809/ladder-manager/internal/config"
	"github.com/mauv0809/ladder-manager/internal/database"
	"github.com/mauv0809/ladder-manager/internal/ladder"
	"github.com/mauv0809/ladder-manager/internal/metrics"
	"github.com/mauv0809/ladder-manager/internal/notifier"
	"github.com/mauv0809/ladder-manager/internal/pubsub"
	"github.com/mauv0809/ladder-manager/internal/ratings"
	"github.com/mauv0809/ladder-manager/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/api/idtoken"
)

const (
	testSlackSigningSecret = "test-signing-secret"
	testPushAudience       = "https://ladder.example.com/pubsub/match-resolved"
	testPushAccount        = "pubsub-push@test.iam.gserviceaccount.com"
)

// stubIDTokens accepts "valid-token" as the push service account and
// "foreign-token" as some other account.
func stubIDTokens(t *testing.T) {
	t.Helper()
	orig := validateIDToken
	validateIDToken = func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		if audience != testPushAudience {
			return nil, errors.New("audience mismatch")
		}
		switch token {
		case "valid-token":
			return &idtoken.Payload{Audience: audience, Claims: map[string]interface{}{"email": testPushAccount, "email_verified": true}}, nil
		case "foreign-token":
			return &idtoken.Payload{Audience: audience, Claims: map[string]interface{}{"email": "someone@else.com", "email_verified": true}}, nil
		}
		return nil, errors.New("invalid token")
	}
	t.Cleanup(func() { validateIDToken = orig })
}

type testDeps struct {
	notifier *notifier.Mock
	pubsub   *pubsub.MockPubSubClient
}

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, slackSigningSecret string) (*Server, testDeps, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	store := ratings.NewStore(ratings.NewRepository(db))
	svc, err := ladder.NewService(config.DefaultLadder, store, nil, session.New(db))
	require.NoError(t, err)
	require.NoError(t, svc.Restore(context.Background()))

	cfg := config.Config{
		Slack:    config.SlackConfig{SigningSecret: slackSigningSecret},
		PushAuth: config.PushAuthConfig{Audience: testPushAudience, ServiceAccount: testPushAccount},
		Ladder:   config.DefaultLadder,
	}
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	deps := testDeps{notifier: notifier.NewMock(), pubsub: pubsub.NewMock("TEST")}

	server := NewServer(svc, metricsSvc, metricsHandler, metrics.New(db), cfg, deps.notifier, deps.pubsub)
	return server, deps, dbTeardown
}

// createSlackCommandRequest creates an http.Request suitable for testing Slack slash commands,
// including the necessary signature and timestamp headers for verification.
func createSlackCommandRequest(t *testing.T, targetURL string, form url.Values, signingSecret string) *http.Request {
	t.Helper()

	bodyBytes := []byte(form.Encode())
	req, err := http.NewRequest("POST", targetURL, bytes.NewReader(bodyBytes))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := time.Now().Unix()
	req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(timestamp, 10))

	baseString := fmt.Sprintf("v0:%d:%s", timestamp, string(bodyBytes))
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(h.Sum(nil)))
	return req
}

// ladderCommand runs a signed /ladder command as userID and returns the
// rendered Slack message.
func ladderCommand(t *testing.T, server *Server, userID, text string) slack.Message {
	t.Helper()

	form := url.Values{}
	form.Set("user_id", userID)
	form.Set("text", text)
	req := createSlackCommandRequest(t, "/slack/command/ladder", form, testSlackSigningSecret)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var msg slack.Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &msg))
	return msg
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, "")
	defer teardown()

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestLadderCommandHandler_MatchFlow(t *testing.T) {
	server, deps, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()

	assert.Equal(t, "challenge_created", ladderCommand(t, server, "U1", "challenge <@U2>").Text)
	assert.Equal(t, "challenge_accepted", ladderCommand(t, server, "U2", "accept").Text)
	assert.Equal(t, "match_resolved", ladderCommand(t, server, "U1", "report win").Text)

	require.Len(t, deps.pubsub.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventMatchResolved), deps.pubsub.SendMessageCalls[0].Topic)
	result, ok := deps.pubsub.SendMessageCalls[0].Data.(ladder.MatchResolved)
	require.True(t, ok)
	assert.Equal(t, []string{"U1"}, result.Team1)
	assert.Equal(t, 2026, result.Team1Rating)
	assert.Equal(t, 1974, result.Team2Rating)
	// Published events are posted by the push handler, not inline.
	assert.Empty(t, deps.notifier.SendMatchResultCalls)

	req, err := http.NewRequest("GET", "/leaderboard", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var standings []ratings.Standing
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &standings))
	require.Len(t, standings, 2)
	assert.Equal(t, "U1", standings[0].PlayerID)

	req, err = http.NewRequest("GET", "/usage", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var usage map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &usage))
	assert.Equal(t, 1, usage["challenge"])
	assert.Equal(t, 1, usage["report"])
}

func TestLadderCommandHandler_PublishFallback(t *testing.T) {
	server, deps, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()
	deps.pubsub.SendMessageFunc = func(topic pubsub.EventType, data any) error {
		return errors.New("topic unavailable")
	}

	ladderCommand(t, server, "U1", "challenge <@U2>")
	ladderCommand(t, server, "U2", "accept")
	ladderCommand(t, server, "U2", "report loss 2")

	require.Len(t, deps.notifier.SendMatchResultCalls, 1)
	sent := deps.notifier.SendMatchResultCalls[0].Result
	assert.Equal(t, []string{"U2"}, sent.Team1)
	assert.Equal(t, 0, sent.Team1Wins)
	assert.Equal(t, 2, sent.Team2Wins)
}

func TestLadderCommandHandler_Rejections(t *testing.T) {
	server, deps, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()

	tests := []struct {
		name string
		user string
		text string
		want error
	}{
		{"unknown command", "U1", "dance", nil},
		{"self challenge", "U1", "challenge <@U1>", ladder.ErrInvalidChallengeTarget},
		{"accept without challenge", "U1", "accept", ladder.ErrNoActiveChallenge},
		{"leave without team", "U1", "leave", ladder.ErrNoActiveInvitation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deps.notifier.Reset()
			msg := ladderCommand(t, server, tc.user, tc.text)
			assert.Equal(t, "error", msg.Text)
			require.Len(t, deps.notifier.FormatErrorCalls, 1)
			if tc.want != nil {
				assert.ErrorIs(t, deps.notifier.FormatErrorCalls[0], tc.want)
			}
		})
	}
}

func TestLadderCommandHandler_Verification(t *testing.T) {
	server, _, teardown := setupTestServer(t, testSlackSigningSecret)
	defer teardown()

	form := url.Values{}
	form.Set("user_id", "U1")
	form.Set("text", "leaderboard")

	t.Run("rejects request with invalid signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/ladder", form, testSlackSigningSecret)
		req.Header.Set("X-Slack-Signature", "v0=invalid-signature")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with missing signature", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/ladder", form, testSlackSigningSecret)
		req.Header.Del("X-Slack-Signature")

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects request with outdated timestamp", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/ladder", form, testSlackSigningSecret)
		req.Header.Set("X-Slack-Request-Timestamp", strconv.FormatInt(time.Now().Add(-6*time.Minute).Unix(), 10))

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects missing user", func(t *testing.T) {
		req := createSlackCommandRequest(t, "/slack/command/ladder", url.Values{"text": {"help"}}, testSlackSigningSecret)

		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

// pushRequest wraps payload in a Pub/Sub push envelope.
func pushRequest(t *testing.T, target string, payload []byte, token string) *http.Request {
	t.Helper()
	envelope, err := json.Marshal(map[string]any{
		"subscription": "projects/test/subscriptions/ladder-match-resolved",
		"message":      map[string]string{"data": base64.StdEncoding.EncodeToString(payload)},
	})
	require.NoError(t, err)
	req, err := http.NewRequest("POST", target, bytes.NewReader(envelope))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestMatchResolvedEventHandler(t *testing.T) {
	stubIDTokens(t)
	server, deps, teardown := setupTestServer(t, "")
	defer teardown()

	result := ladder.MatchResolved{
		ChallengeID: "c1",
		Partition:   ratings.General,
		Team1:       []string{"U1"},
		Team2:       []string{"U2"},
		Team1Rating: 2026,
		Team2Rating: 1974,
		Team1Delta:  26,
		Team2Delta:  -26,
		Team1Wins:   1,
	}
	payload, err := msgpack.Marshal(result)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, pushRequest(t, "/pubsub/match-resolved?dry_run=true", payload, "valid-token"))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, deps.notifier.SendMatchResultCalls, 1)
	assert.Equal(t, result, deps.notifier.SendMatchResultCalls[0].Result)
	assert.True(t, deps.notifier.SendMatchResultCalls[0].DryRun)

	t.Run("rejects garbage", func(t *testing.T) {
		req, err := http.NewRequest("POST", "/pubsub/match-resolved", strings.NewReader("not json"))
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer valid-token")
		rr := httptest.NewRecorder()
		server.Router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	auth := []struct {
		name  string
		token string
		want  int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"invalid token", "forged", http.StatusUnauthorized},
		{"other account", "foreign-token", http.StatusForbidden},
	}
	for _, tc := range auth {
		t.Run(tc.name, func(t *testing.T) {
			deps.notifier.Reset()
			rr := httptest.NewRecorder()
			server.Router.ServeHTTP(rr, pushRequest(t, "/pubsub/match-resolved", payload, tc.token))
			assert.Equal(t, tc.want, rr.Code)
			assert.Empty(t, deps.notifier.SendMatchResultCalls)
		})
	}
}

func TestMatchResolvedEventHandler_NoAudienceRefusesPushes(t *testing.T) {
	stubIDTokens(t)
	server, deps, teardown := setupTestServer(t, "")
	defer teardown()
	server.Router = http.NewServeMux()
	server.Cfg.PushAuth = config.PushAuthConfig{}
	server.routes()

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, pushRequest(t, "/pubsub/match-resolved", []byte{0x80}, "valid-token"))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, deps.notifier.SendMatchResultCalls)
}

func TestSyncArchiveHandler(t *testing.T) {
	server, _, teardown := setupTestServer(t, "")
	defer teardown()

	req, err := http.NewRequest("GET", "/sync-archive", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	req, err = http.NewRequest("POST", "/sync-archive", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	var res ladder.ArchiveSync
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Empty(t, res.Failed)
}
