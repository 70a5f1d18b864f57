package pubsub

import (
	"errors"

	"cloud.google.com/go/pubsub"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// noopClient is used when no GCP project is configured.
type noopClient struct{}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	EventMatchResolved EventType = "ladder-match-resolved"
)

// ErrDisabled is returned by SendMessage when publishing is not configured.
var ErrDisabled = errors.New("pubsub is not configured")
