package kafka

import (
	"encoding/json"
	"fmt"
	"time"
)

// Topic suffixes for the domain events this service emits. The producer
// prefixes them with the configured topic prefix.
const (
	TopicUserRegistered         = "user.registered"
	TopicPasswordResetRequested = "password.reset_requested"
	TopicPasswordChanged        = "password.changed"
)

// eventEnvelope is the wire format shared by every published event.
type eventEnvelope struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	UserID    string         `json:"user_id"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Payload   any            `json:"payload"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func marshalEnvelope(eventID, eventType, userID string, payload any, metadata map[string]any) ([]byte, error) {
	envelope := eventEnvelope{
		EventID:   eventID,
		EventType: eventType,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Version:   "1.0",
		Payload:   payload,
		Metadata:  metadata,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	return data, nil
}
