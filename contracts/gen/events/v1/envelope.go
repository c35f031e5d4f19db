package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event envelope published on the
// orders topic for cross-runtime consumers.
// This package is generated-contract-only and must stay backward compatible.
type Envelope struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	SourceService  string          `json:"source_service"`
	OccurredAtUTC  time.Time       `json:"occurred_at_utc"`
	EntityType     string          `json:"entity_type"`
	EntityID       string          `json:"entity_id"`
	PayloadVersion int             `json:"payload_version"`
	Payload        json.RawMessage `json:"payload"`
}
