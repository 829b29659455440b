// Package session implements the Real-time Delivery Fabric's Session
// Registry (C1): per-client connections, identity binding, and the
// best-effort fan-out of the core's closed set of outbound event types.
package session

import (
	"encoding/json"
	"time"
)

// EventType is the closed set of outbound event tags emitted by the core.
// Every state change in the Draft Flow Engine, Confirmation Protocol,
// Game-In-Progress Monitor, or Match-Voting Service results in exactly
// one of these.
type EventType string

const (
	EventMatchFound              EventType = "match_found"
	EventDraftUpdated            EventType = "draft_updated"
	EventDraftConfirmationUpdate EventType = "draft_confirmation_update"
	EventGameStarted             EventType = "game_started"
	EventMatchVoteUpdate         EventType = "match_vote_update"
	EventMatchLinked             EventType = "match_linked"
	EventSpecialUserVote         EventType = "special_user_vote"
	EventDiscordUsers            EventType = "discord_users"
	EventDiscordStatus           EventType = "discord_status"
	EventError                   EventType = "error"

	// EventLCURequest is a server-to-client RPC ask, routed by the LCU
	// Gateway Router (C4) to one identified client session.
	EventLCURequest EventType = "lcu_request"
)

// InboundType is the closed set of client-to-server push-channel messages.
type InboundType string

const (
	InboundIdentify    InboundType = "identify"
	InboundPing        InboundType = "ping"
	InboundLCUResponse InboundType = "lcu_response"
)

// Envelope is the JSON wire shape for every push-channel message in both
// directions: {type, payload, timestamp[, correlationId]}.
type Envelope struct {
	Type          EventType       `json:"type"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	Timestamp     int64           `json:"timestamp"`
	CorrelationID string          `json:"correlationId,omitempty"`
}

// NewEnvelope builds an outbound envelope with no RPC correlation id.
func NewEnvelope(t EventType, payload interface{}) (*Envelope, error) {
	return NewCorrelatedEnvelope(t, payload, "")
}

// NewCorrelatedEnvelope builds an outbound envelope carrying a correlation
// id, used by the LCU Gateway Router to match requests to replies.
func NewCorrelatedEnvelope(t EventType, payload interface{}, correlationID string) (*Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Type:          t,
		Payload:       raw,
		Timestamp:     time.Now().UnixMilli(),
		CorrelationID: correlationID,
	}, nil
}

// Inbound is the JSON wire shape read from the push channel.
type Inbound struct {
	Type          InboundType     `json:"type"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CorrelationID string          `json:"correlationId,omitempty"`
}

// IdentifyPayload is the inbound identify message's payload.
type IdentifyPayload struct {
	PlayerID     string `json:"playerId"`
	SummonerName string `json:"summonerName"`
	LCUReachable bool   `json:"lcuReachable"`
}

// DiscordUsersPayload is the outbound "users online" roster, derived from
// the registry's identified sessions.
type DiscordUsersPayload struct {
	Users []string `json:"users"`
}

// DiscordStatusPayload is the outbound per-identity LCU-reachability
// change, sent whenever a session identifies or disconnects.
type DiscordStatusPayload struct {
	Identity     string `json:"identity"`
	LCUReachable bool   `json:"lcuReachable"`
}
