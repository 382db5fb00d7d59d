package network

import (
	"context"

	"github.com/devsilvver/corrida-das-gemas/logging"
)

const (
	// EventEnvelopeDropped is emitted when an inbound message cannot be decoded.
	EventEnvelopeDropped logging.EventType = "network.envelope_dropped"
	// EventRequestRejected is emitted when the host refuses a guest request.
	EventRequestRejected logging.EventType = "network.request_rejected"
	// EventPeerClosed is emitted when the peer channel closes.
	EventPeerClosed logging.EventType = "network.peer_closed"
)

// EnvelopeDroppedPayload captures why an envelope was discarded.
type EnvelopeDroppedPayload struct {
	Type   string `json:"type,omitempty"`
	Reason string `json:"reason"`
	Bytes  int    `json:"bytes"`
}

// RequestRejectedPayload captures a refused guest request.
type RequestRejectedPayload struct {
	Type    string `json:"type"`
	Unit1ID int    `json:"unit1Id,omitempty"`
	Unit2ID int    `json:"unit2Id,omitempty"`
}

// PeerClosedPayload captures the channel closure.
type PeerClosedPayload struct {
	Role   string `json:"role"`
	Reason string `json:"reason,omitempty"`
}

// EnvelopeDropped publishes a warning for an undecodable message.
func EnvelopeDropped(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload EnvelopeDroppedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventEnvelopeDropped,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// RequestRejected publishes a debug event for a stale or illegal request.
func RequestRejected(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RequestRejectedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventRequestRejected,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryNetwork,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}

// PeerClosed publishes the loss of the peer channel.
func PeerClosed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PeerClosedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	event := logging.Event{
		Type:     EventPeerClosed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Payload:  payload,
		Extra:    extra,
	}
	pub.Publish(ctx, event)
}
