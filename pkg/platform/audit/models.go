// Package audit defines the append-only protocol event log. One event is
// emitted per successful operation; the five kinds mirror the five registry
// counters.
package audit

import (
	"context"
	"time"

	"custodia/pkg/domain"
)

// Kind classifies a protocol event.
type Kind string

const (
	KindAccountCreated Kind = "account_created"
	KindClaimerAdded   Kind = "claimer_added"
	KindClaimerRemoved Kind = "claimer_removed"
	KindClaimed        Kind = "capability_claimed"
	KindRedeemed       Kind = "authority_redeemed"
)

// Kinds returns all event kinds in their fixed protocol order.
func Kinds() []Kind {
	return []Kind{
		KindAccountCreated,
		KindClaimerAdded,
		KindClaimerRemoved,
		KindClaimed,
		KindRedeemed,
	}
}

// Event is emitted from domain logic to capture a protocol action. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Kind      Kind              `json:"kind"`
	Timestamp time.Time         `json:"timestamp"`
	Actor     domain.IdentityID `json:"actor"`             // principal performing the operation
	Subject   domain.IdentityID `json:"subject,omitempty"` // claimer/acquirer when distinct from the actor
	Target    domain.IdentityID `json:"target"`            // shared account affected
	RequestID string            `json:"request_id,omitempty"`
}

// Sink accepts events. Implementations must tolerate concurrent appends.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Store is a sink that can also be read back, one log per event kind.
type Store interface {
	Sink
	ListByKind(ctx context.Context, kind Kind) ([]Event, error)
}
