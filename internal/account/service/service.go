// Package service implements the shared-account capability protocol: registry
// bootstrap, account creation, allow-list management, capability claims, and
// authority redemption. Each operation runs as a single unit of work against
// the identity store; a guard violation aborts with no side effect.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	accountmetrics "custodia/internal/account/metrics"
	"custodia/internal/account/store"
	"custodia/pkg/domain"
	"custodia/pkg/requestcontext"

	audit "custodia/pkg/platform/audit"
)

// DefaultProofTTL bounds how long a redeemed authority proof stays valid.
// Proofs are meant to be consumed within the same unit of work that redeemed
// them, so the window is short.
const DefaultProofTTL = 30 * time.Second

// AuditPublisher receives one event per successful protocol operation.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the capability-issuance state machine.
type Service struct {
	store    store.Store
	logger   *slog.Logger
	audit    AuditPublisher
	metrics  *accountmetrics.Metrics
	tracer   trace.Tracer
	proofTTL time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.audit = publisher }
}

func WithMetrics(m *accountmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

func WithProofTTL(ttl time.Duration) Option {
	return func(s *Service) { s.proofTTL = ttl }
}

// New constructs a Service over the given identity store.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, proofTTL: DefaultProofTTL}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("custodia/account")
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

// emit records a successful operation: Prometheus counter, structured audit
// log line, and one event to the audit sink. The registry counter was already
// bumped inside the operation's unit of work.
func (s *Service) emit(ctx context.Context, kind audit.Kind, actor, subject, target domain.IdentityID) {
	if s.metrics != nil {
		s.metrics.Increment(kind)
	}

	args := []any{
		"actor", actor.String(),
		"target", target.String(),
		"event", string(kind),
		"log_type", "audit",
	}
	if !subject.IsNil() && subject != actor {
		args = append(args, "subject", subject.String())
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(kind), args...)
	}

	if s.audit == nil {
		return
	}
	_ = s.audit.Emit(ctx, audit.Event{
		Kind:    kind,
		Actor:   actor,
		Subject: subject,
		Target:  target,
	})
}

// bumpCounter increments the registry counter for kind inside the current
// unit of work. Bootstrap is a deployment precondition, not a protocol guard,
// so a missing registry is tolerated rather than inventing a failure kind the
// call contract does not name.
func (s *Service) bumpCounter(tx store.Tx, kind audit.Kind) error {
	id, registry, err := tx.GetRegistry()
	if err != nil {
		return nil
	}
	registry.Counters.Increment(kind)
	return tx.SetRegistry(id, registry)
}
