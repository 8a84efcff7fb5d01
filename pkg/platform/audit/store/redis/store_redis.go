package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	audit "custodia/pkg/platform/audit"
)

const (
	eventsKeyPrefix  = "custodia:audit:events:"
	counterKeyPrefix = "custodia:audit:counters:"
)

// Store persists audit events in Redis, one list and one counter per event
// kind. The list append and counter increment are pipelined in a MULTI so a
// reader never observes one without the other.
type Store struct {
	client *goredis.Client
}

func New(client *goredis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, eventsKey(event.Kind), payload)
	pipe.Incr(ctx, counterKey(event.Kind))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *Store) ListByKind(ctx context.Context, kind audit.Kind) ([]audit.Event, error) {
	raw, err := s.client.LRange(ctx, eventsKey(kind), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}

	events := make([]audit.Event, 0, len(raw))
	for _, item := range raw {
		var event audit.Event
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, fmt.Errorf("unmarshal audit event: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}

// Counters reads the per-kind event counters. Kinds with no events read zero.
func (s *Store) Counters(ctx context.Context) (map[audit.Kind]uint64, error) {
	counters := make(map[audit.Kind]uint64, len(audit.Kinds()))
	for _, kind := range audit.Kinds() {
		n, err := s.client.Get(ctx, counterKey(kind)).Uint64()
		if err != nil && err != goredis.Nil {
			return nil, fmt.Errorf("read audit counter %s: %w", kind, err)
		}
		counters[kind] = n
	}
	return counters, nil
}

func eventsKey(kind audit.Kind) string  { return eventsKeyPrefix + string(kind) }
func counterKey(kind audit.Kind) string { return counterKeyPrefix + string(kind) }
