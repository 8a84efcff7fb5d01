//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"custodia/pkg/domain"
	"custodia/pkg/testutil/containers"

	audit "custodia/pkg/platform/audit"
)

func TestPublishAndConsume(t *testing.T) {
	ctx := context.Background()
	container := containers.NewRedpandaContainer(t)
	defer func() { _ = container.Container.Terminate(ctx) }()

	const topic = "custodia.audit.test"
	publisher, err := New([]string{container.Broker}, topic)
	require.NoError(t, err)
	defer publisher.Close()

	require.NoError(t, publisher.EnsureTopic(ctx, 1, 1))
	// Idempotent when the topic already exists.
	require.NoError(t, publisher.EnsureTopic(ctx, 1, 1))

	event := audit.Event{
		Kind:      audit.KindRedeemed,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Actor:     domain.NewIdentityID(),
		Target:    domain.NewIdentityID(),
		RequestID: "req-7",
	}
	require.NoError(t, publisher.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(container.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(pollCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, event.Target.String(), string(records[0].Key))

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &decoded))
	assert.Equal(t, event.Kind, decoded.Kind)
	assert.Equal(t, event.Actor, decoded.Actor)
	assert.Equal(t, event.RequestID, decoded.RequestID)
}
