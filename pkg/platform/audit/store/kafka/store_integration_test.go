//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/cavidescun/314q34wefasd/internal/platform/config"
	platformkafka "github.com/cavidescun/314q34wefasd/internal/platform/kafka"
	audit "github.com/cavidescun/314q34wefasd/pkg/platform/audit"
	auditkafka "github.com/cavidescun/314q34wefasd/pkg/platform/audit/store/kafka"
	"github.com/cavidescun/314q34wefasd/pkg/testutil/containers"
)

func TestAuditEventsReachTopic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rp := containers.GetManager().GetRedpanda(t)

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	topic := "homologation.audit." + uuid.NewString()[:8]
	cl, err := platformkafka.New(ctx, config.Kafka{Brokers: []string{rp.Broker}, AuditTopic: topic, ClientID: "audit-it"})
	require.NoError(t, err)
	defer cl.Close()
	require.NoError(t, cl.EnsureTopic(ctx, 1, 1))

	store := auditkafka.New(cl, topic)
	event := audit.Event{
		ID:          uuid.NewString(),
		Category:    audit.CategoryCompliance,
		Timestamp:   time.Now().UTC(),
		Action:      string(audit.EventHomologationCreated),
		SubjectHash: audit.HashSubject("1023456789"),
	}
	require.NoError(t, store.Append(ctx, event))

	reader, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer reader.Close()

	var got audit.Event
	for got.ID == "" && ctx.Err() == nil {
		fetches := reader.PollFetches(ctx)
		fetches.EachRecord(func(r *kgo.Record) {
			require.NoError(t, json.Unmarshal(r.Value, &got))
			assert.Equal(t, event.SubjectHash, string(r.Key))
		})
	}
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, event.Action, got.Action)
}
