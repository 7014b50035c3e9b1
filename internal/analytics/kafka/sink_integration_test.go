//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/kafka"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/models"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/testutil/containers"
)

type SinkSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(SinkSuite))
}

func (s *SinkSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *SinkSuite) TestProducedEventIsConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "step-analytics-" + uuid.NewString()

	sink, err := kafka.NewSink(s.redpanda.Brokers, topic)
	s.Require().NoError(err)
	defer sink.Close()

	s.Require().NoError(sink.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(sink.EnsureTopic(ctx, 1, 1), "second provisioning is a no-op")

	event := models.StepEvent{
		ID:           uuid.New(),
		CaseID:       id.NewCaseID(),
		SessionToken: id.NewSessionID(),
		StepNumber:   1,
		StepName:     "Company",
		StartedAt:    time.Now().Add(-time.Minute),
		CompletedAt:  time.Now(),
		DurationMs:   60000,
	}
	s.Require().NoError(sink.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal(event.CaseID.String(), string(records[0].Key))

	var got models.StepEvent
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal(event.ID, got.ID)
}
