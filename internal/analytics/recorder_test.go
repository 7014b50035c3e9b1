package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/analytics/store"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/requestcontext"
)

type failingStore struct{ calls int }

func (f *failingStore) Append(context.Context, models.StepEvent) error {
	f.calls++
	return errors.New("insert failed")
}

type RecorderSuite struct {
	suite.Suite
	store    *store.InMemoryStore
	metrics  *Metrics
	recorder *Recorder
	caseID   id.CaseID
	token    id.SessionID
	start    time.Time
}

func TestRecorderSuite(t *testing.T) {
	suite.Run(t, new(RecorderSuite))
}

func (s *RecorderSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.metrics = NewMetrics(prometheus.NewRegistry())
	s.caseID = id.NewCaseID()
	s.token = id.NewSessionID()
	s.start = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	var err error
	s.recorder, err = NewRecorder(s.caseID, s.token, s.store, WithMetrics(s.metrics))
	s.Require().NoError(err)
}

func (s *RecorderSuite) at(offset time.Duration) context.Context {
	return requestcontext.WithTime(context.Background(), s.start.Add(offset))
}

func (s *RecorderSuite) events() []models.StepEvent {
	events, err := s.store.ListByCase(context.Background(), s.caseID)
	s.Require().NoError(err)
	return events
}

func (s *RecorderSuite) TestConstructorRequiresStore() {
	_, err := NewRecorder(s.caseID, s.token, nil)
	s.ErrorContains(err, "analytics store is required")
}

func (s *RecorderSuite) TestStartingNextStepCompletesPrevious() {
	s.recorder.StartStep(s.at(0), 0, "Contact")
	s.recorder.StartStep(s.at(45*time.Second), 1, "Company")

	events := s.events()
	s.Require().Len(events, 1)
	s.Equal(0, events[0].StepNumber)
	s.Equal("Contact", events[0].StepName)
	s.Equal(int64(45000), events[0].DurationMs)
	s.Equal(s.token, events[0].SessionToken)

	open, ok := s.recorder.OpenStep()
	s.True(ok)
	s.Equal(1, open)
}

func (s *RecorderSuite) TestCompleteWithoutOpenStepIsNoop() {
	s.recorder.CompleteStep(s.at(0))
	s.Empty(s.events())

	s.recorder.StartStep(s.at(0), 2, "Business locations")
	s.recorder.CompleteStep(s.at(time.Minute))
	s.recorder.CompleteStep(s.at(2 * time.Minute))
	s.Len(s.events(), 1)
}

func (s *RecorderSuite) TestCloseCompletesOpenStep() {
	s.recorder.StartStep(s.at(0), 3, "Devices")
	s.recorder.Close(s.at(10 * time.Second))

	events := s.events()
	s.Require().Len(events, 1)
	s.Equal(int64(10000), events[0].DurationMs)
	_, ok := s.recorder.OpenStep()
	s.False(ok)
	s.Equal(1, testutil.CollectAndCount(s.metrics.StepDuration))
}

func (s *RecorderSuite) TestStoreFailureIsSwallowed() {
	failing := &failingStore{}
	recorder, err := NewRecorder(s.caseID, s.token, failing, WithMetrics(s.metrics))
	s.Require().NoError(err)

	s.NotPanics(func() {
		recorder.StartStep(s.at(0), 0, "Contact")
		recorder.StartStep(s.at(time.Second), 1, "Company")
		recorder.Close(s.at(2 * time.Second))
	})
	s.Equal(2, failing.calls)
	s.Equal(2.0, testutil.ToFloat64(s.metrics.WriteFailures))
}

func (s *RecorderSuite) TestFanoutReachesEveryStore() {
	second := store.NewInMemory()
	failing := &failingStore{}
	fan := Fanout{s.store, failing, second, nil}

	err := fan.Append(context.Background(), models.StepEvent{CaseID: s.caseID})
	s.Error(err)
	s.Len(s.events(), 1)
	other, _ := second.ListByCase(context.Background(), s.caseID)
	s.Len(other, 1)
}
