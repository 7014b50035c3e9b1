package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/platform/scheduler"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/store"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
	"github.com/sampleslayer92/utopia-produkcia-sub005/pkg/platform/sentinel"
)

const chromeMac = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// flakyStore fails deletes and touches on demand.
type flakyStore struct {
	*store.InMemoryStore
	failDelete bool
	failTouch  bool
	touches    int
}

func (f *flakyStore) Delete(ctx context.Context, token id.SessionID) error {
	if f.failDelete {
		return errors.New("store unavailable")
	}
	return f.InMemoryStore.Delete(ctx, token)
}

func (f *flakyStore) Touch(ctx context.Context, token id.SessionID, now, expiresAt time.Time) error {
	f.touches++
	if f.failTouch {
		return errors.New("store unavailable")
	}
	return f.InMemoryStore.Touch(ctx, token, now, expiresAt)
}

type TrackerSuite struct {
	suite.Suite
	ctx     context.Context
	clock   *scheduler.Manual
	store   *flakyStore
	metrics *Metrics
	tracker *Tracker
	caseID  id.CaseID
	start   time.Time
}

func TestTrackerSuite(t *testing.T) {
	suite.Run(t, new(TrackerSuite))
}

func (s *TrackerSuite) SetupTest() {
	s.ctx = context.Background()
	s.start = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	s.clock = scheduler.NewManual(s.start)
	s.store = &flakyStore{InMemoryStore: store.NewInMemory()}
	s.metrics = NewMetrics(prometheus.NewRegistry())
	var err error
	s.tracker, err = New(s.store, WithScheduler(s.clock), WithMetrics(s.metrics))
	s.Require().NoError(err)
	s.caseID = id.NewCaseID()
}

func (s *TrackerSuite) register(name string) *models.Session {
	session, err := s.tracker.Register(s.ctx, models.Registration{
		CaseID:      s.caseID,
		UserID:      id.UserID(id.NewPersonID()),
		DisplayName: name,
		UserAgent:   chromeMac,
	})
	s.Require().NoError(err)
	return session
}

func (s *TrackerSuite) TestConstructorRequiresStore() {
	_, err := New(nil)
	s.ErrorContains(err, "presence store is required")
}

func (s *TrackerSuite) TestRegister() {
	s.Run("expires one day out with a device label", func() {
		session := s.register("Jana")
		s.False(session.Token.IsNil())
		s.Equal(s.start.Add(24*time.Hour), session.ExpiresAt)
		s.Contains(session.Device, "Chrome")
	})

	s.Run("keeps a caller supplied token", func() {
		token := id.NewSessionID()
		session, err := s.tracker.Register(s.ctx, models.Registration{Token: token, CaseID: s.caseID})
		s.Require().NoError(err)
		s.Equal(token, session.Token)
		s.Equal("Unknown Device", session.Device)
	})

	s.Run("requires a case", func() {
		_, err := s.tracker.Register(s.ctx, models.Registration{})
		s.Error(err)
	})
}

func (s *TrackerSuite) TestHeartbeatLoopSlidesExpiry() {
	session := s.register("Jana")
	s.tracker.Start(s.ctx, session.Token)
	s.Equal(1, s.clock.Pending())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.HeartbeatLoops))

	s.clock.Advance(90 * time.Second)

	s.Equal(3, s.store.touches)
	sessions, err := s.store.ListByCase(s.ctx, s.caseID)
	s.Require().NoError(err)
	s.Require().Len(sessions, 1)
	s.Equal(s.start.Add(90*time.Second+24*time.Hour), sessions[0].ExpiresAt)
	s.Equal(1, s.clock.Pending())
}

func (s *TrackerSuite) TestRestartKeepsOneLoop() {
	session := s.register("Jana")
	s.tracker.Start(s.ctx, session.Token)
	s.tracker.Start(s.ctx, session.Token)

	s.clock.Advance(30 * time.Second)
	s.Equal(1, s.store.touches)
	s.Equal(1, s.clock.Pending())
}

func (s *TrackerSuite) TestHeartbeatFailureKeepsLooping() {
	session := s.register("Jana")
	s.store.failTouch = true
	s.tracker.Start(s.ctx, session.Token)

	s.clock.Advance(60 * time.Second)

	s.Equal(2, s.store.touches)
	s.Equal(2.0, testutil.ToFloat64(s.metrics.HeartbeatFailures))
	s.Equal(1, s.clock.Pending())
}

func (s *TrackerSuite) TestHeartbeatAfterExpiryDoesNotRevive() {
	session := s.register("Jana")
	s.clock.Advance(25 * time.Hour)

	err := s.tracker.Heartbeat(s.ctx, session.Token)
	s.ErrorIs(err, sentinel.ErrNotFound)

	sessions, err := s.store.ListByCase(s.ctx, s.caseID)
	s.Require().NoError(err)
	s.Require().Len(sessions, 1, "expired row stays until the janitor sweeps it")
	s.Equal(s.start.Add(24*time.Hour), sessions[0].ExpiresAt)
}

func (s *TrackerSuite) TestListActive() {
	self := s.register("Jana")
	s.clock.Advance(time.Minute)
	other := s.register("Peter")

	expired := models.Session{
		Token:     id.NewSessionID(),
		CaseID:    s.caseID,
		CreatedAt: s.start.Add(-48 * time.Hour),
		ExpiresAt: s.start.Add(-time.Hour),
	}
	s.Require().NoError(s.store.Save(s.ctx, expired))
	_, err := s.tracker.Register(s.ctx, models.Registration{CaseID: id.NewCaseID(), DisplayName: "elsewhere"})
	s.Require().NoError(err)

	active, err := s.tracker.ListActive(s.ctx, s.caseID, self.Token)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(other.Token, active[0].Token)

	s.Run("sessions drop out once their expiry passes", func() {
		s.clock.Advance(25 * time.Hour)
		active, err := s.tracker.ListActive(s.ctx, s.caseID, self.Token)
		s.Require().NoError(err)
		s.Empty(active)
	})
}

func (s *TrackerSuite) TestConflictsAlwaysEmpty() {
	a := s.register("Jana")
	s.register("Peter")

	conflicts := s.tracker.Conflicts(s.ctx, s.caseID, a.Token)
	s.NotNil(conflicts)
	s.Empty(conflicts)
}

func (s *TrackerSuite) TestUnregister() {
	s.Run("removes the session and stops its loop", func() {
		session := s.register("Jana")
		s.tracker.Start(s.ctx, session.Token)

		s.tracker.Unregister(s.ctx, session.Token)

		s.Equal(0, s.clock.Pending())
		sessions, _ := s.store.ListByCase(s.ctx, s.caseID)
		s.Empty(sessions)
	})

	s.Run("store failure is swallowed", func() {
		session := s.register("Peter")
		s.tracker.Start(s.ctx, session.Token)
		s.store.failDelete = true

		s.NotPanics(func() { s.tracker.Unregister(s.ctx, session.Token) })
		s.Equal(0, s.clock.Pending())
	})
}

func (s *TrackerSuite) TestSetStep() {
	session := s.register("Jana")
	s.Require().NoError(s.tracker.SetStep(s.ctx, session.Token, 3))

	sessions, _ := s.store.ListByCase(s.ctx, s.caseID)
	s.Equal(3, sessions[0].CurrentStep)

	s.ErrorIs(s.tracker.SetStep(s.ctx, id.NewSessionID(), 1), sentinel.ErrNotFound)
}

func (s *TrackerSuite) TestCloseStopsAllLoops() {
	s.tracker.Start(s.ctx, s.register("Jana").Token)
	s.tracker.Start(s.ctx, s.register("Peter").Token)
	s.Equal(2, s.clock.Pending())

	s.tracker.Close()
	s.Equal(0, s.clock.Pending())
	s.Equal(0.0, testutil.ToFloat64(s.metrics.HeartbeatLoops))
}
