package presence

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/models"
	"github.com/sampleslayer92/utopia-produkcia-sub005/internal/presence/store"
	id "github.com/sampleslayer92/utopia-produkcia-sub005/pkg/domain"
)

func TestJanitor(t *testing.T) {
	now := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	caseID := id.NewCaseID()

	t.Run("sweep removes only expired sessions", func(t *testing.T) {
		sessions := store.NewInMemory()
		ctx := context.Background()
		require.NoError(t, sessions.Save(ctx, models.Session{Token: id.NewSessionID(), CaseID: caseID, ExpiresAt: now.Add(-time.Second)}))
		require.NoError(t, sessions.Save(ctx, models.Session{Token: id.NewSessionID(), CaseID: caseID, ExpiresAt: now}))
		live := models.Session{Token: id.NewSessionID(), CaseID: caseID, ExpiresAt: now.Add(time.Hour)}
		require.NoError(t, sessions.Save(ctx, live))

		metrics := NewMetrics(prometheus.NewRegistry())
		j, err := NewJanitor(sessions, "@every 1m",
			WithJanitorClock(func() time.Time { return now }),
			WithJanitorMetrics(metrics),
		)
		require.NoError(t, err)

		n, err := j.Sweep(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Equal(t, 2.0, testutil.ToFloat64(metrics.ExpiredSwept))

		remaining, err := sessions.ListByCase(ctx, caseID)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		require.Equal(t, live.Token, remaining[0].Token)
	})

	t.Run("rejects a malformed schedule", func(t *testing.T) {
		_, err := NewJanitor(store.NewInMemory(), "every now and then")
		require.Error(t, err)
	})

	t.Run("start and stop are idempotent", func(t *testing.T) {
		j, err := NewJanitor(store.NewInMemory(), "")
		require.NoError(t, err)
		j.Start()
		j.Start()
		j.Stop()
		j.Stop()
	})
}
