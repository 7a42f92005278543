package engine

import (
	"testing"
	"time"

	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/automerch/internal/metrics"
	domain "github.com/donaldgifford/automerch/pkg/types"
)

func newSchedulerTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(newStore(t), &fakeRefresher{}, nil, WithLogger(quietLogger()))
}

func TestNewScheduler_RegistersCronEntries(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(newSchedulerTestEngine(t), Schedule{
		TokenRefresh:  30 * time.Minute,
		PriceSync:     6 * time.Hour,
		InventorySync: time.Hour,
		Listing:       12 * time.Hour,
	}, quietLogger())
	require.NoError(t, err)
	assert.Len(t, sched.Entries(), 4)
}

func TestNewScheduler_SkipsZeroIntervals(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(newSchedulerTestEngine(t), Schedule{
		TokenRefresh: 30 * time.Minute,
	}, quietLogger())
	require.NoError(t, err)
	assert.Len(t, sched.Entries(), 1)

	_, ok := sched.Next(domain.JobPriceSync)
	assert.False(t, ok)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(newSchedulerTestEngine(t), Schedule{
		TokenRefresh: time.Hour,
		PriceSync:    24 * time.Hour,
	}, quietLogger())
	require.NoError(t, err)

	sched.Start()
	ctx := sched.Stop()
	<-ctx.Done()
}

func TestScheduler_SyncNextRunTimestamps(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(newSchedulerTestEngine(t), Schedule{
		InventorySync: 15 * time.Minute,
	}, quietLogger())
	require.NoError(t, err)

	// Start so that cron populates Next times.
	sched.Start()
	defer sched.Stop()

	next, ok := sched.Next(domain.JobInventorySync)
	require.True(t, ok)
	assert.False(t, next.IsZero())

	sched.SyncNextRunTimestamps()
	got := ptestutil.ToFloat64(metrics.SchedulerNextRunTimestamp.WithLabelValues(domain.JobInventorySync))
	assert.Greater(t, got, float64(0))
}
