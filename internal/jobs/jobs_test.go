package jobs_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/festivalops/offer-api/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestScheduler_AddRemove(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, s.AddJob("b_job", "0 30 3 * * *", func() {}))
	require.NoError(t, s.AddJob("a_job", "@every 1h", func() {}))
	assert.Equal(t, []string{"a_job", "b_job"}, s.GetJobNames())

	err := s.AddJob("a_job", "@every 1h", func() {})
	assert.ErrorContains(t, err, "already exists")

	err = s.AddJob("bad", "every night", func() {})
	assert.Error(t, err)
	assert.NotContains(t, s.GetJobNames(), "bad")

	require.NoError(t, s.RemoveJob("a_job"))
	assert.Equal(t, []string{"b_job"}, s.GetJobNames())
	assert.Error(t, s.RemoveJob("a_job"))
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	var runs int32
	require.NoError(t, s.AddJob("tick", "* * * * * *", func() {
		atomic.AddInt32(&runs, 1)
	}))

	s.Start()
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) > 0 }, 3*time.Second, 50*time.Millisecond)
	<-s.Stop().Done()
}

type fakeRefresher struct {
	updated  int
	err      error
	deadline bool
}

func (f *fakeRefresher) RefreshTotals(ctx context.Context) (int, error) {
	_, f.deadline = ctx.Deadline()
	return f.updated, f.err
}

func TestTotalsRefreshJob_Run(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		refresher := &fakeRefresher{updated: 3}

		jobs.NewTotalsRefreshJob(refresher, zap.New(core), time.Minute).Run()

		assert.True(t, refresher.deadline)
		entries := logs.FilterMessage("offer totals refresh completed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, int64(3), entries[0].ContextMap()["offers_updated"])
	})

	t.Run("failure", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		refresher := &fakeRefresher{updated: 1, err: errors.New("database unavailable")}

		jobs.NewTotalsRefreshJob(refresher, zap.New(core), 0).Run()

		assert.False(t, refresher.deadline)
		assert.Equal(t, 1, logs.FilterMessage("offer totals refresh failed").Len())
	})
}

func TestRegisterTotalsRefreshJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop())

	require.NoError(t, jobs.RegisterTotalsRefreshJob(s, &fakeRefresher{}, zap.NewNop(), "0 30 3 * * *", time.Minute))
	assert.Equal(t, []string{jobs.TotalsRefreshJobName}, s.GetJobNames())

	assert.Error(t, jobs.RegisterTotalsRefreshJob(s, &fakeRefresher{}, zap.NewNop(), "0 30 3 * * *", time.Minute))
}
