package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"weshare/internal/config"
	serviceMocks "weshare/internal/service/mocks"
)

type fakeSyncer struct {
	total int64
	err   error
	calls int
}

func (f *fakeSyncer) SyncTotalCount(context.Context) (int64, error) {
	f.calls++
	return f.total, f.err
}

func newTestScheduler(buf *bytes.Buffer) *Scheduler {
	return New(time.UTC, slog.New(slog.NewJSONHandler(buf, nil)))
}

func TestRegisterMaintenance(t *testing.T) {
	var buf bytes.Buffer
	s := newTestScheduler(&buf)
	stats := &fakeSyncer{total: 42}
	auth := new(serviceMocks.MockAuthService)
	auth.On("PurgeRefreshTokens", mock.Anything, mock.Anything).Return(int64(3), nil).Once()

	err := RegisterMaintenance(s, config.SchedulerConfig{StatsSyncSpec: "@every 1h", TokenPurgeSpec: "0 */6 * * *"}, stats, auth)
	require.NoError(t, err)

	entries := s.cron.Entries()
	require.Len(t, entries, 2)

	for _, e := range entries {
		e.Job.Run()
	}

	assert.Equal(t, 1, stats.calls)
	auth.AssertExpectations(t)
	assert.Contains(t, buf.String(), `"total":42`)
	assert.Contains(t, buf.String(), `"deleted":3`)
}

func TestRegisterMaintenance_InvalidSpec(t *testing.T) {
	var buf bytes.Buffer
	s := newTestScheduler(&buf)

	err := RegisterMaintenance(s, config.SchedulerConfig{StatsSyncSpec: "every hour", TokenPurgeSpec: "@every 6h"}, &fakeSyncer{}, new(serviceMocks.MockAuthService))
	assert.ErrorContains(t, err, "stats_total_count_sync")
}

func TestScheduler_JobFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	s := newTestScheduler(&buf)

	s.wrap("broken", func(context.Context) error { return errors.New("db down") })()

	assert.Contains(t, buf.String(), `"msg":"job failed"`)
	assert.Contains(t, buf.String(), `"job":"broken"`)
	assert.Contains(t, buf.String(), "db down")
}

func TestScheduler_StartStop(t *testing.T) {
	var buf bytes.Buffer
	s := newTestScheduler(&buf)
	ran := make(chan struct{}, 1)
	_, err := s.Add("tick", "@every 1s", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})
	require.NoError(t, err)

	s.Start()
	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
