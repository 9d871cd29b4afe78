package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobportal/config"
	"github.com/target/jobportal/internal/domain/model"
)

// fakeReaperStore serves both repositories the reaper needs. Each delete
// returns its configured count on the first call and 0 afterwards.
type fakeReaperStore struct {
	noteCalls  atomic.Int32
	noteCount  int
	noteErr    error
	noteCutoff time.Time
	noteLimit  int

	eventCalls atomic.Int32
	eventCount int
	eventErr   error
}

func (f *fakeReaperStore) List(context.Context, model.NotificationListOptions) ([]*model.Notification, error) {
	return nil, nil
}

func (f *fakeReaperStore) CountUnread(context.Context, string) (int, error) { return 0, nil }

func (f *fakeReaperStore) MarkRead(context.Context, string, string) (bool, error) { return false, nil }

func (f *fakeReaperStore) MarkAllRead(context.Context, string) (int, error) { return 0, nil }

func (f *fakeReaperStore) Create(context.Context, *model.ApplicationEvent) error { return nil }

func (f *fakeReaperStore) PublishPending(context.Context, int, func([]*model.ApplicationEvent) error) (int, error) {
	return 0, nil
}

func (f *fakeReaperStore) DeleteReadBefore(_ context.Context, before time.Time, limit int) (int, error) {
	calls := f.noteCalls.Add(1)
	f.noteCutoff, f.noteLimit = before, limit
	if f.noteErr != nil {
		return 0, f.noteErr
	}
	if calls == 1 {
		return f.noteCount, nil
	}
	return 0, nil
}

func (f *fakeReaperStore) DeletePublishedBefore(_ context.Context, _ time.Time, _ int) (int, error) {
	calls := f.eventCalls.Add(1)
	if f.eventErr != nil {
		return 0, f.eventErr
	}
	if calls == 1 {
		return f.eventCount, nil
	}
	return 0, nil
}

func reaperConfig() config.ReaperConfig {
	return config.ReaperConfig{
		Interval:           5 * time.Minute,
		NotificationMaxAge: 30 * 24 * time.Hour,
		BatchSize:          10,
	}
}

func TestNewReaperService(t *testing.T) {
	t.Run("creates service with valid options", func(t *testing.T) {
		store := &fakeReaperStore{}
		svc, err := NewReaperService(ReaperServiceOptions{
			Notifications: store,
			Events:        store,
			Config:        reaperConfig(),
			Logger:        slog.Default(),
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("returns error when a repository is nil", func(t *testing.T) {
		_, err := NewReaperService(ReaperServiceOptions{Events: &fakeReaperStore{}, Config: reaperConfig()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NotificationRepository is required")

		_, err = NewReaperService(ReaperServiceOptions{Notifications: &fakeReaperStore{}, Config: reaperConfig()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EventRepository is required")
	})
}

func TestReaperService_RunOnce(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("drains full batches", func(t *testing.T) {
		store := &fakeReaperStore{noteCount: 10, eventCount: 3}
		svc, err := NewReaperService(ReaperServiceOptions{
			Notifications: store,
			Events:        store,
			Config:        reaperConfig(),
			Now:           func() time.Time { return now },
		})
		require.NoError(t, err)

		res, err := svc.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ReapResult{Notifications: 10, Events: 3}, res)
		// A full batch triggers one more call; a short batch stops the loop.
		assert.Equal(t, int32(2), store.noteCalls.Load())
		assert.Equal(t, int32(1), store.eventCalls.Load())
		assert.Equal(t, now.Add(-30*24*time.Hour), store.noteCutoff)
		assert.Equal(t, 10, store.noteLimit)
	})

	t.Run("continues on partial errors", func(t *testing.T) {
		store := &fakeReaperStore{noteErr: errors.New("db down"), eventCount: 2}
		svc, err := NewReaperService(ReaperServiceOptions{
			Notifications: store,
			Events:        store,
			Config:        reaperConfig(),
		})
		require.NoError(t, err)

		res, err := svc.RunOnce(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "delete read notifications")
		assert.Equal(t, 2, res.Events)
		assert.Equal(t, int32(1), store.eventCalls.Load())
	})
}

func TestReaperService_Run(t *testing.T) {
	t.Run("stops on context cancellation", func(t *testing.T) {
		store := &fakeReaperStore{}
		cfg := reaperConfig()
		cfg.Interval = 100 * time.Millisecond
		svc, err := NewReaperService(ReaperServiceOptions{Notifications: store, Events: store, Config: cfg})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- svc.Run(ctx)
		}()

		time.Sleep(150 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Run did not stop after context cancellation")
		}
		assert.GreaterOrEqual(t, store.noteCalls.Load(), int32(1))
	})

	t.Run("continues running despite cleanup errors", func(t *testing.T) {
		store := &fakeReaperStore{noteErr: errors.New("test error")}
		cfg := reaperConfig()
		cfg.Interval = 50 * time.Millisecond
		svc, err := NewReaperService(ReaperServiceOptions{Notifications: store, Events: store, Config: cfg})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		err = svc.Run(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.GreaterOrEqual(t, store.noteCalls.Load(), int32(2))
	})
}
