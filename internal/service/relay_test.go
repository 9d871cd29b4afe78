package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobportal/config"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/mocks"
	"go.uber.org/mock/gomock"
)

func newRelayService(t *testing.T, batch int) (*EventRelayService, *mocks.MockEventRepository, *mocks.MockEventPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	events := mocks.NewMockEventRepository(ctrl)
	pub := mocks.NewMockEventPublisher(ctrl)
	svc, err := NewEventRelayService(EventRelayServiceOptions{
		Events:    events,
		Publisher: pub,
		Config:    config.RelayConfig{Interval: time.Second, BatchSize: batch},
	})
	require.NoError(t, err)
	return svc, events, pub
}

// handOver simulates the repository claiming batch and passing it to the publisher.
func handOver(batch []*model.ApplicationEvent) func(context.Context, int, func([]*model.ApplicationEvent) error) (int, error) {
	return func(_ context.Context, _ int, fn func([]*model.ApplicationEvent) error) (int, error) {
		if len(batch) == 0 {
			return 0, nil
		}
		if err := fn(batch); err != nil {
			return 0, err
		}
		return len(batch), nil
	}
}

func TestNewEventRelayService_RequiresDependencies(t *testing.T) {
	_, err := NewEventRelayService(EventRelayServiceOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EventRepository is required")
}

func TestEventRelayService_RelayOnce(t *testing.T) {
	svc, events, pub := newRelayService(t, 2)
	ctx := context.Background()

	full := []*model.ApplicationEvent{{ID: "e1"}, {ID: "e2"}}
	short := []*model.ApplicationEvent{{ID: "e3"}}
	gomock.InOrder(
		events.EXPECT().PublishPending(ctx, 2, gomock.Any()).DoAndReturn(handOver(full)),
		events.EXPECT().PublishPending(ctx, 2, gomock.Any()).DoAndReturn(handOver(short)),
	)
	gomock.InOrder(
		pub.EXPECT().Publish(ctx, full).Return(nil),
		pub.EXPECT().Publish(ctx, short).Return(nil),
	)

	n, err := svc.RelayOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEventRelayService_RelayOncePublishFailure(t *testing.T) {
	svc, events, pub := newRelayService(t, 10)
	ctx := context.Background()

	batch := []*model.ApplicationEvent{{ID: "e1"}}
	boom := errors.New("broker down")
	events.EXPECT().PublishPending(ctx, 10, gomock.Any()).DoAndReturn(handOver(batch)).Times(1)
	pub.EXPECT().Publish(ctx, batch).Return(boom).Times(1)

	n, err := svc.RelayOnce(ctx)
	require.ErrorIs(t, err, boom)
	assert.Zero(t, n)
}

func TestEventRelayService_Close(t *testing.T) {
	svc, _, pub := newRelayService(t, 1)
	pub.EXPECT().Close().Return(nil).Times(1)
	require.NoError(t, svc.Close())
}
