package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobportal/internal/domain/model"
	"github.com/target/jobportal/internal/mocks"
	"go.uber.org/mock/gomock"
)

func newNotificationService(t *testing.T) (*NotificationService, *mocks.MockNotificationRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	repo := mocks.NewMockNotificationRepository(ctrl)
	return NewNotificationService(NotificationServiceOptions{Notifications: repo}), repo
}

func TestNotificationService_List(t *testing.T) {
	t.Parallel()
	svc, repo := newNotificationService(t)
	ctx := context.Background()

	items := make([]*model.Notification, NotificationPageSize+1)
	for i := range items {
		items[i] = &model.Notification{}
	}
	repo.EXPECT().List(ctx, model.NotificationListOptions{UserID: "u", Limit: NotificationPageSize + 1}).
		Return(items, nil).Times(1)

	page, err := svc.List(ctx, "u", 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, NotificationPageSize)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
}

func TestNotificationService_List_HugePageIsClamped(t *testing.T) {
	t.Parallel()
	svc, repo := newNotificationService(t)
	ctx := context.Background()

	repo.EXPECT().List(ctx, model.NotificationListOptions{
		UserID: "u",
		Limit:  NotificationPageSize + 1,
		Offset: (MaxPage - 1) * NotificationPageSize,
	}).Return(nil, nil).Times(1)

	page, err := svc.List(ctx, "u", math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, MaxPage, page.Page)
	assert.Empty(t, page.Items)
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Parallel()
	svc, repo := newNotificationService(t)
	ctx := context.Background()

	repo.EXPECT().MarkRead(ctx, "u", "n1").Return(false, nil).Times(1)
	require.NoError(t, svc.MarkRead(ctx, "u", "n1"))

	repo.EXPECT().MarkRead(ctx, "u", "n2").Return(false, errors.New("db down")).Times(1)
	require.Error(t, svc.MarkRead(ctx, "u", "n2"))

	repo.EXPECT().MarkAllRead(ctx, "u").Return(3, nil).Times(1)
	n, err := svc.MarkAllRead(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNotificationService_UnreadCount(t *testing.T) {
	t.Parallel()
	svc, repo := newNotificationService(t)
	ctx := context.Background()

	n, err := svc.UnreadCount(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)

	repo.EXPECT().CountUnread(ctx, "u").Return(4, nil).Times(1)
	n, err = svc.UnreadCount(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
