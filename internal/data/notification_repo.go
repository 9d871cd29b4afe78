package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data/database"
	"github.com/target/jobportal/internal/data/pgxutil"
	"github.com/target/jobportal/internal/domain/model"
)

const (
	defaultNotificationPageSize = 50
	maxNotificationPageSize     = 200
)

// NotificationRepo provides database operations for user notifications.
type NotificationRepo struct {
	DB *sql.DB
}

// NewNotificationRepo creates a new NotificationRepo.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db}
}

const (
	notificationMarkReadQuery = `
		UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND user_id = $2 AND NOT is_read`

	notificationMarkAllReadQuery = `
		UPDATE notifications SET is_read = TRUE
		WHERE user_id = $1 AND NOT is_read`

	// Bounded batch; the reaper loops until a short batch.
	notificationDeleteReadQuery = `
		DELETE FROM notifications
		WHERE id IN (
			SELECT id FROM notifications
			WHERE is_read AND created_at < $1
			ORDER BY created_at
			LIMIT $2
		)`
)

func notificationColumns() []string {
	return []string{"id", "user_id", "message", "is_read", "created_at"}
}

// List returns a user's notifications newest first.
func (r *NotificationRepo) List(
	ctx context.Context,
	opts model.NotificationListOptions,
) ([]*model.Notification, error) {
	if !validID(opts.UserID) {
		return []*model.Notification{}, nil
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultNotificationPageSize
	}
	limit = min(limit, maxNotificationPageSize)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(notificationColumns()...),
		database.WithCondition(database.WhereCond("user_id", database.Equal, opts.UserID)),
		database.WithOrderBy("created_at", sortDirDesc),
		database.WithLimit(limit),
		database.WithOffset(max(opts.Offset, 0)),
	}
	if opts.UnreadOnly {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("is_read", database.Equal, false),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("notifications", queryOpts...))

	var rowsOut []model.Notification
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Notification])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	res := make([]*model.Notification, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// CountUnread returns how many unread notifications a user has.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("notifications",
		database.WithCountOnly(),
		database.WithCondition(database.WhereCond("user_id", database.Equal, userID)),
		database.WithCondition(database.WhereCond("is_read", database.Equal, false)),
	))

	var count int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one of the user's notifications read. It reports false when
// the notification does not exist, belongs to someone else, or was already read.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id string) (bool, error) {
	if !validID(userID) || !validID(id) {
		return false, nil
	}
	n, err := r.exec(ctx, notificationMarkReadQuery, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return n > 0, nil
}

// MarkAllRead marks every unread notification of the user read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if !validID(userID) {
		return 0, nil
	}
	n, err := r.exec(ctx, notificationMarkAllReadQuery, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return int(n), nil
}

// DeleteReadBefore removes up to limit read notifications created before the cutoff.
func (r *NotificationRepo) DeleteReadBefore(ctx context.Context, before time.Time, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}
	n, err := r.exec(ctx, notificationDeleteReadQuery, before.UTC(), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to delete read notifications: %w", err)
	}
	return int(n), nil
}

func (r *NotificationRepo) exec(ctx context.Context, q string, args ...any) (int64, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, q, args...)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	return affected, err
}

var _ core.NotificationRepository = (*NotificationRepo)(nil)
