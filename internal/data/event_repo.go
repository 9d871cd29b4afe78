package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data/pgxutil"
	"github.com/target/jobportal/internal/domain/model"
)

// EventRepo provides outbox operations for application events.
type EventRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEventRepo creates a new EventRepo with real time provider.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewEventRepoWithTimeProvider creates a new EventRepo with a custom time provider (useful for tests).
func NewEventRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *EventRepo {
	return &EventRepo{DB: db, timeProvider: tp}
}

const (
	eventClaimQuery = `
		SELECT id, application_id, type, payload, created_at, published_at
		FROM application_events
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED`

	eventMarkPublishedQuery = `
		UPDATE application_events SET published_at = $1
		WHERE id = ANY($2::uuid[])`

	eventDeletePublishedQuery = `
		DELETE FROM application_events
		WHERE id IN (
			SELECT id FROM application_events
			WHERE published_at IS NOT NULL AND published_at < $1
			ORDER BY published_at
			LIMIT $2
		)`
)

// Create appends an event to the outbox.
func (r *EventRepo) Create(ctx context.Context, evt *model.ApplicationEvent) error {
	if evt == nil {
		return ErrRequestRequired
	}
	if !validID(evt.ApplicationID) {
		return ErrApplicationNotFound
	}
	at := evt.CreatedAt
	if at.IsZero() {
		at = r.timeProvider.Now().UTC()
	}
	payload := evt.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, eventInsertQuery, evt.ApplicationID, evt.Type, payload, at)
		return err
	})
	if err != nil {
		return mapWriteErr(err, "failed to create event", nil)
	}
	return nil
}

// PublishPending locks up to limit unpublished events, passes them to fn in
// creation order, and stamps them published when fn returns nil. Rows locked by
// another relay are skipped. An fn error rolls the claim back so the batch is retried.
func (r *EventRepo) PublishPending(
	ctx context.Context,
	limit int,
	fn func([]*model.ApplicationEvent) error,
) (int, error) {
	if limit <= 0 {
		return 0, nil
	}

	var published int
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, eventClaimQuery, limit)
		if err != nil {
			return err
		}
		claimed, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[model.ApplicationEvent])
		if err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}

		if err = fn(claimed); err != nil {
			return err
		}

		ids := make([]string, len(claimed))
		for i, e := range claimed {
			ids[i] = e.ID
		}
		ct, err := tx.Exec(ctx, eventMarkPublishedQuery, r.timeProvider.Now().UTC(), ids)
		if err != nil {
			return err
		}
		published = int(ct.RowsAffected())
		return nil
	}})
	if err != nil {
		return 0, fmt.Errorf("failed to publish pending events: %w", err)
	}
	return published, nil
}

// DeletePublishedBefore removes up to limit events published before the cutoff.
func (r *EventRepo) DeletePublishedBefore(ctx context.Context, before time.Time, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, eventDeletePublishedQuery, before.UTC(), limit)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete published events: %w", err)
	}
	return int(affected), nil
}

var _ core.EventRepository = (*EventRepo)(nil)
