package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data/pgxutil"
	"github.com/target/jobportal/internal/domain/model"
	apperrors "github.com/target/jobportal/internal/errors"
)

// MessageRepo provides database operations for application threads.
type MessageRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMessageRepo creates a new MessageRepo with real time provider.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewMessageRepoWithTimeProvider creates a new MessageRepo with a custom time provider (useful for tests).
func NewMessageRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: tp}
}

const (
	messageInsertQuery = `
		WITH inserted AS (
			INSERT INTO messages (application_id, sender_id, content, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id, application_id, sender_id, content, created_at
		)
		SELECT i.id, i.application_id, i.sender_id, u.name AS sender_name, i.content, i.created_at
		FROM inserted i
		JOIN users u ON u.id = i.sender_id`

	messageListByApplicationsQuery = `
		SELECT m.id, m.application_id, m.sender_id, u.name AS sender_name, m.content, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.application_id = ANY($1::uuid[])
		ORDER BY m.created_at ASC, m.id ASC`
)

// Create appends a message to an application's thread. Participation is checked by the caller.
func (r *MessageRepo) Create(ctx context.Context, req *model.CreateMessageRequest) (*model.Message, error) {
	if req == nil {
		return nil, ErrRequestRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !validID(req.ApplicationID) {
		return nil, ErrApplicationNotFound
	}

	var out model.Message
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, messageInsertQuery,
			req.ApplicationID, req.SenderID, req.Content, r.timeProvider.Now().UTC())
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Message])
		return err
	})
	if apperrors.IsForeignKeyViolation(err) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, mapWriteErr(err, "failed to create message", nil)
	}
	return &out, nil
}

// ListByApplication returns an application's thread oldest first.
func (r *MessageRepo) ListByApplication(ctx context.Context, applicationID string) ([]*model.Message, error) {
	grouped, err := r.ListByApplications(ctx, []string{applicationID})
	if err != nil {
		return nil, err
	}
	return grouped[applicationID], nil
}

// ListByApplications returns threads for several applications keyed by application ID.
func (r *MessageRepo) ListByApplications(
	ctx context.Context,
	applicationIDs []string,
) (map[string][]*model.Message, error) {
	out := make(map[string][]*model.Message, len(applicationIDs))
	ids := make([]string, 0, len(applicationIDs))
	for _, id := range applicationIDs {
		if validID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return out, nil
	}

	var rowsOut []model.Message
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, messageListByApplicationsQuery, ids)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Message])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	for i := range rowsOut {
		m := &rowsOut[i]
		out[m.ApplicationID] = append(out[m.ApplicationID], m)
	}
	return out, nil
}

var _ core.MessageRepository = (*MessageRepo)(nil)
