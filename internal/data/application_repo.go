package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data/database"
	"github.com/target/jobportal/internal/data/pgxutil"
	"github.com/target/jobportal/internal/domain/model"
	apperrors "github.com/target/jobportal/internal/errors"
)

const (
	defaultApplicationPageSize = 50
	maxApplicationPageSize     = 200
)

// execer is satisfied by both *pgx.Conn and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ApplicationRepo provides database operations for job applications.
type ApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewApplicationRepo creates a new ApplicationRepo with real time provider.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewApplicationRepoWithTimeProvider creates a new ApplicationRepo with a custom time provider (useful for tests).
func NewApplicationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: tp}
}

const (
	applicationDetailSelect = `
		SELECT a.id, a.job_id, a.applicant_id, a.status, a.message, a.email, a.phone, a.created_at,
		       j.title AS job_title, j.company AS job_company, j.location AS job_location,
		       j.user_id AS employer_id, u.name AS applicant_name
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN users u ON u.id = a.applicant_id`

	applicationDetailQuery = applicationDetailSelect + `
		WHERE a.id = $1`

	applicationDetailForUpdateQuery = applicationDetailQuery + `
		FOR UPDATE OF a`

	applicationJobLookupQuery = `SELECT title, user_id FROM jobs WHERE id = $1`

	applicationInsertQuery = `
		INSERT INTO applications (job_id, applicant_id, status, message, email, phone, created_at)
		VALUES ($1, $2, 'pending', $3, $4, $5, $6)
		RETURNING id, job_id, applicant_id, status, message, email, phone, created_at`

	applicationUpdateStatusQuery = `UPDATE applications SET status = $1 WHERE id = $2`

	applicationAppliedJobsQuery = `
		SELECT job_id FROM applications
		WHERE applicant_id = $1 AND job_id = ANY($2::uuid[])`

	decisionMessageInsertQuery = `
		INSERT INTO messages (application_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4)`

	decisionNotificationInsertQuery = `
		INSERT INTO notifications (user_id, message, is_read, created_at)
		VALUES ($1, $2, FALSE, $3)`

	eventInsertQuery = `
		INSERT INTO application_events (application_id, type, payload, created_at)
		VALUES ($1, $2, $3, $4)`
)

// applicationDetailColumns lists the joined columns for dynamic application queries.
func applicationDetailColumns() []string {
	return []string{
		"a.id", "a.job_id", "a.applicant_id", "a.status", "a.message", "a.email", "a.phone", "a.created_at",
		"j.title AS job_title", "j.company AS job_company", "j.location AS job_location",
		"j.user_id AS employer_id", "u.name AS applicant_name",
	}
}

const applicationDetailTables = `applications a JOIN jobs j ON j.id = a.job_id JOIN users u ON u.id = a.applicant_id`

// Create records a pending application and its submitted event in one transaction.
func (r *ApplicationRepo) Create(
	ctx context.Context,
	req *model.CreateApplicationRequest,
) (*model.Application, error) {
	if req == nil {
		return nil, ErrRequestRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !validID(req.JobID) {
		return nil, ErrJobNotFound
	}

	now := r.timeProvider.Now().UTC()
	var out model.Application
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		var jobTitle, employerID string
		if err := tx.QueryRow(ctx, applicationJobLookupQuery, req.JobID).Scan(&jobTitle, &employerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrJobNotFound
			}
			return err
		}

		rows, err := tx.Query(ctx, applicationInsertQuery,
			req.JobID, req.ApplicantID, req.Message, req.Email, req.Phone, now)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		if err != nil {
			return err
		}

		return insertApplicationEvent(ctx, tx, &model.ApplicationDetail{
			Application: out,
			JobTitle:    jobTitle,
			EmployerID:  employerID,
		}, model.ApplicationEventSubmitted, now)
	}})
	switch {
	case apperrors.IsUniqueViolation(err):
		return nil, ErrAlreadyApplied
	case apperrors.IsForeignKeyViolation(err):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, mapWriteErr(err, "failed to create application", nil)
	}
	return &out, nil
}

// GetDetail retrieves an application joined with its job and applicant.
func (r *ApplicationRepo) GetDetail(ctx context.Context, id string) (*model.ApplicationDetail, error) {
	if !validID(id) {
		return nil, ErrApplicationNotFound
	}
	var out model.ApplicationDetail
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, applicationDetailQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ApplicationDetail])
		return err
	})
	if err != nil {
		return nil, mapWriteErr(err, "failed to get application", ErrApplicationNotFound)
	}
	return &out, nil
}

// List returns applications newest first for one employer's jobs or one applicant.
func (r *ApplicationRepo) List(
	ctx context.Context,
	opts model.ApplicationListOptions,
) ([]*model.ApplicationDetail, error) {
	query, args := database.BuildListQuery(buildApplicationQueryOptions(opts))

	var rowsOut []model.ApplicationDetail
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ApplicationDetail])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	res := make([]*model.ApplicationDetail, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

func buildApplicationQueryOptions(opts model.ApplicationListOptions) *database.ListQueryOptions {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultApplicationPageSize
	}
	limit = min(limit, maxApplicationPageSize)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(applicationDetailColumns()...),
		database.WithOrderBy("a.created_at", sortDirDesc),
		database.WithLimit(limit),
		database.WithOffset(max(opts.Offset, 0)),
	}
	if opts.EmployerID != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("j.user_id", database.Equal, opts.EmployerID),
		))
	}
	if opts.ApplicantID != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("a.applicant_id", database.Equal, opts.ApplicantID),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("a.status", database.Equal, string(*opts.Status)),
		))
	}
	return database.NewListQueryOptions(applicationDetailTables, queryOpts...)
}

// AppliedJobIDs returns the subset of jobIDs the applicant has already applied to.
func (r *ApplicationRepo) AppliedJobIDs(
	ctx context.Context,
	applicantID string,
	jobIDs []string,
) (map[string]bool, error) {
	out := make(map[string]bool)
	ids := make([]string, 0, len(jobIDs))
	for _, id := range jobIDs {
		if validID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 || !validID(applicantID) {
		return out, nil
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, applicationAppliedJobsQuery, applicantID, ids)
		if err != nil {
			return err
		}
		jobs, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return err
		}
		for _, id := range jobs {
			out[id] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load applied jobs: %w", err)
	}
	return out, nil
}

// Decide applies an employer decision under a row lock. The status change,
// the thread message, the applicant notification and the outbox event commit together.
func (r *ApplicationRepo) Decide(
	ctx context.Context,
	req model.DecideApplicationRequest,
) (*model.DecisionResult, error) {
	if !req.Status.Decided() {
		return nil, model.ErrInvalidTransition
	}
	if !validID(req.ApplicationID) {
		return nil, ErrApplicationNotFound
	}

	now := r.timeProvider.Now().UTC()
	result := &model.DecisionResult{}
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, applicationDetailForUpdateQuery, req.ApplicationID)
		if err != nil {
			return err
		}
		detail, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ApplicationDetail])
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrApplicationNotFound
			}
			return err
		}
		result.Application = &detail

		if detail.EmployerID != req.EmployerID {
			return ErrNotJobOwner
		}
		if !detail.Status.CanTransitionTo(req.Status) {
			return model.ErrInvalidTransition
		}
		if detail.Status == req.Status {
			return nil
		}

		if _, err = tx.Exec(ctx, applicationUpdateStatusQuery, req.Status, detail.ID); err != nil {
			return err
		}
		detail.Status = req.Status
		result.Changed = true

		if msg := strings.TrimSpace(req.Message); msg != "" {
			if _, err = tx.Exec(ctx, decisionMessageInsertQuery, detail.ID, req.EmployerID, msg, now); err != nil {
				return err
			}
		}
		if note := strings.TrimSpace(req.Notification); note != "" {
			if _, err = tx.Exec(ctx, decisionNotificationInsertQuery, detail.ApplicantID, note, now); err != nil {
				return err
			}
		}
		return insertApplicationEvent(ctx, tx, &detail, model.EventTypeForStatus(req.Status), now)
	}})
	if err != nil {
		return nil, mapWriteErr(err, "failed to decide application", ErrApplicationNotFound)
	}
	return result, nil
}

// insertApplicationEvent appends an outbox row describing detail's current state.
func insertApplicationEvent(
	ctx context.Context,
	db execer,
	detail *model.ApplicationDetail,
	typ model.ApplicationEventType,
	at time.Time,
) error {
	payload, err := json.Marshal(model.ApplicationEventPayload{
		ApplicationID: detail.ID,
		JobID:         detail.JobID,
		JobTitle:      detail.JobTitle,
		ApplicantID:   detail.ApplicantID,
		EmployerID:    detail.EmployerID,
		Status:        detail.Status,
		OccurredAt:    at,
	})
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = db.Exec(ctx, eventInsertQuery, detail.ID, typ, payload, at)
	return err
}

var _ core.ApplicationRepository = (*ApplicationRepo)(nil)
