package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data/database"
	"github.com/target/jobportal/internal/data/pgxutil"
	"github.com/target/jobportal/internal/domain/model"
)

const (
	sortDirDesc = "DESC"

	defaultJobPageSize = 10
	maxJobPageSize     = 100
)

// JobRepo provides database operations for jobs.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobRepo creates a new JobRepo with real time provider.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobRepoWithTimeProvider creates a new JobRepo with a custom time provider (useful for tests).
func NewJobRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobRepo {
	return &JobRepo{DB: db, timeProvider: tp}
}

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	jobInsertQuery = `
		INSERT INTO jobs (title, description, company, location, posted_at, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, description, company, location, posted_at, user_id`

	jobGetByIDQuery = `
		SELECT id, title, description, company, location, posted_at, user_id
		FROM jobs
		WHERE id = $1`

	jobUpdateQuery = `
		UPDATE jobs
		SET title = $1, description = $2, company = $3, location = $4
		WHERE id = $5
		RETURNING id, title, description, company, location, posted_at, user_id`

	jobDeleteQuery = `DELETE FROM jobs WHERE id = $1`
)

// jobColumns returns the standard column list for dynamic job queries.
func jobColumns() []string {
	return []string{"id", "title", "description", "company", "location", "posted_at", "user_id"}
}

// Create inserts a new job stamped with the current time.
func (r *JobRepo) Create(ctx context.Context, req *model.CreateJobRequest) (*model.Job, error) {
	if req == nil {
		return nil, ErrRequestRequired
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobInsertQuery,
			req.Title, req.Description, req.Company, req.Location,
			r.timeProvider.Now().UTC(), req.UserID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		return nil, mapWriteErr(err, "failed to create job", nil)
	}
	return &out, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	if !validID(id) {
		return nil, ErrJobNotFound
	}
	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		return nil, mapWriteErr(err, "failed to get job by ID", ErrJobNotFound)
	}
	return &out, nil
}

// List returns jobs newest first, filtered by title/location substring and posting date.
func (r *JobRepo) List(ctx context.Context, opts model.JobListOptions) ([]*model.Job, error) {
	query, args := database.BuildListQuery(buildJobQueryOptions(opts))

	var rowsOut []model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Job])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	res := make([]*model.Job, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// buildJobQueryOptions translates listing filters into query builder options.
func buildJobQueryOptions(opts model.JobListOptions) *database.ListQueryOptions {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultJobPageSize
	}
	limit = min(limit, maxJobPageSize)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(jobColumns()...),
		database.WithOrderBy("posted_at", sortDirDesc),
		database.WithLimit(limit),
		database.WithOffset(max(opts.Offset, 0)),
	}
	if t := strings.TrimSpace(opts.Title); t != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("title", database.ILike, database.ContainsPattern(t)),
		))
	}
	if l := strings.TrimSpace(opts.Location); l != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("location", database.ILike, database.ContainsPattern(l)),
		))
	}
	if opts.PostedSince != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("posted_at", database.GreaterThanOrEqual, opts.PostedSince.UTC()),
		))
	}
	if opts.UserID != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("user_id", database.Equal, opts.UserID),
		))
	}
	return database.NewListQueryOptions("jobs", queryOpts...)
}

// Update replaces the editable fields of a job. Ownership is checked by the caller.
func (r *JobRepo) Update(ctx context.Context, id string, in model.JobInput) (*model.Job, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, ErrJobNotFound
	}

	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobUpdateQuery, in.Title, in.Description, in.Company, in.Location, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	})
	if err != nil {
		return nil, mapWriteErr(err, "failed to update job", ErrJobNotFound)
	}
	return &out, nil
}

// Delete removes a job. Applications, messages and events cascade.
func (r *JobRepo) Delete(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, jobDeleteQuery, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return affected > 0, nil
}

var _ core.JobRepository = (*JobRepo)(nil)
