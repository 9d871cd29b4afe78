package data

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/target/jobportal/internal/core"
	"github.com/target/jobportal/internal/data/pgxutil"
	"github.com/target/jobportal/internal/domain/model"
	apperrors "github.com/target/jobportal/internal/errors"
)

// UserRepo provides database operations for users.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

const (
	userColumns = `id, name, mobile, password_hash, role, created_at`

	userInsertQuery = `
		INSERT INTO users (name, mobile, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	userGetByIDQuery = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	userGetByMobileQuery = `SELECT ` + userColumns + ` FROM users WHERE mobile = $1`
)

// Create inserts a new user. A duplicate mobile number yields ErrMobileExists.
func (r *UserRepo) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req == nil {
		return nil, ErrRequestRequired
	}

	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userInsertQuery,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Mobile),
			req.PasswordHash,
			req.Role,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if apperrors.IsUniqueViolation(err) {
		return nil, ErrMobileExists
	}
	if err != nil {
		return nil, mapWriteErr(err, "failed to create user", nil)
	}
	return &out, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if !validID(id) {
		return nil, ErrUserNotFound
	}
	return r.getByQuery(ctx, userGetByIDQuery, "failed to get user by ID", id)
}

// GetByMobile retrieves a user by mobile number.
func (r *UserRepo) GetByMobile(ctx context.Context, mobile string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByMobileQuery, "failed to get user by mobile", strings.TrimSpace(mobile))
}

func (r *UserRepo) getByQuery(ctx context.Context, q, errMsg string, args ...any) (*model.User, error) {
	var user model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, mapWriteErr(err, errMsg, ErrUserNotFound)
	}
	return &user, nil
}

// validID reports whether id can be compared against a UUID column.
// Malformed IDs from URLs are treated as missing rows rather than driver errors.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var _ core.UserRepository = (*UserRepo)(nil)
