package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/target/jobportal/config"
	"github.com/target/jobportal/internal/adapters/passwords"
	redisadapter "github.com/target/jobportal/internal/adapters/redis"
	"github.com/target/jobportal/internal/data"
	"github.com/target/jobportal/internal/observability/metrics"
	"github.com/target/jobportal/internal/service"
)

// sessionKeyPrefix namespaces session keys in a shared Redis.
const sessionKeyPrefix = "session:"

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Session     config.SessionConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Metrics     metrics.Recorder
	Logger      *slog.Logger
}

// BuildAuthService wires Redis-backed sessions and bcrypt credentials.
// Returns nil when Redis or the database is missing; pages cannot run
// without sessions.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil || cfg.DB == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled",
				"redis_configured", cfg.RedisClient != nil,
				"db_configured", cfg.DB != nil,
			)
		}
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Users:    data.NewUserRepo(cfg.DB),
		Sessions: redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, sessionKeyPrefix),
		Hasher:   passwords.NewBcryptHasher(cfg.Session.BcryptCost),
		TTL:      cfg.Session.TTL,
		Metrics:  cfg.Metrics,
		Logger:   cfg.Logger,
	})
}
