package bootstrap

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/target/jobportal/config"
)

func TestBuildAuthServiceReturnsNilWithoutBackends(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name string
		db   *sql.DB
	}{
		{name: "no redis or database"},
		{name: "database without redis", db: &sql.DB{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := AuthConfig{
				Session:     config.SessionConfig{BcryptCost: 10},
				DB:          tt.db,
				RedisClient: nil,
				Logger:      logger,
			}

			if svc := BuildAuthService(cfg); svc != nil {
				t.Fatalf("BuildAuthService() = %v, want nil", svc)
			}
		})
	}
}
