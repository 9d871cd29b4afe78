package testutil

import (
	"errors"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTestDBConfig(t *testing.T) {
	t.Run("defaults to local test database port 55432", func(t *testing.T) {
		for _, k := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME"} {
			t.Setenv(k, "")
		}
		assert.Equal(t, TestDBConfig{
			Host: "localhost", Port: "55432", User: "jobportal", Password: "jobportal", DBName: "jobportal",
		}, DefaultTestDBConfig())
	})

	t.Run("respects TEST_DB_* environment variables", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "postgres")
		t.Setenv("TEST_DB_PORT", "5432")
		cfg := DefaultTestDBConfig()
		assert.Equal(t, "postgres", cfg.Host)
		assert.Equal(t, "5432", cfg.Port)
	})
}

func TestTestDBConfig_DSN(t *testing.T) {
	t.Setenv("DB_SSL_MODE", "")
	cfg := TestDBConfig{Host: "db", Port: "5432", User: "u", Password: "p@ss", DBName: "portal"}

	u, err := url.Parse(cfg.DSN("t_ab12,public"))
	require.NoError(t, err)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/portal", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss", pw)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Equal(t, "t_ab12,public", u.Query().Get("search_path"))

	plain, err := url.Parse(cfg.DSN(""))
	require.NoError(t, err)
	assert.False(t, plain.Query().Has("search_path"))
}

func TestRunConcurrent(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("boom")

	errs := RunConcurrent(
		func() error { calls.Add(1); return nil },
		func() error { calls.Add(1); return boom },
		func() error { calls.Add(1); return nil },
	)

	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], boom)
	assert.NoError(t, errs[2])
}

func TestUniqueMobile(t *testing.T) {
	a, b := UniqueMobile(), UniqueMobile()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 10)
}
