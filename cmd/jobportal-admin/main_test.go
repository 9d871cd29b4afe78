package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobportal/config"
	"github.com/target/jobportal/internal/domain/model"
)

func testCommandContext(host, stdin string) (*commandContext, *bytes.Buffer) {
	var out bytes.Buffer
	return &commandContext{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config: config.AppConfig{Postgres: config.DBConfig{Host: host, Name: "jobportal", Port: 5432}},
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &out,
	}, &out
}

func TestIsLikelyRemoteHost(t *testing.T) {
	tests := map[string]bool{
		"":                     false,
		"localhost":            false,
		"127.0.0.1":            false,
		"::1":                  false,
		"127.0.0.2":            false,
		"postgres.local":       false,
		"db.example.com":       true,
		"10.1.2.3":             true,
		"  LOCALHOST  ":        false,
		"jobportal-postgres-0": true,
	}
	for host, want := range tests {
		assert.Equal(t, want, isLikelyRemoteHost(host), "host %q", host)
	}
}

func TestGuardRemoteHost(t *testing.T) {
	t.Run("local host passes", func(t *testing.T) {
		cmdCtx, _ := testCommandContext("localhost", "")
		remote, err := guardRemoteHost(cmdCtx, false, "reset")
		require.NoError(t, err)
		assert.False(t, remote)
	})

	t.Run("remote host refused without flag", func(t *testing.T) {
		cmdCtx, _ := testCommandContext("db.example.com", "")
		remote, err := guardRemoteHost(cmdCtx, false, "reset")
		require.ErrorContains(t, err, "--allow-remote")
		assert.True(t, remote)
	})

	t.Run("remote host needs the host typed back", func(t *testing.T) {
		cmdCtx, _ := testCommandContext("db.example.com", "db.example.com\n")
		_, err := guardRemoteHost(cmdCtx, true, "reset")
		require.NoError(t, err)

		cmdCtx, out := testCommandContext("db.example.com", "yes\n")
		_, err = guardRemoteHost(cmdCtx, true, "reset")
		require.EqualError(t, err, "aborted by user")
		assert.Contains(t, out.String(), "Remote safeguard check failed")
	})
}

func TestConfirmAction(t *testing.T) {
	cmdCtx, out := testCommandContext("localhost", "")
	require.NoError(t, confirmAction(cmdCtx, dbResetConfirmOptions{yes: true, target: "db"}, "reset"))
	assert.Empty(t, out.String())

	cmdCtx, _ = testCommandContext("localhost", "y\n")
	require.NoError(t, confirmAction(cmdCtx, dbResetConfirmOptions{target: "db"}, "reset"))

	cmdCtx, out = testCommandContext("db.example.com", "\n")
	err := confirmAction(cmdCtx, dbResetConfirmOptions{yes: true, target: "db", remoteHost: "db.example.com"}, "reset")
	require.EqualError(t, err, "aborted by user")
	assert.Contains(t, out.String(), "appears to be remote")
}

func TestParseFlags(t *testing.T) {
	reset, err := parseDBResetFlags([]string{"--yes", "--seed", "--allow-remote", "--timeout", "1m"})
	require.NoError(t, err)
	assert.Equal(t, dbResetOptions{Timeout: time.Minute, Yes: true, Seed: true, AllowRemote: true}, reset)

	_, err = parseMigrateFlags([]string{"--timeout", "0s"})
	require.Error(t, err)

	seed, err := parseDBSeedFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultMigrationTimeout, seed.Timeout)

	purge, err := parseMaintenanceFlags("purge-notifications", []string{"--max-age", "48h"}, 720*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, purge.MaxAge)

	_, err = parseMaintenanceFlags("relay-events", []string{"--max-age", "1h"}, 0)
	require.Error(t, err, "relay-events has no --max-age flag")
}

func TestParseListFlags(t *testing.T) {
	jobs, err := parseListJobsFlags([]string{"--title", " Go ", "--since", "2026-03-01", "--limit", "5"})
	require.NoError(t, err)
	opts, err := jobs.toModel()
	require.NoError(t, err)
	assert.Equal(t, "Go", opts.Title)
	assert.Equal(t, 5, opts.Limit)
	require.NotNil(t, opts.PostedSince)
	assert.Equal(t, "2026-03-01", opts.PostedSince.Format(time.DateOnly))

	bad, err := parseListJobsFlags([]string{"--since", "yesterday"})
	require.NoError(t, err)
	_, err = bad.toModel()
	require.Error(t, err)

	_, err = parseListJobsFlags([]string{"--query", "[?title=="})
	require.ErrorContains(t, err, "invalid --query")

	_, err = parseListJobsFlags([]string{"--limit", "0"})
	require.Error(t, err)

	apps, err := parseListApplicationsFlags([]string{"--status", "Approved", "--employer", "e1"})
	require.NoError(t, err)
	appOpts := apps.toModel()
	require.NotNil(t, appOpts.Status)
	assert.Equal(t, model.ApplicationStatusApproved, *appOpts.Status)
	assert.Equal(t, "e1", appOpts.EmployerID)

	_, err = parseListApplicationsFlags([]string{"--status", "hired"})
	require.Error(t, err)
}

func TestPrintJSON(t *testing.T) {
	jobs := []*model.Job{
		{ID: "j1", Title: "Backend Developer", Location: "Chennai", UserID: "e1"},
		{ID: "j2", Title: "Accountant", Location: "Madurai", UserID: "e2"},
	}

	var all bytes.Buffer
	require.NoError(t, printJSON(&all, jobs, ""))
	assert.Contains(t, all.String(), `"title": "Backend Developer"`)

	var filtered bytes.Buffer
	require.NoError(t, printJSON(&filtered, jobs, "[?location=='Madurai'].id"))
	assert.JSONEq(t, `["j2"]`, filtered.String())
}

func TestPrintUsageListsCommands(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printUsage(&out))
	for name := range commands() {
		assert.Contains(t, out.String(), name)
	}
}
