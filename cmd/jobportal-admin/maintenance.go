package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/target/jobportal/internal/adapters/reaper"
	"github.com/target/jobportal/internal/bootstrap"
	"github.com/target/jobportal/internal/data"
	"github.com/target/jobportal/internal/service"
)

type maintenanceOptions struct {
	MaxAge  time.Duration
	Timeout time.Duration
}

func parseMaintenanceFlags(name string, args []string, defaultMaxAge time.Duration) (maintenanceOptions, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts maintenanceOptions
	if defaultMaxAge > 0 {
		fs.DurationVar(&opts.MaxAge, "max-age", defaultMaxAge, "Delete rows older than this")
	}
	fs.DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "Maximum duration for the run")

	if err := fs.Parse(args); err != nil {
		return maintenanceOptions{}, err
	}
	if opts.Timeout <= 0 {
		return maintenanceOptions{}, errors.New("--timeout must be greater than zero")
	}
	if defaultMaxAge > 0 && opts.MaxAge <= 0 {
		return maintenanceOptions{}, errors.New("--max-age must be greater than zero")
	}
	return opts, nil
}

func runPurgeNotifications(cmdCtx *commandContext, args []string) error {
	reaperCfg := cmdCtx.Config.Reaper
	opts, err := parseMaintenanceFlags("purge-notifications", args, reaperCfg.NotificationMaxAge)
	if err != nil {
		return err
	}
	reaperCfg.NotificationMaxAge = opts.MaxAge

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		runner, runnerErr := reaper.NewRunner(reaper.RunnerOptions{
			DB:     db,
			Config: reaperCfg,
			Logger: cmdCtx.Logger,
		})
		if runnerErr != nil {
			return fmt.Errorf("create reaper runner: %w", runnerErr)
		}
		res, runErr := runner.RunOnce(ctx)
		if runErr != nil {
			return fmt.Errorf("purge notifications: %w", runErr)
		}
		return writef(cmdCtx.Stdout, "deleted %d notifications and %d published events older than %s\n",
			res.Notifications, res.Events, opts.MaxAge)
	})
}

func runRelayEvents(cmdCtx *commandContext, args []string) error {
	opts, err := parseMaintenanceFlags("relay-events", args, 0)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) (err error) {
		pub, pubErr := bootstrap.BuildEventPublisher(cmdCtx.Config.Events, cmdCtx.Logger)
		if pubErr != nil {
			return pubErr
		}
		relay, relayErr := service.NewEventRelayService(service.EventRelayServiceOptions{
			Events:    data.NewEventRepo(db),
			Publisher: pub,
			Config:    cmdCtx.Config.Relay,
			Logger:    cmdCtx.Logger,
		})
		if relayErr != nil {
			return errors.Join(fmt.Errorf("create event relay: %w", relayErr), pub.Close())
		}
		defer func() {
			if cerr := relay.Close(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("close event publisher: %w", cerr))
			}
		}()

		n, runErr := relay.RelayOnce(ctx)
		if runErr != nil {
			return runErr
		}
		return writef(cmdCtx.Stdout, "published %d events via %s\n", n, cmdCtx.Config.Events.Driver)
	})
}
