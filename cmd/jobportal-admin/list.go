package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/target/jobportal/internal/data"
	"github.com/target/jobportal/internal/domain/model"
)

const defaultListLimit = 50

type listJobsOptions struct {
	Employer string
	Title    string
	Location string
	Since    string
	Limit    int
	Offset   int
	Query    string
	Timeout  time.Duration
}

type listApplicationsOptions struct {
	Employer  string
	Applicant string
	Status    string
	Limit     int
	Offset    int
	Query     string
	Timeout   time.Duration
}

func runListJobs(cmdCtx *commandContext, args []string) error {
	opts, err := parseListJobsFlags(args)
	if err != nil {
		return err
	}
	listOpts, err := opts.toModel()
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		jobs, listErr := data.NewJobRepo(db).List(ctx, listOpts)
		if listErr != nil {
			return fmt.Errorf("list jobs: %w", listErr)
		}
		if jobs == nil {
			jobs = []*model.Job{}
		}
		return printJSON(cmdCtx.Stdout, jobs, opts.Query)
	})
}

func runListApplications(cmdCtx *commandContext, args []string) error {
	opts, err := parseListApplicationsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		apps, listErr := data.NewApplicationRepo(db).List(ctx, opts.toModel())
		if listErr != nil {
			return fmt.Errorf("list applications: %w", listErr)
		}
		if apps == nil {
			apps = []*model.ApplicationDetail{}
		}
		return printJSON(cmdCtx.Stdout, apps, opts.Query)
	})
}

func parseListJobsFlags(args []string) (listJobsOptions, error) {
	fs := flag.NewFlagSet("list-jobs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listJobsOptions
	fs.StringVar(&opts.Employer, "employer", "", "Only jobs posted by this employer ID")
	fs.StringVar(&opts.Title, "title", "", "Case-insensitive title substring")
	fs.StringVar(&opts.Location, "location", "", "Case-insensitive location substring")
	fs.StringVar(&opts.Since, "since", "", "Only jobs posted on or after this date (YYYY-MM-DD)")
	fs.IntVar(&opts.Limit, "limit", defaultListLimit, "Maximum number of rows")
	fs.IntVar(&opts.Offset, "offset", 0, "Rows to skip")
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression applied to the JSON output")
	fs.DurationVar(&opts.Timeout, "timeout", defaultQueryTimeout, "Maximum duration for the query")

	if err := fs.Parse(args); err != nil {
		return listJobsOptions{}, err
	}
	if err := validatePaging(opts.Limit, opts.Offset, opts.Timeout); err != nil {
		return listJobsOptions{}, err
	}
	if err := validateQuery(opts.Query); err != nil {
		return listJobsOptions{}, err
	}
	return opts, nil
}

func parseListApplicationsFlags(args []string) (listApplicationsOptions, error) {
	fs := flag.NewFlagSet("list-applications", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listApplicationsOptions
	fs.StringVar(&opts.Employer, "employer", "", "Only applications to this employer's jobs")
	fs.StringVar(&opts.Applicant, "applicant", "", "Only applications by this applicant ID")
	fs.StringVar(&opts.Status, "status", "", "Filter by status (pending, approved, rejected)")
	fs.IntVar(&opts.Limit, "limit", defaultListLimit, "Maximum number of rows")
	fs.IntVar(&opts.Offset, "offset", 0, "Rows to skip")
	fs.StringVar(&opts.Query, "query", "", "JMESPath expression applied to the JSON output")
	fs.DurationVar(&opts.Timeout, "timeout", defaultQueryTimeout, "Maximum duration for the query")

	if err := fs.Parse(args); err != nil {
		return listApplicationsOptions{}, err
	}
	if err := validatePaging(opts.Limit, opts.Offset, opts.Timeout); err != nil {
		return listApplicationsOptions{}, err
	}
	opts.Status = strings.ToLower(strings.TrimSpace(opts.Status))
	if opts.Status != "" && !model.ApplicationStatus(opts.Status).Valid() {
		return listApplicationsOptions{}, fmt.Errorf("invalid --status %q", opts.Status)
	}
	if err := validateQuery(opts.Query); err != nil {
		return listApplicationsOptions{}, err
	}
	return opts, nil
}

func validatePaging(limit, offset int, timeout time.Duration) error {
	if limit <= 0 {
		return errors.New("--limit must be greater than zero")
	}
	if offset < 0 {
		return errors.New("--offset must not be negative")
	}
	if timeout <= 0 {
		return errors.New("--timeout must be greater than zero")
	}
	return nil
}

func validateQuery(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	if _, err := jmespath.Compile(expr); err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}
	return nil
}

func (o listJobsOptions) toModel() (model.JobListOptions, error) {
	opts := model.JobListOptions{
		Limit:    o.Limit,
		Offset:   o.Offset,
		Title:    strings.TrimSpace(o.Title),
		Location: strings.TrimSpace(o.Location),
		UserID:   strings.TrimSpace(o.Employer),
	}
	if s := strings.TrimSpace(o.Since); s != "" {
		since, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return model.JobListOptions{}, fmt.Errorf("invalid --since %q: want YYYY-MM-DD", s)
		}
		opts.PostedSince = &since
	}
	return opts, nil
}

func (o listApplicationsOptions) toModel() model.ApplicationListOptions {
	opts := model.ApplicationListOptions{
		Limit:       o.Limit,
		Offset:      o.Offset,
		EmployerID:  strings.TrimSpace(o.Employer),
		ApplicantID: strings.TrimSpace(o.Applicant),
	}
	if o.Status != "" {
		status := model.ApplicationStatus(o.Status)
		opts.Status = &status
	}
	return opts
}

// printJSON writes v as indented JSON. When query is set, v is first
// round-tripped through JSON so the expression sees the same field names
// that are printed.
func printJSON(w io.Writer, v any, query string) error {
	out := v
	if strings.TrimSpace(query) != "" {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("decode results: %w", err)
		}
		out, err = jmespath.Search(query, doc)
		if err != nil {
			return fmt.Errorf("evaluate --query: %w", err)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
