// Package testutil provides testing utilities and helpers for the job portal.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/target/jobportal/internal/domain/model"
)

var mobileSeq atomic.Int64

// UniqueMobile returns a valid mobile number that is unique within the test process.
func UniqueMobile() string {
	n := mobileSeq.Add(1)
	return fmt.Sprintf("9%09d", (time.Now().UnixNano()/1000+n)%1_000_000_000)
}

// JobRequestBuilder provides a fluent interface for building CreateJobRequest objects for testing.
type JobRequestBuilder struct {
	req *model.CreateJobRequest
}

// NewJobRequest creates a new JobRequestBuilder with sensible defaults.
func NewJobRequest(employerID string) *JobRequestBuilder {
	return &JobRequestBuilder{
		req: &model.CreateJobRequest{
			JobInput: model.JobInput{
				Title:       "Backend Engineer",
				Description: "Build and run services.",
				Company:     "Acme",
				Location:    "Chennai",
			},
			UserID: employerID,
		},
	}
}

// WithTitle sets the job title.
func (b *JobRequestBuilder) WithTitle(title string) *JobRequestBuilder {
	b.req.Title = title
	return b
}

// WithLocation sets the job location.
func (b *JobRequestBuilder) WithLocation(location string) *JobRequestBuilder {
	b.req.Location = location
	return b
}

// WithCompany sets the company name.
func (b *JobRequestBuilder) WithCompany(company string) *JobRequestBuilder {
	b.req.Company = company
	return b
}

// Build returns the constructed CreateJobRequest.
func (b *JobRequestBuilder) Build() *model.CreateJobRequest {
	return b.req
}

// ApplicationRequest returns a valid application request for jobID by applicantID.
func ApplicationRequest(jobID, applicantID string) *model.CreateApplicationRequest {
	return &model.CreateApplicationRequest{
		JobID:       jobID,
		ApplicantID: applicantID,
		Message:     "I would like to apply.",
		Email:       "applicant@example.com",
		Phone:       UniqueMobile(),
	}
}

// SeedUser inserts a user row directly and returns its ID. The password hash is a placeholder.
func SeedUser(t TestingTB, db *sql.DB, name string, role string) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	err := db.QueryRowContext(ctx,
		`INSERT INTO users (name, mobile, password_hash, role) VALUES ($1, $2, $3, $4) RETURNING id`,
		name, UniqueMobile(), "x", role,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed user %s: %v", name, err)
	}
	return id
}

// SeedJob inserts a job row directly for employerID and returns its ID.
func SeedJob(t TestingTB, db *sql.DB, employerID, title string) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id string
	err := db.QueryRowContext(ctx,
		`INSERT INTO jobs (title, description, company, location, user_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		title, "desc", "Acme", "Chennai", employerID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to seed job %s: %v", title, err)
	}
	return id
}
