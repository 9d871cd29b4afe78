package pages

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobportal/internal/domain/model"
)

func TestNewJobRows(t *testing.T) {
	jobs := []*model.Job{{ID: "j1", UserID: "e1"}, {ID: "j2", UserID: "e2"}}

	rows := NewJobRows(jobs, map[string]bool{"j2": true}, "e1")
	require.Len(t, rows, 2)
	assert.True(t, rows[0].CanManage)
	assert.False(t, rows[0].Applied)
	assert.False(t, rows[1].CanManage)
	assert.True(t, rows[1].Applied)

	anon := NewJobRows(jobs, nil, "")
	assert.False(t, anon[0].CanManage, "an empty viewer never manages")
}

func TestApplicationRow(t *testing.T) {
	row := func(s model.ApplicationStatus) ApplicationRow {
		return ApplicationRow{ApplicationDetail: &model.ApplicationDetail{Application: model.Application{Status: s}}}
	}
	assert.Equal(t, "badge-success", row(model.ApplicationStatusApproved).StatusBadgeClass())
	assert.Equal(t, "badge-danger", row(model.ApplicationStatusRejected).StatusBadgeClass())
	assert.Equal(t, "badge-warning", row(model.ApplicationStatusPending).StatusBadgeClass())
	assert.True(t, row(model.ApplicationStatusPending).Pending())
	assert.False(t, row(model.ApplicationStatusApproved).Pending())
}

func TestNotificationsPage_HasUnread(t *testing.T) {
	p := &NotificationsPage{Items: NewNotificationRows([]*model.Notification{{ID: "n1", IsRead: true}})}
	assert.False(t, p.HasUnread())

	p.Items = append(p.Items, NewNotificationRows([]*model.Notification{{ID: "n2"}})...)
	assert.True(t, p.HasUnread())
}

func TestJobFiltersAndForm(t *testing.T) {
	assert.False(t, JobFilters{}.Active())
	assert.True(t, JobFilters{Location: "Chennai"}.Active())

	assert.True(t, (&JobFormPage{Mode: "edit"}).IsEdit())
	assert.False(t, (&JobFormPage{Mode: "create"}).IsEdit())
}

func TestParseDateFilter(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)

	got := ParseDateFilter("2026-03-01", ist)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, ist), *got)

	utc := ParseDateFilter("2026-03-01", nil)
	require.NotNil(t, utc)
	assert.Equal(t, time.UTC, utc.Location())

	assert.Nil(t, ParseDateFilter("", ist))
	assert.Nil(t, ParseDateFilter("01/03/2026", ist))
	assert.Nil(t, ParseDateFilter("2026-02-30", ist))
}
