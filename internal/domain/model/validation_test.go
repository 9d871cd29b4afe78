package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/jobportal/internal/domain/auth"
)

func TestValidMobile(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9876543210", true},
		{"+919876543210", true},
		{" 9876543210 ", true},
		{"123456789012345", true},
		{"1234567890123456", false},
		{"987654321", false},
		{"98765-43210", false},
		{"++919876543210", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidMobile(tt.in))
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.co", true},
		{"first.last+tag@example-mail.co.in", true},
		{"no-at-sign.example.com", false},
		{"user@nodot", false},
		{"user@@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.in))
		})
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{Name: " Meena ", Mobile: "9876543210", Password: "secret1", Role: "Employer"}
	}

	t.Run("valid request is normalized", func(t *testing.T) {
		r := valid()
		require.NoError(t, r.Validate())
		assert.Equal(t, "Meena", r.Name)
		assert.Equal(t, string(auth.RoleEmployer), r.Role)
	})

	t.Run("short password is accepted", func(t *testing.T) {
		r := valid()
		r.Password = "abc"
		require.NoError(t, r.Validate())
	})

	t.Run("72 byte password is accepted", func(t *testing.T) {
		r := valid()
		r.Password = strings.Repeat("க", 24)
		require.NoError(t, r.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		want   error
	}{
		{"missing name", func(r *RegisterRequest) { r.Name = "  " }, ErrAllFieldsRequired},
		{"missing password", func(r *RegisterRequest) { r.Password = "" }, ErrAllFieldsRequired},
		{"missing role", func(r *RegisterRequest) { r.Role = "" }, ErrAllFieldsRequired},
		{"bad mobile", func(r *RegisterRequest) { r.Mobile = "12345" }, ErrInvalidMobile},
		{"password over 72 bytes", func(r *RegisterRequest) { r.Password = strings.Repeat("p", 73) }, ErrPasswordLength},
		{"tamil password over 72 bytes", func(r *RegisterRequest) { r.Password = strings.Repeat("க", 25) }, ErrPasswordLength},
		{"unknown role", func(r *RegisterRequest) { r.Role = "admin" }, ErrInvalidRole},
		{"long name", func(r *RegisterRequest) { r.Name = strings.Repeat("x", 101) }, ErrFieldTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(), tt.want)
		})
	}
}

func TestJobInput_Validate(t *testing.T) {
	in := JobInput{Title: " Go dev ", Description: "Build things", Company: "Acme", Location: "Chennai"}
	require.NoError(t, in.Validate())
	assert.Equal(t, "Go dev", in.Title)

	missing := JobInput{Title: "x", Description: "y", Company: "", Location: "z"}
	assert.ErrorIs(t, missing.Validate(), ErrAllFieldsRequired)

	long := JobInput{Title: strings.Repeat("t", 101), Description: "y", Company: "c", Location: "z"}
	assert.ErrorIs(t, long.Validate(), ErrFieldTooLong)

	req := CreateJobRequest{JobInput: in}
	assert.ErrorIs(t, req.Validate(), ErrAllFieldsRequired)
}

func TestCreateApplicationRequest_Validate(t *testing.T) {
	base := CreateApplicationRequest{JobID: "j1", ApplicantID: "u1", Email: "me@example.com", Phone: "+919876543210"}

	r := base
	require.NoError(t, r.Validate())

	r = base
	r.Email = "not-an-email"
	assert.ErrorIs(t, r.Validate(), ErrInvalidEmail)

	r = base
	r.Phone = "12"
	assert.ErrorIs(t, r.Validate(), ErrInvalidMobile)

	r = base
	r.Phone = ""
	assert.NoError(t, r.Validate())

	r = base
	r.Email = ""
	assert.ErrorIs(t, r.Validate(), ErrAllFieldsRequired)
}

func TestCreateMessageRequest_Validate(t *testing.T) {
	r := CreateMessageRequest{ApplicationID: "a", SenderID: "u", Content: "   "}
	assert.ErrorIs(t, r.Validate(), ErrEmptyMessage)

	r = CreateMessageRequest{ApplicationID: "a", SenderID: "u", Content: " hello "}
	require.NoError(t, r.Validate())
	assert.Equal(t, "hello", r.Content)
}

func TestApplicationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to ApplicationStatus
		want     bool
	}{
		{ApplicationStatusPending, ApplicationStatusApproved, true},
		{ApplicationStatusPending, ApplicationStatusRejected, true},
		{ApplicationStatusApproved, ApplicationStatusApproved, true},
		{ApplicationStatusApproved, ApplicationStatusRejected, false},
		{ApplicationStatusRejected, ApplicationStatusApproved, false},
		{ApplicationStatusPending, ApplicationStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestApplicationDetail_IsParticipant(t *testing.T) {
	d := &ApplicationDetail{Application: Application{ApplicantID: "emp"}, EmployerID: "boss"}
	assert.True(t, d.IsParticipant("emp"))
	assert.True(t, d.IsParticipant("boss"))
	assert.False(t, d.IsParticipant("other"))
	assert.False(t, d.IsParticipant(""))
}
