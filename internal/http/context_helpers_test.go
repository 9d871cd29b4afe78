package httpx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/jobportal/internal/domain/auth"
	"github.com/target/jobportal/internal/i18n"
)

func TestGetUserSessionFromContext(t *testing.T) {
	// No session
	if s, ok := GetUserSessionFromContext(context.Background()); assert.False(t, ok) {
		assert.Nil(t, s)
	}
	assert.NotNil(t, GetSessionFromContext(context.Background()), "falls back to an anonymous session")

	// With session
	sess := &domainauth.Session{ID: "abc", Role: domainauth.RoleEmployer}
	ctx := SetSessionInContext(context.Background(), sess)
	s, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, sess, s)
}

func TestIsGuestUser(t *testing.T) {
	// No session => guest
	assert.True(t, IsGuestUser(context.Background()))

	// Anonymous session with only a locale => guest
	anon := &domainauth.Session{ID: "g", Locale: "ta"}
	assert.True(t, IsGuestUser(SetSessionInContext(context.Background(), anon)))

	user := &domainauth.Session{ID: "u", UserID: "42", Role: domainauth.RoleEmployee}
	assert.False(t, IsGuestUser(SetSessionInContext(context.Background(), user)))
}

func TestTranslatorFromContext(t *testing.T) {
	bundle, err := i18n.Load("en")
	require.NoError(t, err)

	assert.Equal(t, "Login", TranslatorFromContext(context.Background()).T("login", "Login"))

	ctx := withRequestState(context.Background(), nil, bundle.For("ta"))
	assert.Equal(t, "ta", TranslatorFromContext(ctx).Locale())

	// Replacing the session keeps the translator.
	ctx = SetSessionInContext(ctx, &domainauth.Session{ID: "x"})
	assert.Equal(t, "ta", TranslatorFromContext(ctx).Locale())
}
