package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	minSessionTTL = 5 * time.Minute
	maxSessionTTL = 30 * 24 * time.Hour
)

// SessionConfig controls server-side session behaviour.
type SessionConfig struct {
	// TTL is how long a session lives after it was last written.
	TTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// CookieSecure marks the session and CSRF cookies as Secure.
	// Disable only for plain-http local development.
	CookieSecure bool `env:"SESSION_COOKIE_SECURE" envDefault:"true"`

	// BcryptCost is the work factor used when hashing passwords.
	BcryptCost int `env:"SESSION_BCRYPT_COST" envDefault:"10"`
}

// Sanitize clamps session values into supported ranges.
func (s *SessionConfig) Sanitize() {
	if s.TTL < minSessionTTL {
		s.TTL = minSessionTTL
	}
	if s.TTL > maxSessionTTL {
		s.TTL = maxSessionTTL
	}
	// bcrypt.MinCost..bcrypt.MaxCost
	if s.BcryptCost < 4 {
		s.BcryptCost = 4
	}
	if s.BcryptCost > 31 {
		s.BcryptCost = 31
	}
}

// Locale is a supported UI language tag.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleTamil   Locale = "ta"
)

// UnmarshalText implements encoding.TextUnmarshaler for Locale.
func (l *Locale) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "en", "ta":
		*l = Locale(v)
		return nil
	default:
		return fmt.Errorf("invalid Locale: %q (valid options: en, ta)", v)
	}
}

// I18nConfig controls translation defaults.
type I18nConfig struct {
	// DefaultLocale is used when neither the session nor Accept-Language select a locale.
	DefaultLocale Locale `env:"I18N_DEFAULT_LOCALE" envDefault:"en"`
}

// Sanitize falls back to English when no default locale is set.
func (c *I18nConfig) Sanitize() {
	if c.DefaultLocale == "" {
		c.DefaultLocale = LocaleEnglish
	}
}
