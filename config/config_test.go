package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - event-relay",
			input:    "event-relay",
			expected: map[ServiceMode]bool{ServiceModeEventRelay: true},
		},
		{
			name:  "all services with spaces",
			input: " http , event-relay , reaper ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:       true,
				ServiceModeEventRelay: true,
				ServiceModeReaper:     true,
			},
		},
		{
			name:  "duplicate services",
			input: "http,http,reaper",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:   true,
				ServiceModeReaper: true,
			},
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
		{
			name:        "only commas",
			input:       ",,",
			expectError: true,
		},
		{
			name:        "unknown service",
			input:       "http,scheduler",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d services, got %d", len(tt.expected), len(result))
			}
			for service, expected := range tt.expected {
				if result[service] != expected {
					t.Errorf("expected service %s to be %v, got %v", service, expected, result[service])
				}
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	cfg := AppConfig{Services: "http,reaper"}
	if !cfg.IsHTTPServerEnabled() {
		t.Error("expected http to be enabled")
	}
	if !cfg.IsReaperEnabled() {
		t.Error("expected reaper to be enabled")
	}
	if cfg.IsEventRelayEnabled() {
		t.Error("expected event-relay to be disabled")
	}

	invalid := AppConfig{Services: "bogus"}
	if invalid.IsHTTPServerEnabled() || invalid.IsReaperEnabled() || invalid.IsEventRelayEnabled() {
		t.Error("expected no services enabled for invalid configuration")
	}
}

func TestValidServiceModes(t *testing.T) {
	modes := ValidServiceModes()
	if len(modes) != 3 {
		t.Fatalf("expected 3 service modes, got %d", len(modes))
	}
	for _, m := range modes {
		if _, err := ParseServices(string(m)); err != nil {
			t.Errorf("mode %q should parse: %v", m, err)
		}
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	t.Setenv("I18N_DEFAULT_LOCALE", "TA")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("EVENTS_DRIVER", "kafka")
	t.Setenv("EVENTS_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("EVENTS_KAFKA_TOPIC", "apps")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("expected session TTL 2h, got %s", cfg.Session.TTL)
	}
	if cfg.Session.CookieSecure {
		t.Error("expected insecure cookies")
	}
	if cfg.I18n.DefaultLocale != LocaleTamil {
		t.Errorf("expected default locale ta, got %q", cfg.I18n.DefaultLocale)
	}
	if cfg.Postgres.Host != "db.internal" || cfg.Postgres.Port != 6543 {
		t.Errorf("unexpected postgres config: %+v", cfg.Postgres)
	}
	if cfg.Events.Driver != EventsDriverKafka {
		t.Errorf("expected kafka driver, got %q", cfg.Events.Driver)
	}
	if len(cfg.Events.Kafka.Brokers) != 2 || cfg.Events.Kafka.Topic != "apps" {
		t.Errorf("unexpected kafka config: %+v", cfg.Events.Kafka)
	}
}

func TestAppConfig_InvalidLocale(t *testing.T) {
	t.Setenv("I18N_DEFAULT_LOCALE", "fr")

	var cfg AppConfig
	if err := env.Parse(&cfg); err == nil {
		t.Fatal("expected error for unsupported locale")
	}
}

func TestSessionConfig_Sanitize(t *testing.T) {
	s := SessionConfig{TTL: time.Second, BcryptCost: 99}
	s.Sanitize()
	if s.TTL != minSessionTTL {
		t.Errorf("expected TTL clamped to %s, got %s", minSessionTTL, s.TTL)
	}
	if s.BcryptCost != 31 {
		t.Errorf("expected bcrypt cost clamped to 31, got %d", s.BcryptCost)
	}

	s = SessionConfig{TTL: 365 * 24 * time.Hour, BcryptCost: 1}
	s.Sanitize()
	if s.TTL != maxSessionTTL {
		t.Errorf("expected TTL clamped to %s, got %s", maxSessionTTL, s.TTL)
	}
	if s.BcryptCost != 4 {
		t.Errorf("expected bcrypt cost clamped to 4, got %d", s.BcryptCost)
	}
}

func TestEventsConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name string
		in   EventsConfig
		want EventsDriver
	}{
		{
			name: "empty driver defaults to none",
			in:   EventsConfig{},
			want: EventsDriverNone,
		},
		{
			name: "kafka without topic falls back to none",
			in:   EventsConfig{Driver: EventsDriverKafka, Kafka: KafkaConfig{Brokers: []string{"k:9092"}, Topic: " "}},
			want: EventsDriverNone,
		},
		{
			name: "amqp without url falls back to none",
			in:   EventsConfig{Driver: EventsDriverAMQP},
			want: EventsDriverNone,
		},
		{
			name: "amqp with url stays enabled",
			in:   EventsConfig{Driver: EventsDriverAMQP, AMQP: AMQPConfig{URL: "amqp://localhost"}},
			want: EventsDriverAMQP,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			c.Sanitize()
			if c.Driver != tt.want {
				t.Errorf("expected driver %q, got %q", tt.want, c.Driver)
			}
		})
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	c := ObservabilityMetricsConfig{Enabled: true, Path: "metrics"}
	c.Sanitize()
	if c.Path != "/metrics" || !c.IsEnabled() {
		t.Errorf("expected /metrics enabled, got %+v", c)
	}

	c = ObservabilityMetricsConfig{Enabled: true, Path: "   "}
	c.Sanitize()
	if c.IsEnabled() {
		t.Error("expected metrics disabled for empty path")
	}
}

func TestReaperConfig_Sanitize(t *testing.T) {
	r := ReaperConfig{Interval: time.Second, NotificationMaxAge: time.Minute, BatchSize: 0}
	r.Sanitize()
	if r.Interval != time.Minute {
		t.Errorf("expected interval clamped to 1m, got %s", r.Interval)
	}
	if r.NotificationMaxAge != 24*time.Hour {
		t.Errorf("expected max age clamped to 24h, got %s", r.NotificationMaxAge)
	}
	if r.BatchSize != 1 {
		t.Errorf("expected batch size clamped to 1, got %d", r.BatchSize)
	}
}
