// Package metrics exposes the portal's Prometheus collectors behind a small
// Recorder interface so services stay independent of the metrics backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	obserrors "github.com/target/jobportal/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
	ResultDenied  = "denied"
)

const namespace = "jobportal"

// Recorder receives domain and HTTP measurements.
type Recorder interface {
	UserRegistered(role string)
	LoginAttempt(result string)
	JobPosted()
	ApplicationSubmitted()
	ApplicationDecided(status, result string)
	MessageSent()
	EventsRelayed(n int)
	RelayFailed(err error)
	RowsReaped(kind string, n int)
	ObserveHTTP(route, method string, status int, d time.Duration)
}

// Noop discards every measurement.
type Noop struct{}

var _ Recorder = Noop{}

func (Noop) UserRegistered(string) {}
func (Noop) LoginAttempt(string) {}
func (Noop) JobPosted() {}
func (Noop) ApplicationSubmitted() {}
func (Noop) ApplicationDecided(string, string) {}
func (Noop) MessageSent() {}
func (Noop) EventsRelayed(int) {}
func (Noop) RelayFailed(error) {}
func (Noop) RowsReaped(string, int) {}
func (Noop) ObserveHTTP(string, string, int, time.Duration) {}

// OrNoop returns r, or Noop when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return Noop{}
	}
	return r
}

// Prometheus records measurements into its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	jobsPosted    prometheus.Counter
	submitted     prometheus.Counter
	decisions     *prometheus.CounterVec
	messages      prometheus.Counter
	relayed       prometheus.Counter
	relayErrors   *prometheus.CounterVec
	reaped        *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus registers all collectors, plus the Go and process collectors, on a fresh registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "registrations_total", Help: "Registered users by role.",
		}, []string{"role"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "logins_total", Help: "Login attempts by result.",
		}, []string{"result"}),
		jobsPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "jobs_posted_total", Help: "Jobs posted.",
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "applications_submitted_total", Help: "Applications submitted.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "application_decisions_total", Help: "Approve/reject decisions by status and result.",
		}, []string{"status", "result"}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "messages_sent_total", Help: "Messages sent by either party.",
		}),
		relayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_relayed_total", Help: "Outbox events published to the broker.",
		}),
		relayErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "event_relay_errors_total", Help: "Failed relay batches by error class.",
		}, []string{"error_class"}),
		reaped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "reaped_rows_total", Help: "Rows deleted by the reaper.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total", Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.registrations, p.logins, p.jobsPosted, p.submitted, p.decisions,
		p.messages, p.relayed, p.relayErrors, p.reaped, p.httpRequests, p.httpDuration,
	)
	return p
}

// Registry exposes the underlying registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) UserRegistered(role string) { p.registrations.WithLabelValues(role).Inc() }
func (p *Prometheus) LoginAttempt(result string) { p.logins.WithLabelValues(result).Inc() }
func (p *Prometheus) JobPosted() { p.jobsPosted.Inc() }
func (p *Prometheus) ApplicationSubmitted() { p.submitted.Inc() }
func (p *Prometheus) MessageSent() { p.messages.Inc() }
func (p *Prometheus) EventsRelayed(n int) { p.relayed.Add(float64(n)) }
func (p *Prometheus) RowsReaped(kind string, n int) { p.reaped.WithLabelValues(kind).Add(float64(n)) }

func (p *Prometheus) ApplicationDecided(status, result string) {
	p.decisions.WithLabelValues(status, result).Inc()
}

func (p *Prometheus) RelayFailed(err error) {
	class := obserrors.Classify(err)
	if class == "" {
		class = "unknown"
	}
	p.relayErrors.WithLabelValues(class).Inc()
}

func (p *Prometheus) ObserveHTTP(route, method string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	p.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
