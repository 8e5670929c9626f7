// Package metrics exports Prometheus counters for store events, sessions, logins
// and HTTP requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"club_admin_backend/internal/session"
	"club_admin_backend/internal/store"
	"club_admin_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "club_admin"

// Login results.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginError   = "error"
)

// Recorder owns a private registry so tests can build as many as they like.
type Recorder struct {
	registry    *prometheus.Registry
	storeEvents *prometheus.CounterVec
	sessions    prometheus.Gauge
	logins      *prometheus.CounterVec
	requests    *prometheus.HistogramVec
}

// New registers every collector, plus the Go runtime and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		storeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_events_total",
			Help:      "Entity store changes by collection and action.",
		}, []string{"collection", "action"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	r.registry.MustRegister(
		r.storeEvents, r.sessions, r.logins, r.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveEvent counts one store event.
func (r *Recorder) ObserveEvent(ev store.Event) {
	r.storeEvents.WithLabelValues(ev.Collection, string(ev.Action)).Inc()
}

// ObserveLogin counts one login attempt.
func (r *Recorder) ObserveLogin(result string) {
	r.logins.WithLabelValues(result).Inc()
}

// Hooks tracks open sessions and subscribes every new session store to the
// event counter and the debug log. Subscriptions end when the store closes.
func (r *Recorder) Hooks() session.Hooks {
	return session.Hooks{
		Opened: func(sess *session.Session) {
			r.sessions.Inc()
			userID := sess.User.ID
			sess.Store.Subscribe(func(ev store.Event) {
				r.ObserveEvent(ev)
				utils.LogDebug("Store event", map[string]interface{}{
					"user_id":    userID,
					"collection": ev.Collection,
					"action":     ev.Action,
					"id":         ev.ID,
				})
			})
		},
		Closed: func(*session.Session) {
			r.sessions.Dec()
		},
	}
}

// GinMiddleware observes request latency. Unmatched routes are labelled "unmatched".
func (r *Recorder) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
