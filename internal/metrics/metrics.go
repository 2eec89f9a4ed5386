package metrics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Requests         *prometheus.CounterVec
	Registrations    prometheus.Counter
	Logins           *prometheus.CounterVec
	FollowRequests   prometheus.Counter
	UnfollowRequests prometheus.Counter
	AccountDeletes   prometheus.Counter
	PasswordResets   *prometheus.CounterVec

	registry *prometheus.Registry
}

// New registers the service counters on a private registry.
func New() *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by route and status class",
			},
			[]string{"path", "class"},
		),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "successful_registrations",
			Help: "Total number of accounts registered",
		}),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_attempts",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		FollowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "successful_follows",
			Help: "Total number of successful follow requests",
		}),
		UnfollowRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "successful_unfollows",
			Help: "Total number of successful unfollow requests",
		}),
		AccountDeletes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "account_deletions",
			Help: "Total number of deleted accounts",
		}),
		PasswordResets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "password_reset_events",
				Help: "Password reset flow events by stage",
			},
			[]string{"stage"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.Requests,
		m.Registrations,
		m.Logins,
		m.FollowRequests,
		m.UnfollowRequests,
		m.AccountDeletes,
		m.PasswordResets,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts every request by route pattern and status class.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			m.Requests.WithLabelValues(c.Path(), strconv.Itoa(status/100)+"xx").Inc()
			return err
		}
	}
}
