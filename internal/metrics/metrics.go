package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the request counters the handlers increment.
type Metrics struct {
	SuccessfulRequests *prometheus.CounterVec
	BadRequests        *prometheus.CounterVec
	WarblesPosted      *prometheus.CounterVec
	FollowRequests     *prometheus.CounterVec
	UnfollowRequests   *prometheus.CounterVec
	LikeToggles        *prometheus.CounterVec
}

// NewMetrics creates the counters without registering them. Tests use
// this directly so repeated app setups do not collide in the default
// registry.
func NewMetrics() *Metrics {
	return &Metrics{
		SuccessfulRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_successful_requests_total",
				Help: "Total number of successful (2xx) HTTP requests",
			},
			[]string{"path"},
		),
		BadRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_unsuccessful_requests_total",
				Help: "Total number of unsuccessful (4xx) HTTP requests",
			},
			[]string{"path"},
		),
		WarblesPosted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_messages_posted_total",
				Help: "Total number of successfully posted warbles",
			},
			[]string{"path"},
		),
		FollowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_follows_total",
				Help: "Total number of successful follow requests",
			},
			[]string{"path"},
		),
		UnfollowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_unfollows_total",
				Help: "Total number of successful unfollow requests",
			},
			[]string{"path"},
		),
		LikeToggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_like_toggles_total",
				Help: "Total number of like/unlike toggles",
			},
			[]string{"state"},
		),
	}
}

// InitMetrics creates all counters and registers them with the default
// Prometheus registry.
func InitMetrics() *Metrics {
	m := NewMetrics()

	prometheus.MustRegister(m.SuccessfulRequests)
	prometheus.MustRegister(m.BadRequests)
	prometheus.MustRegister(m.WarblesPosted)
	prometheus.MustRegister(m.FollowRequests)
	prometheus.MustRegister(m.UnfollowRequests)
	prometheus.MustRegister(m.LikeToggles)

	return m
}
