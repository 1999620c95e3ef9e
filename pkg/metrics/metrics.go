package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devcamper", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devcamper", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devcamper", Name: "http_requests_total", Help: "Handled requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "devcamper", Name: "http_request_duration_seconds", Help: "Request latency by method and route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	PhotoUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devcamper", Name: "photo_uploads_total", Help: "Bootcamp photo uploads by result."},
		[]string{"result"},
	)
	GeocodeLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "devcamper", Name: "geocode_lookups_total", Help: "Geocoder lookups by source (cache, provider) and result."},
		[]string{"source", "result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(PhotoUploads)
	reg.MustRegister(GeocodeLookups)
}
