package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_auth_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// OTPIssued tracks issued one-time passcodes
	OTPIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "app_auth_otp_issued_total",
			Help: "Number of one-time passcodes issued",
		},
	)

	// OTPVerifications tracks verification outcomes
	OTPVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_auth_otp_verifications_total",
			Help: "Number of OTP verification attempts by outcome",
		},
		[]string{"result"},
	)

	// RateLimitRejections tracks issuance requests rejected by the rate limiter
	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "app_auth_rate_limit_rejections_total",
			Help: "Number of OTP issuance requests rejected by the rate limiter",
		},
	)

	// TokenRevocations tracks sign-out revocations
	TokenRevocations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "app_auth_token_revocations_total",
			Help: "Number of session tokens revoked via sign-out",
		},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_auth_active_connections",
			Help: "Number of active connections",
		},
	)
)
