package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/astrasoul/records-api/internal/config"
	"github.com/astrasoul/records-api/internal/handler"
	"github.com/astrasoul/records-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	authH         Handler
	recordsH      Handler
	consultationH Handler
	rateLimit     config.RateLimitConfig
	metrics       *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func initRouterMetrics() *routerMetrics {
	m := &routerMetrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "records_api_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "records_api_requests_total",
			Help: "HTTP requests served.",
		}, []string{"method", "path", "status"}),
		errorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "records_api_errors_total",
			Help: "HTTP responses with status >= 500.",
		}, []string{"method", "path"}),
	}
	prometheus.MustRegister(m.requestDuration, m.requestTotal, m.errorTotal)
	return m
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	authH Handler,
	recordsH Handler,
	consultationH Handler,
	rateLimit config.RateLimitConfig,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	return &Router{
		engine:        gin.New(),
		auth:          auth,
		authH:         authH,
		recordsH:      recordsH,
		consultationH: consultationH,
		rateLimit:     rateLimit,
		metrics:       initRouterMetrics(),
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) Setup() {
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger())
	r.engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.engine.Use(r.observe())
	if r.rateLimit.Enabled {
		rl := middleware.NewRateLimiter(r.rateLimit.RequestsPerSecond, r.rateLimit.Burst)
		r.engine.Use(rl.RateLimit())
	}

	r.engine.GET("/health", handler.HealthCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	// login and the landing-page consultation form are public
	r.authH.RegisterRoutes(api)
	r.consultationH.RegisterRoutes(api)

	// order records are admin-only
	admin := api.Group("")
	admin.Use(r.auth.Authenticate())
	r.recordsH.RegisterRoutes(admin)
}

func (r *Router) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if c.Writer.Status() >= 500 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path).Inc()
		}
	}
}
