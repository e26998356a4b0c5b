package api

import (
	"net/http"
	"time"

	"github.com/example/ec-analytics/internal/api/middleware"
	"go.uber.org/zap"
)

// DefaultRequestTimeout bounds a report request when none is configured.
const DefaultRequestTimeout = 10 * time.Second

type RouterConfig struct {
	Handlers       *Handlers
	Verifier       middleware.KeyVerifier
	Metrics        *middleware.Metrics
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = middleware.NewMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	requireKey := middleware.APIKeyMiddleware(cfg.Verifier)
	h := cfg.Handlers

	// Analytics (API key required)
	protected := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, cfg.Metrics.Instrument(pattern, requireKey(withTimeout(fn, cfg.RequestTimeout))))
	}
	protected("GET /analytics/sales-by-category", h.SalesByCategory)
	protected("POST /analytics/top-selling-products", h.TopSellingProducts)
	protected("POST /analytics/top-spenders", h.TopSpenders)
	protected("GET /analytics/status-summary", h.StatusSummary)
	protected("GET /analytics/average-order-value", h.AverageOrderValue)
	protected("POST /analytics/product-rank-by-category", h.ProductRankByCategory)

	// Operational
	mux.Handle("GET /health", cfg.Metrics.Instrument("GET /health", http.HandlerFunc(h.Health)))
	mux.Handle("GET /metrics", cfg.Metrics.Handler())

	return middleware.RequestID(middleware.Logging(cfg.Logger)(mux))
}
