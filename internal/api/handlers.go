package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/example/ec-analytics/internal/api/middleware"
	"github.com/example/ec-analytics/internal/infrastructure/kafka"
	"github.com/example/ec-analytics/internal/infrastructure/store"
	"github.com/example/ec-analytics/internal/query"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	reportSalesByCategory       = "sales-by-category"
	reportTopSellingProducts    = "top-selling-products"
	reportTopSpenders           = "top-spenders"
	reportStatusSummary         = "status-summary"
	reportAverageOrderValue     = "average-order-value"
	reportProductRankByCategory = "product-rank-by-category"
)

// maxBodyBytes caps limit request bodies; {"limit": n} is a few bytes.
const maxBodyBytes = 1 << 16

var errInvalidBody = errors.New("invalid request body")

type Handlers struct {
	queryHandler *query.Handler
	events       kafka.Publisher
	logger       *zap.Logger
}

func NewHandlers(queryHandler *query.Handler, events kafka.Publisher, logger *zap.Logger) *Handlers {
	if events == nil {
		events = kafka.NopPublisher{}
	}
	return &Handlers{
		queryHandler: queryHandler,
		events:       events,
		logger:       logger,
	}
}

// ReportServedEvent is published after every analytics response.
type ReportServedEvent struct {
	ID         string    `json:"id"`
	Report     string    `json:"report"`
	Limit      int       `json:"limit,omitempty"`
	RowCount   int       `json:"rowCount"`
	DurationMs int64     `json:"durationMs"`
	Status     int       `json:"status"`
	RequestID  string    `json:"requestId"`
	Timestamp  time.Time `json:"timestamp"`
}

// Analytics Handlers

func (h *Handlers) SalesByCategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := h.queryHandler.SalesByCategory(r.Context())
	h.respondReport(w, r, reportSalesByCategory, 0, start, result, len(result), err)
}

func (h *Handlers) TopSellingProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, ok := h.readLimit(w, r)
	if !ok {
		return
	}
	result, err := h.queryHandler.TopSellingProducts(r.Context(), limit)
	h.respondReport(w, r, reportTopSellingProducts, limit, start, result, len(result), err)
}

func (h *Handlers) TopSpenders(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, ok := h.readLimit(w, r)
	if !ok {
		return
	}
	result, err := h.queryHandler.TopSpenders(r.Context(), limit)
	h.respondReport(w, r, reportTopSpenders, limit, start, result, len(result), err)
}

func (h *Handlers) StatusSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := h.queryHandler.OrderCountByStatus(r.Context())
	h.respondReport(w, r, reportStatusSummary, 0, start, result, len(result), err)
}

func (h *Handlers) AverageOrderValue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result, err := h.queryHandler.AverageOrderValue(r.Context())
	rows := 0
	if result != nil {
		rows = 1
	}
	h.respondReport(w, r, reportAverageOrderValue, 0, start, result, rows, err)
}

func (h *Handlers) ProductRankByCategory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, ok := h.readLimit(w, r)
	if !ok {
		return
	}
	result, err := h.queryHandler.ProductRankByCategory(r.Context(), limit)
	h.respondReport(w, r, reportProductRankByCategory, limit, start, result, len(result), err)
}

// Health reports whether the database answers a ping.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.queryHandler.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readLimit decodes the optional {"limit": n} body and clamps it. It writes a
// 400 and returns false only when the body is not JSON at all.
func (h *Handlers) readLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	limit, err := decodeLimit(r)
	if err != nil {
		respondError(w, errInvalidBody.Error(), http.StatusBadRequest)
		return 0, false
	}
	return query.NormalizeLimit(limit), true
}

// decodeLimit returns nil when the body is empty or carries no numeric limit.
// Fractions truncate toward zero and huge values saturate so the clamp can
// handle them.
func decodeLimit(r *http.Request) (*int, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(body) {
		return nil, errInvalidBody
	}

	res := gjson.GetBytes(body, "limit")
	if res.Type != gjson.Number {
		return nil, nil
	}
	f := math.Max(math.Min(res.Float(), math.MaxInt32), math.MinInt32)
	n := int(f)
	return &n, nil
}

func (h *Handlers) respondReport(w http.ResponseWriter, r *http.Request, report string, limit int, start time.Time, result any, rows int, err error) {
	status := http.StatusOK
	if err != nil {
		status = h.respondQueryError(w, r, report, err)
		if status == 0 {
			return
		}
	} else {
		respondJSON(w, status, result)
	}
	h.publishServed(r, report, limit, start, rows, status)
}

// respondQueryError maps a query failure to a response and returns the status
// written, or 0 when the request context ended and nothing was written.
func (h *Handlers) respondQueryError(w http.ResponseWriter, r *http.Request, report string, err error) int {
	// The driver's error for a cancelled statement need not wrap the
	// context error, so ask the context itself.
	if r.Context().Err() != nil {
		return 0
	}
	switch {
	case errors.Is(err, store.ErrNoData):
		respondError(w, "no data", http.StatusNotFound)
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The timeout wrapper owns the response once the deadline passes.
		return 0
	case errors.Is(err, store.ErrUnavailable):
		h.logger.Warn("analytics store unavailable",
			zap.String("report", report),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		respondError(w, "service unavailable", http.StatusServiceUnavailable)
		return http.StatusServiceUnavailable
	default:
		h.logger.Error("analytics query failed",
			zap.String("report", report),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		respondError(w, "internal server error", http.StatusInternalServerError)
		return http.StatusInternalServerError
	}
}

func (h *Handlers) publishServed(r *http.Request, report string, limit int, start time.Time, rows, status int) {
	event := ReportServedEvent{
		ID:         uuid.NewString(),
		Report:     report,
		Limit:      limit,
		RowCount:   rows,
		DurationMs: time.Since(start).Milliseconds(),
		Status:     status,
		RequestID:  middleware.GetRequestID(r.Context()),
		Timestamp:  time.Now().UTC(),
	}
	// The request context is canceled once the response is flushed.
	ctx := context.WithoutCancel(r.Context())
	if err := h.events.Publish(ctx, report, event); err != nil {
		h.logger.Warn("failed to publish usage event",
			zap.String("report", report),
			zap.Error(err))
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}
