package api

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/hookshot/internal/adapter"
	"github.com/gyaneshwarpardhi/hookshot/internal/config"
	"github.com/gyaneshwarpardhi/hookshot/internal/engine"
	"github.com/gyaneshwarpardhi/hookshot/internal/errtext"
	"github.com/gyaneshwarpardhi/hookshot/internal/event"
	"github.com/gyaneshwarpardhi/hookshot/internal/form"
	"github.com/gyaneshwarpardhi/hookshot/internal/logging"
	"github.com/gyaneshwarpardhi/hookshot/internal/metrics"
)

const (
	apiVersion      = "v1"
	sourceName      = "hookshot"
	sourceEncoding  = "UTF-8"
	overloadedRatio = 0.8
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes. Config reloads
// rebuild the adapter registry and swap it into eng.
func New(eng *engine.Engine, loader *config.Loader) http.Handler {
	h := &Handler{eng: eng, loader: loader, mux: http.NewServeMux()}
	loader.OnChange(h.applyConfig)

	h.mux.HandleFunc("POST /v1/webhooks/{vendor}", h.ingestSync)
	h.mux.HandleFunc("POST /v1/webhooks/{vendor}/async", h.ingestAsync)
	h.mux.HandleFunc("GET /v1/vendors", h.listVendors)
	h.mux.HandleFunc("POST /v1/config/reload", h.reloadConfig)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// POST /v1/webhooks/{vendor}: convert one webhook payload synchronously.
func (h *Handler) ingestSync(w http.ResponseWriter, r *http.Request) {
	vendor, p, ok := h.collect(w, r)
	if !ok {
		return
	}
	receiptID := uuid.New().String()

	res, err := h.eng.ProcessSync(r.Context(), vendor, receiptID, p)
	switch {
	case errors.Is(err, engine.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	case errors.Is(err, engine.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	switch {
	case !res.OK():
		writeJSON(w, http.StatusBadRequest, res)
	case !res.Delivered():
		writeJSON(w, http.StatusBadGateway, res)
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /v1/webhooks/{vendor}/async: enqueue a payload and return a receipt.
func (h *Handler) ingestAsync(w http.ResponseWriter, r *http.Request) {
	vendor, p, ok := h.collect(w, r)
	if !ok {
		return
	}
	receiptID := uuid.New().String()
	if !h.eng.ProcessAsync(vendor, receiptID, p) {
		writeError(w, http.StatusTooManyRequests, "payload queue full")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"receipt_id": receiptID,
		"vendor":     vendor,
		"queued":     true,
	})
}

// collect resolves the vendor and captures the request as a CollectorPayload.
// It writes the error response itself and returns false when it cannot.
func (h *Handler) collect(w http.ResponseWriter, r *http.Request) (string, event.CollectorPayload, bool) {
	vendor := r.PathValue("vendor")
	a, err := h.eng.Lookup(vendor)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", event.CollectorPayload{}, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.loader.Config().Server.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		} else {
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return "", event.CollectorPayload{}, false
	}

	query, err := form.Pairs(r.URL.RawQuery)
	if err != nil {
		writeError(w, http.StatusBadRequest, a.Vendor().Name+" could not parse querystring: ["+errtext.Sanitize(err)+"]")
		return "", event.CollectorPayload{}, false
	}

	p := event.CollectorPayload{
		API:         event.API{Vendor: vendor, Version: apiVersion},
		QueryString: query,
		ContentType: contentType(r.Header.Get("Content-Type")),
		Source:      event.Source{Name: sourceName, Encoding: sourceEncoding, Hostname: r.Host},
		Context: event.Context{
			Timestamp: time.Now().UTC(),
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
			Referer:   r.Referer(),
			Headers:   headerLines(r.Header),
		},
	}
	// A request without an entity has no body, as opposed to an empty one.
	if len(body) > 0 {
		s := string(body)
		p.Body = &s
	}
	return vendor, p, true
}

// contentType strips media-type parameters such as charset. An absent
// header yields nil.
func contentType(header string) *string {
	if header == "" {
		return nil
	}
	if mt, _, err := mime.ParseMediaType(header); err == nil {
		return &mt
	}
	return &header
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func headerLines(hdr http.Header) []string {
	out := make([]string, 0, len(hdr))
	for name, values := range hdr {
		if name == "Authorization" || name == "Cookie" {
			continue
		}
		for _, v := range values {
			out = append(out, name+": "+v)
		}
	}
	sort.Strings(out)
	return out
}

// GET /v1/vendors: list served vendor paths.
func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	cfg := h.loader.Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": cfg.Version,
		"active":  h.eng.Vendors(),
		"vendors": cfg.Vendors,
	})
}

// POST /v1/config/reload: hot-reload vendors from disk.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":      true,
		"vendors_count": len(cfg.Vendors),
		"active":        h.eng.Vendors(),
	})
}

func (h *Handler) applyConfig(cfg *config.Config) {
	reg, err := adapter.Build(cfg)
	if err != nil {
		slog.Warn("hot-reload skipped: registry build failed", logging.Error(err))
		return
	}
	h.eng.SwapRegistry(reg)
	slog.Info("vendors reloaded", "count", len(reg.Paths()))

	if restart := h.eng.Reconfigure(cfg.Engine); len(restart) > 0 {
		slog.Warn("engine settings changed on reload, restart to apply",
			"settings", restart, "timeout_ms", cfg.Engine.TimeoutMs)
	}
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if payload queue >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > overloadedRatio {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}
