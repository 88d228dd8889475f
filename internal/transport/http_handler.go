package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goodnatureofminers/blockgraph/internal/model"
	"go.uber.org/zap"
)

const refreshAck = "Block refresh requested"

// HTTPHandler serves the block and transaction lookups and the refresh trigger.
type HTTPHandler struct {
	explorer  Explorer
	submitter Submitter
	metrics   HTTPMetrics
	logger    *zap.Logger
}

// NewHTTPHandler creates an HTTPHandler. Refresh requests are handed to submitter and never wait for the run.
func NewHTTPHandler(explorer Explorer, submitter Submitter, metrics HTTPMetrics, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		explorer:  explorer,
		submitter: submitter,
		metrics:   metrics,
		logger:    logger.Named("httpHandler"),
	}
}

// Register mounts the routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	h.handle(mux, "GET /blocks/refresh", h.refresh)
	h.handle(mux, "GET /blocks/{height}", h.block)
	h.handle(mux, "GET /transactions/{txid}", h.transaction)
}

func (h *HTTPHandler) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r)
		h.metrics.ObserveRequest(pattern, rec.status, started)
	})
}

func (h *HTTPHandler) block(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("height")
	height, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "height must be a non-negative integer", http.StatusBadRequest)
		return
	}

	block, err := h.explorer.Block(r.Context(), height)
	switch {
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, "block not found", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, "could not read block", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, block)
}

func (h *HTTPHandler) transaction(w http.ResponseWriter, r *http.Request) {
	txid := r.PathValue("txid")

	tx, err := h.explorer.Transaction(r.Context(), txid)
	switch {
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, "could not read transaction", http.StatusInternalServerError)
		return
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "*"
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	h.writeJSON(w, tx)
}

// refresh acknowledges regardless of whether the run could be queued.
func (h *HTTPHandler) refresh(w http.ResponseWriter, _ *http.Request) {
	job, err := h.submitter.Submit(model.TriggerHTTP)
	if err != nil {
		h.logger.Warn("refresh not queued", zap.Error(err))
	} else {
		h.logger.Debug("refresh queued", zap.String("job_id", job.ID))
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(refreshAck))
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode response", zap.Error(err))
		http.Error(w, "could not encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
