package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/awmpietro/under5-screening/internal/app"
	"github.com/awmpietro/under5-screening/internal/logger"
	"github.com/awmpietro/under5-screening/internal/metrics"
	"github.com/awmpietro/under5-screening/internal/transport/screendto"
)

const maxBodyBytes = 64 << 10

type Handler struct {
	svc app.ScreenService
	log logger.Logger
}

func NewHandler(svc app.ScreenService, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Handler{svc: svc, log: log}
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/screen", h.Screen)
	mux.HandleFunc("/screen/form", h.ScreenForm)
	mux.HandleFunc("/history", h.History)
	mux.HandleFunc("/healthz", h.Health)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (h *Handler) Screen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer observe(time.Now())

	var in screendto.ScreenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json", "details": err.Error()})
		return
	}

	req, err := in.ToApp(r.Header.Get("Accept-Language"))
	if err != nil {
		metrics.RecordRejectedInput(err)
		h.writeError(w, err)
		return
	}
	h.screen(w, r, req)
}

func (h *Handler) ScreenForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer observe(time.Now())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid form", "details": err.Error()})
		return
	}

	req, err := screendto.FormRequest(r.PostForm, r.Header.Get("Accept-Language"))
	if err != nil {
		metrics.RecordRejectedInput(err)
		h.writeError(w, err)
		return
	}
	h.screen(w, r, req)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	limit, err := screendto.HistoryLimit(q.Get("limit"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	patient := q.Get("patient")
	records, err := h.svc.History(r.Context(), patient, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, screendto.HistoryResponse{PatientRef: patient, Records: records})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (h *Handler) screen(w http.ResponseWriter, r *http.Request, req app.ScreenRequest) {
	resp, err := h.svc.Screen(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, body := screendto.ErrorResponse(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).Error("request failed", nil)
	}
	writeJSON(w, status, body)
}

func observe(start time.Time) {
	metrics.ScreeningDuration.WithLabelValues("http").Observe(time.Since(start).Seconds())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
