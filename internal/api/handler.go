package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storelink/metabridge/internal/aam"
	"github.com/storelink/metabridge/internal/admin"
	"github.com/storelink/metabridge/internal/capi"
	"github.com/storelink/metabridge/internal/event"
	"github.com/storelink/metabridge/internal/metrics"
	"github.com/storelink/metabridge/internal/publisher"
	"github.com/storelink/metabridge/internal/session"
	"github.com/storelink/metabridge/internal/settings"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	extractor *aam.Extractor
	assembler *capi.Assembler
	sessions  *session.Store
	loader    *settings.Loader
	pub       *publisher.Publisher
	tokens    *admin.TokenManager
	mux       *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(
	extractor *aam.Extractor,
	assembler *capi.Assembler,
	sessions *session.Store,
	loader *settings.Loader,
	pub *publisher.Publisher,
	tokens *admin.TokenManager,
) http.Handler {
	h := &Handler{
		extractor: extractor,
		assembler: assembler,
		sessions:  sessions,
		loader:    loader,
		pub:       pub,
		tokens:    tokens,
		mux:       http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /v1/sessions", h.upsertSession)
	h.mux.HandleFunc("POST /v1/events", h.ingestEvent)
	h.mux.HandleFunc("GET /v1/userdata", h.userData)
	h.mux.HandleFunc("GET /v1/settings", h.showSettings)
	h.mux.HandleFunc("POST /v1/settings/reload", h.reloadSettings)
	h.mux.HandleFunc("POST /admin/ajax/fbtoken", h.saveToken)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// sessionRequest is the body of POST /v1/sessions.
type sessionRequest struct {
	SessionID string         `json:"session_id"`
	Customer  map[string]any `json:"customer"`
}

// POST /v1/sessions — upsert the raw identity record for a session.
func (h *Handler) upsertSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	h.sessions.PutSession(req.SessionID, session.FromWire(req.Customer))
	writeJSON(w, http.StatusOK, map[string]any{"session_id": req.SessionID})
}

// POST /v1/events — ingest one storefront event, attach matched user data,
// and queue it for delivery.
func (h *Handler) ingestEvent(w http.ResponseWriter, r *http.Request) {
	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if ev.Name == "" {
		writeError(w, http.StatusBadRequest, "event name is required")
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	ev.ReceivedAt = time.Now()
	metrics.EventsReceived.WithLabelValues(ev.Name).Inc()

	// Pick the raw identity source: explicit customer block first, then
	// the referenced order, then the live session by default.
	var override aam.RawUserData
	if ev.Customer != nil {
		override = session.FromWire(ev.Customer)
		if ev.OrderID != "" {
			h.sessions.PutOrder(ev.OrderID, override)
		}
	} else if ev.OrderID != "" {
		override = h.sessions.UserDataFromOrder(ev.OrderID)
	}

	se := capi.NewEvent(ev.Name, ev.CustomData)
	se.EventID = ev.ID
	se.EventSourceURL = ev.SourceURL
	se.ActionSource = "website"
	if !ev.OccurredAt.IsZero() {
		se.EventTime = ev.OccurredAt.Unix()
	}

	se, err := h.assembler.AttachUserData(se, ev.SessionID, override)
	if err != nil {
		if errors.Is(err, aam.ErrUnparseableDate) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	matched := 0
	if se.UserData != nil {
		matched = len(se.UserData.PopulatedFields())
		metrics.UserDataAttached.Inc()
		metrics.MatchedFields.Observe(float64(matched))
	} else {
		metrics.UserDataSkipped.Inc()
	}

	if !h.pub.Submit(se) {
		writeError(w, http.StatusTooManyRequests, "delivery queue full")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"event_id":       se.EventID,
		"queued":         true,
		"matched_fields": matched,
	})
}

// GET /v1/userdata?session_id= — the normalized mapping the client-side
// Pixel embeds. 204 when matching is off.
func (h *Handler) userData(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	data, err := h.extractor.NormalizedUserData(sessionID, nil)
	if err != nil {
		if errors.Is(err, aam.ErrUnparseableDate) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// GET /v1/settings — inspect the current matching settings.
func (h *Handler) showSettings(w http.ResponseWriter, r *http.Request) {
	s := h.loader.AAMSettings()
	writeJSON(w, http.StatusOK, map[string]any{
		"configured": s != nil,
		"settings":   s,
	})
}

// POST /v1/settings/reload — re-read the settings file on demand.
func (h *Handler) reloadSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.loader.Reload()
	if err != nil {
		metrics.SettingsReloads.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.SettingsReloads.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"reloaded":   true,
		"configured": s != nil,
	})
}

// POST /admin/ajax/fbtoken — save the CAPI access token. Mirrors the admin
// panel's AJAX contract: an empty token is not an HTTP error, the response
// just reports success=false with the token still in effect.
func (h *Handler) saveToken(w http.ResponseWriter, r *http.Request) {
	token := r.FormValue("accessToken")
	resp, err := h.tokens.Save(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resp.Success {
		metrics.TokenUpdates.Inc()
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if the delivery queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.pub.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ready",
		"queue_utilization": util,
	})
}
