// Package handlers exposes the HTTP API consumed by the alert composer and
// the history/dashboard views.
package handlers

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/coastwatch/broadcast-engine/internal/alert"
	"github.com/coastwatch/broadcast-engine/internal/broadcast"
	"github.com/coastwatch/broadcast-engine/internal/config"
	"github.com/coastwatch/broadcast-engine/internal/realtime"
	"github.com/coastwatch/broadcast-engine/internal/zone"
)

// HTTPHandler handles HTTP requests for the broadcast engine
type HTTPHandler struct {
	cfg      *config.Config
	logger   *slog.Logger
	svc      *broadcast.Service
	registry *zone.Registry
	hub      *realtime.Hub
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(
	cfg *config.Config,
	logger *slog.Logger,
	svc *broadcast.Service,
	registry *zone.Registry,
	hub *realtime.Hub,
) *HTTPHandler {
	return &HTTPHandler{
		cfg:      cfg,
		logger:   logger,
		svc:      svc,
		registry: registry,
		hub:      hub,
	}
}

// RegisterRoutes registers HTTP routes
func (h *HTTPHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.handleHealth).Methods("GET")
	router.HandleFunc("/status", h.handleStatus).Methods("GET")

	alertRouter := router.PathPrefix("/alerts").Subrouter()
	alertRouter.HandleFunc("", h.handleCreateAlert).Methods("POST")
	alertRouter.HandleFunc("", h.handleListAlerts).Methods("GET")
	alertRouter.HandleFunc("/{id}", h.handleGetAlert).Methods("GET")
	alertRouter.HandleFunc("/{id}/broadcast", h.handleBroadcastAlert).Methods("POST")
	alertRouter.HandleFunc("/{id}/status", h.handleUpdateStatus).Methods("PUT")
	alertRouter.HandleFunc("/{id}/cap", h.handleExportCAP).Methods("GET")

	router.HandleFunc("/logs", h.handleListLogs).Methods("GET")

	zoneRouter := router.PathPrefix("/zones").Subrouter()
	zoneRouter.HandleFunc("", h.handleListZones).Methods("GET")
	zoneRouter.HandleFunc("/{id}", h.handleGetZone).Methods("GET")
	zoneRouter.HandleFunc("/{id}/languages", h.handleZoneLanguages).Methods("GET")

	if h.hub != nil {
		router.HandleFunc("/ws", h.hub.ServeWS)
	}
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "broadcast-engine",
		"timestamp": time.Now().UTC(),
	})
}

func (h *HTTPHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	alerts := h.svc.GetAlerts()
	byStatus := make(map[alert.Status]int)
	for _, a := range alerts {
		byStatus[a.Status]++
	}

	status := map[string]interface{}{
		"service":          "broadcast-engine",
		"status":           "running",
		"timestamp":        time.Now().UTC(),
		"alerts_total":     len(alerts),
		"alerts_by_status": byStatus,
		"zones":            len(h.registry.List()),
	}
	if h.hub != nil {
		status["realtime_clients"] = h.hub.ClientCount()
	}

	h.writeJSON(w, http.StatusOK, status)
}

// createAlertRequest is the composer's create payload. Zones are referenced
// by catalog ID and resolved to value snapshots here at the boundary.
type createAlertRequest struct {
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	Type              alert.Type       `json:"type"`
	Severity          alert.Severity   `json:"severity"`
	UrgencyLevel      alert.Urgency    `json:"urgency_level"`
	ZoneIDs           []string         `json:"zone_ids"`
	Languages         []alert.Language `json:"languages"`
	BroadcastChannels []alert.Channel  `json:"broadcast_channels"`
	ScheduledTime     *time.Time       `json:"scheduled_time,omitempty"`
	ExpiryTime        *time.Time       `json:"expiry_time,omitempty"`
	CreatedBy         string           `json:"created_by"`
}

func (h *HTTPHandler) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	zones := make([]alert.Zone, 0, len(req.ZoneIDs))
	for _, id := range req.ZoneIDs {
		z, ok := h.registry.Get(id)
		if !ok {
			h.writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown zone %q", id))
			return
		}
		zones = append(zones, z)
	}

	created, err := h.svc.CreateAlert(r.Context(), broadcast.CreateRequest{
		Title:             req.Title,
		Description:       req.Description,
		Type:              req.Type,
		Severity:          req.Severity,
		UrgencyLevel:      req.UrgencyLevel,
		AffectedZones:     zones,
		Languages:         req.Languages,
		BroadcastChannels: req.BroadcastChannels,
		ScheduledTime:     req.ScheduledTime,
		ExpiryTime:        req.ExpiryTime,
		CreatedBy:         req.CreatedBy,
	})
	if err != nil {
		if errors.Is(err, broadcast.ErrInvalidAlertRequest) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to create alert", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to create alert")
		return
	}

	h.writeJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.svc.GetAlerts()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts":      alerts,
		"total_count": len(alerts),
	})
}

func (h *HTTPHandler) handleGetAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	a, err := h.svc.GetAlert(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Alert not found")
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

type broadcastRequest struct {
	Variables map[string]string `json:"variables"`
}

func (h *HTTPHandler) handleBroadcastAlert(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.svc.BroadcastAlert(r.Context(), id, req.Variables); err != nil {
		switch {
		case errors.Is(err, broadcast.ErrAlertNotFound):
			h.writeError(w, http.StatusNotFound, "Alert not found")
		case errors.Is(err, broadcast.ErrInvalidTransition):
			h.writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Broadcast failed", "alert_id", id, "error", err)
			h.writeError(w, http.StatusInternalServerError, "Broadcast failed")
		}
		return
	}

	a, err := h.svc.GetAlert(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Alert not found")
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

type updateStatusRequest struct {
	Status alert.Status `json:"status"`
}

func (h *HTTPHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.svc.UpdateAlertStatus(r.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, broadcast.ErrAlertNotFound):
			h.writeError(w, http.StatusNotFound, "Alert not found")
		case errors.Is(err, broadcast.ErrInvalidTransition):
			h.writeError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Status update failed", "alert_id", id, "error", err)
			h.writeError(w, http.StatusInternalServerError, "Status update failed")
		}
		return
	}

	a, err := h.svc.GetAlert(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Alert not found")
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *HTTPHandler) handleExportCAP(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	doc, err := h.svc.ExportCAP(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Alert not found")
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(doc); err != nil {
		h.logger.Error("Failed to encode CAP document", "alert_id", id, "error", err)
	}
}

func (h *HTTPHandler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	alertID := r.URL.Query().Get("alert_id")
	logs := h.svc.GetBroadcastLogs(alertID)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":        logs,
		"total_count": len(logs),
	})
}

func (h *HTTPHandler) handleListZones(w http.ResponseWriter, r *http.Request) {
	zones := h.registry.List()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"zones":       zones,
		"total_count": len(zones),
	})
}

func (h *HTTPHandler) handleGetZone(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	z, ok := h.registry.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "Zone not found")
		return
	}
	h.writeJSON(w, http.StatusOK, z)
}

func (h *HTTPHandler) handleZoneLanguages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"zone_id":   id,
		"languages": h.registry.LanguagesFor(id),
	})
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]interface{}{
		"error":     message,
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}
