// Package httpapi exposes the stateless side channel: PIN allocation,
// PIN lookup, and relay stats. Nothing here touches a live connection.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/Harshmalhotra78898/LiveInteract/domain"
	"github.com/Harshmalhotra78898/LiveInteract/services"
)

type Handler struct {
	log     *slog.Logger
	service services.ISessionService
}

func NewHandler(log *slog.Logger, service services.ISessionService) *Handler {
	return &Handler{log: log, service: service}
}

// Register mounts the API routes on the given router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/generate-pin", h.generatePIN).Methods(http.MethodPost)
	r.HandleFunc("/api/check-pin/{pin}", h.checkPIN).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", h.stats).Methods(http.MethodGet)
}

// WithCORS wraps a handler with the permissive policy the browser client
// expects during development.
func WithCORS(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(next)
}

type pinResponse struct {
	PIN string `json:"pin"`
}

type checkResponse struct {
	Exists    bool `json:"exists"`
	UserCount int  `json:"userCount"`
	IsActive  bool `json:"isActive"`
}

// generatePIN allocates a collision-free code and eagerly creates its empty
// session, so the PIN stays reserved for the first joiner.
func (h *Handler) generatePIN(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, pinResponse{PIN: h.service.Allocate()})
}

// checkPIN reports whether a session exists for the code, without mutating it.
func (h *Handler) checkPIN(w http.ResponseWriter, r *http.Request) {
	pin := mux.Vars(r)["pin"]
	if !domain.ValidPIN(pin) {
		h.respond(w, checkResponse{})
		return
	}

	snap, ok := h.service.Check(pin)
	if !ok {
		h.respond(w, checkResponse{})
		return
	}
	h.respond(w, checkResponse{
		Exists:    true,
		UserCount: snap.ParticipantCount,
		IsActive:  snap.Active,
	})
}

func (h *Handler) stats(w http.ResponseWriter, _ *http.Request) {
	h.respond(w, h.service.Stats())
}

func (h *Handler) respond(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("response encoding failed", "error", err)
	}
}
