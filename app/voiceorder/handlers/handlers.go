// Package handlers exposes the voice agent and order book over HTTP.
// The voice endpoints are what the telephony gateway calls per turn;
// the order and log endpoints serve the staff dashboard.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/charcochicken/goVoiceOrder/business/agent"
	"github.com/charcochicken/goVoiceOrder/business/convlog"
	"github.com/charcochicken/goVoiceOrder/business/menu"
	"github.com/charcochicken/goVoiceOrder/business/orders"
)

const maxBodyBytes = 1 << 20

type API struct {
	agent   *agent.Agent
	catalog *menu.Catalog
	repo    orders.Repo
	log     *convlog.Log
	logger  *zap.SugaredLogger
}

func NewAPI(a *agent.Agent, catalog *menu.Catalog, repo orders.Repo, log *convlog.Log, logger *zap.SugaredLogger) *API {
	return &API{
		agent:   a,
		catalog: catalog,
		repo:    repo,
		log:     log,
		logger:  logger,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/voice", func(r chi.Router) {
		r.Post("/turn", a.Turn)
		r.Post("/end", a.End)
	})

	r.Get("/menu", a.Menu)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", a.ListOrders)
		r.Get("/stats", a.OrderStats)
		r.Get("/{id}", a.GetOrder)
		r.Put("/{id}/status", a.UpdateOrderStatus)
	})

	r.Route("/logs", func(r chi.Router) {
		r.Get("/", a.ListLogs)
		r.Get("/summary", a.LogSummary)
	})

	r.Get("/health", a.Health)

	return r
}

type turnRequest struct {
	SessionID string `json:"session_id"`
	Utterance string `json:"utterance"`
}

type turnResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
	EndCall   bool   `json:"end_call"`
}

// Turn processes one customer utterance. An empty session_id opens a
// new conversation; the caller keeps the returned id for the next turn.
func (a *API) Turn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if !a.decode(w, r, &req) {
		return
	}

	if req.Utterance == "" {
		respondError(w, http.StatusBadRequest, "utterance is required")
		return
	}

	reply, err := a.agent.ProcessTurn(r.Context(), req.SessionID, req.Utterance)
	if err != nil {
		a.logger.Errorw("handlers: process turn", "session", req.SessionID, "ERROR", err)
		respondError(w, http.StatusInternalServerError, "could not process turn")
		return
	}

	respond(w, http.StatusOK, turnResponse{
		SessionID: reply.SessionID,
		Response:  reply.Response,
		EndCall:   reply.EndCall,
	})
}

type endRequest struct {
	SessionID string `json:"session_id"`
}

// End closes a session when the caller hangs up before the dialogue
// reaches a terminal state.
func (a *API) End(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if !a.decode(w, r, &req) {
		return
	}

	if req.SessionID == "" {
		respondError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	a.agent.EndCall(req.SessionID)
	respond(w, http.StatusOK, map[string]string{"status": "closed"})
}

func (a *API) Menu(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"currency":   a.catalog.Currency(),
		"categories": a.catalog.Categories(),
	})
}

func (a *API) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter := orders.QueryFilter{
		Status:       r.URL.Query().Get("status"),
		CustomerName: r.URL.Query().Get("customer"),
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	if filter.Status != "" && !orders.ValidStatus(filter.Status) {
		respondError(w, http.StatusBadRequest, "invalid status")
		return
	}

	list, err := a.repo.Query(r.Context(), filter)
	if err != nil {
		a.logger.Errorw("handlers: query orders", "ERROR", err)
		respondError(w, http.StatusInternalServerError, "could not list orders")
		return
	}

	respond(w, http.StatusOK, map[string]any{"orders": list})
}

func (a *API) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := a.repo.Get(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			respondError(w, http.StatusNotFound, "order not found")
			return
		}
		a.logger.Errorw("handlers: get order", "order", orderID, "ERROR", err)
		respondError(w, http.StatusInternalServerError, "could not fetch order")
		return
	}

	respond(w, http.StatusOK, order)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (a *API) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req statusRequest
	if !a.decode(w, r, &req) {
		return
	}

	order, err := a.repo.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			respondError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, orders.ErrInvalidStatus):
			respondError(w, http.StatusBadRequest, "invalid status")
		default:
			a.logger.Errorw("handlers: update order status", "order", orderID, "ERROR", err)
			respondError(w, http.StatusInternalServerError, "could not update order")
		}
		return
	}

	respond(w, http.StatusOK, order)
}

func (a *API) OrderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.repo.Stats(r.Context())
	if err != nil {
		a.logger.Errorw("handlers: order stats", "ERROR", err)
		respondError(w, http.StatusInternalServerError, "could not compute stats")
		return
	}

	respond(w, http.StatusOK, stats)
}

func (a *API) ListLogs(w http.ResponseWriter, r *http.Request) {
	if sessionID := r.URL.Query().Get("session"); sessionID != "" {
		respond(w, http.StatusOK, map[string]any{"entries": a.log.BySession(sessionID)})
		return
	}

	respond(w, http.StatusOK, map[string]any{"entries": a.log.Entries()})
}

func (a *API) LogSummary(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, a.log.Summary())
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"active_sessions": a.agent.ActiveSessions(),
	})
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}
