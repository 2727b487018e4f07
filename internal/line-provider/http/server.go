package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/line-bet-platform-poc/internal/line-provider/dto"
	"github.com/radieske/line-bet-platform-poc/internal/line-provider/notifier"
	"github.com/radieske/line-bet-platform-poc/internal/line-provider/store"
	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

// Server expõe a API REST do line-provider: CRUD de eventos, registro de
// callbacks e transição de estado com fan-out síncrono.
type Server struct {
	log   *zap.Logger
	store *store.Store
	notif *notifier.Notifier
}

func NewServer(log *zap.Logger, st *store.Store, n *notifier.Notifier) *Server {
	return &Server{log: log, store: st, notif: n}
}

// Router retorna o roteador HTTP com os endpoints do serviço.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Put("/event", s.upsertEvent)
	r.Get("/event/{eventID}", s.getEvent)
	r.Get("/events", s.listEvents)
	r.Post("/register-callback", s.registerCallback)
	r.Post("/change-event-state/{eventID}", s.changeEventState)
	return r
}

// upsertEvent cria o evento ou aplica o patch campo a campo.
func (s *Server) upsertEvent(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	if req.EventID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "event_id required"})
		return
	}
	if req.State != nil && !req.State.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown state"})
		return
	}

	err := s.store.Upsert(req.EventID, store.EventPatch{
		Coefficient: req.Coefficient,
		Deadline:    req.Deadline,
		State:       req.State,
	})
	if err == store.ErrResolved {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "event already resolved"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{})
}

// getEvent faz lookup exato por event_id.
func (s *Server) getEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")

	ev, err := s.store.Get(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// listEvents retorna só os eventos com deadline no futuro.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List(time.Now()))
}

// registerCallback adiciona a URL ao registro de assinantes (idempotente).
func (s *Server) registerCallback(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "url required"})
		return
	}

	s.notif.Register(req.URL)
	s.log.Info("callback registered", zap.String("url", req.URL))
	writeJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}

// changeEventState aplica a transição e dispara o fan-out antes de responder.
// Falha de entrega a assinante nunca falha a transição.
func (s *Server) changeEventState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")

	var req dto.StateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}
	if !req.State.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown state"})
		return
	}

	ev, err := s.store.SetState(id, req.State)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "event not found"})
		return
	}

	s.notif.Broadcast(r.Context(), events.EventStateChanged{
		EventID:  id,
		NewState: req.State,
	})

	writeJSON(w, http.StatusOK, ev)
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
