package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/line-bet-platform-poc/internal/bet-maker/betting"
	"github.com/radieske/line-bet-platform-poc/internal/bet-maker/cache"
	"github.com/radieske/line-bet-platform-poc/internal/bet-maker/dto"
	"github.com/radieske/line-bet-platform-poc/internal/bet-maker/line"
	"github.com/radieske/line-bet-platform-poc/internal/bet-maker/repo"
	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

// Repo define as operações de persistência de apostas usadas pelos handlers
type Repo interface {
	CreatePending(ctx context.Context, eventID string, amount float64) (*repo.Bet, error)
	List(ctx context.Context) ([]repo.Bet, error)
	SettleByEvent(ctx context.Context, eventID string, status string) (int64, error)
}

// LineClient é a consulta de listagem no line-provider
type LineClient interface {
	ListEvents(ctx context.Context) ([]events.Event, error)
}

// EventsCache é o cache do snapshot da listagem de eventos
type EventsCache interface {
	GetEvents(ctx context.Context) ([]events.Event, bool, error)
	SetEvents(ctx context.Context, evs []events.Event) error
	Stats(ctx context.Context) (cache.Stats, error)
}

// Publisher publica os eventos de auditoria no Kafka
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishBetSettled(ctx context.Context, e events.BetSettled) error
}

// Server expõe a API REST do bet-maker: listagem cacheada, aposta, liquidação
// via notificação e diagnóstico do cache.
type Server struct {
	log   *zap.Logger
	repo  Repo
	line  LineClient
	valid *betting.Validator
	cache EventsCache
	publ  Publisher
}

func NewServer(log *zap.Logger, r Repo, l LineClient, v *betting.Validator, c EventsCache, p Publisher) *Server {
	return &Server{log: log, repo: r, line: l, valid: v, cache: c, publ: p}
}

// Router retorna o roteador HTTP com os endpoints do serviço.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/events", s.listEvents)
	r.Post("/bet", s.placeBet)
	r.Get("/bets", s.listBets)
	r.Post("/event-update", s.eventUpdate)
	r.Get("/internal/cache-stats", s.cacheStats)
	return r
}

// listEvents devolve o snapshot do cache quando presente; no miss consulta o
// line-provider, popula o cache e devolve. Única rota onde falha upstream vira
// 503 pro cliente.
func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	if evs, ok, err := s.cache.GetEvents(r.Context()); err == nil && ok {
		writeJSON(w, http.StatusOK, evs)
		return
	} else if err != nil {
		s.log.Warn("events cache read failed", zap.Error(err))
	}

	evs, err := s.line.ListEvents(r.Context())
	if err != nil {
		s.log.Warn("line provider list failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "line provider unavailable"})
		return
	}
	if evs == nil {
		evs = []events.Event{}
	}

	if err := s.cache.SetEvents(r.Context(), evs); err != nil {
		s.log.Warn("events cache write failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, evs)
}

// placeBet valida contra o estado vivo do evento e persiste a aposta PENDING.
// A escrita durável é o último passo.
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}

	if _, err := s.valid.Validate(r.Context(), req.EventID, req.Amount); err != nil {
		status, msg := placeBetError(err)
		writeJSON(w, status, dto.ErrorResponse{Error: msg})
		return
	}

	bet, err := s.repo.CreatePending(r.Context(), req.EventID, req.Amount)
	if err != nil {
		s.log.Error("create bet failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "could not persist bet"})
		return
	}

	// auditoria best-effort
	if err := s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:   bet.ID,
		EventID: bet.EventID,
		Amount:  bet.Amount,
	}); err != nil {
		s.log.Warn("bet_placed publish failed", zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, bet)
}

// placeBetError mapeia os erros de validação pro status HTTP correspondente.
func placeBetError(err error) (int, string) {
	switch {
	case errors.Is(err, betting.ErrInvalidAmount):
		return http.StatusBadRequest, "amount must be positive"
	case errors.Is(err, line.ErrEventNotFound):
		return http.StatusNotFound, "event not found"
	case errors.Is(err, betting.ErrDeadlinePassed):
		return http.StatusBadRequest, "event deadline has passed"
	case errors.Is(err, betting.ErrEventClosed):
		return http.StatusBadRequest, "event already finished"
	case errors.Is(err, line.ErrUnavailable):
		return http.StatusServiceUnavailable, "line provider unavailable"
	}
	return http.StatusInternalServerError, "internal error"
}

// listBets devolve todas as apostas do ledger.
func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.repo.List(r.Context())
	if err != nil {
		s.log.Error("list bets failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "could not list bets"})
		return
	}
	if bets == nil {
		bets = []repo.Bet{}
	}
	writeJSON(w, http.StatusOK, bets)
}

// eventUpdate aplica a notificação de resolução: liquida as apostas PENDING do
// evento. Estado desconhecido é no-op; replay não re-liquida nada (o update só
// toca PENDING). Falha só por indisponibilidade do banco.
func (s *Server) eventUpdate(w http.ResponseWriter, r *http.Request) {
	var req dto.EventUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json"})
		return
	}

	var status string
	switch req.NewState {
	case events.StateFinishedWin:
		status = repo.StatusWon
	case events.StateFinishedLose:
		status = repo.StatusLost
	default:
		writeJSON(w, http.StatusOK, dto.EventUpdateResponse{Status: "updated", Settled: 0})
		return
	}

	n, err := s.repo.SettleByEvent(r.Context(), req.EventID, status)
	if err != nil {
		s.log.Error("settle failed", zap.String("event_id", req.EventID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "could not settle bets"})
		return
	}

	if n > 0 {
		if err := s.publ.PublishBetSettled(r.Context(), events.BetSettled{
			EventID:  req.EventID,
			NewState: req.NewState,
			Settled:  n,
		}); err != nil {
			s.log.Warn("bet_settled publish failed", zap.Error(err))
		}
	}

	s.log.Info("resolution applied",
		zap.String("event_id", req.EventID),
		zap.String("new_state", string(req.NewState)),
		zap.Int64("settled", n),
	)
	writeJSON(w, http.StatusOK, dto.EventUpdateResponse{Status: "updated", Settled: n})
}

// cacheStats expõe contadores de hit/miss e memória do cache (diagnóstico).
func (s *Server) cacheStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.cache.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "cache stats unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
