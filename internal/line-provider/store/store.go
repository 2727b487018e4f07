package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

var (
	ErrNotFound = errors.New("event not found")
	ErrResolved = errors.New("event already resolved")
)

// EventPatch carrega apenas os campos presentes no upsert; campo nil não é
// aplicado.
type EventPatch struct {
	Coefficient *float64
	Deadline    *int64
	State       *events.EventState
}

// Store guarda os eventos da linha em memória. Escritas são serializadas pelo
// mutex; leituras concorrentes usam RLock. O estado só é acessível pelas
// operações do componente.
type Store struct {
	mu     sync.RWMutex
	events map[string]events.Event
}

func New() *Store {
	return &Store{events: make(map[string]events.Event)}
}

// Upsert cria o evento se não existir ou aplica somente os campos presentes do
// patch, campo a campo. Evento criado sem state fica com state ausente (vazio).
// Alterar coefficient/deadline de evento já resolvido retorna ErrResolved;
// patch só de state continua permitido.
func (s *Store) Upsert(eventID string, p EventPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[eventID]
	if !ok {
		ev = events.Event{EventID: eventID}
	} else if ev.State.Resolved() && (p.Coefficient != nil || p.Deadline != nil) {
		return ErrResolved
	}

	if p.Coefficient != nil {
		ev.Coefficient = *p.Coefficient
	}
	if p.Deadline != nil {
		ev.Deadline = *p.Deadline
	}
	if p.State != nil {
		ev.State = *p.State
	}

	s.events[eventID] = ev
	return nil
}

// Get retorna o evento pelo id exato.
func (s *Store) Get(eventID string) (events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.events[eventID]
	if !ok {
		return events.Event{}, ErrNotFound
	}
	return ev, nil
}

// List retorna os eventos com deadline estritamente no futuro, em ordem
// estável (por event_id).
func (s *Store) List(now time.Time) []events.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]events.Event, 0, len(s.events))
	for _, ev := range s.events {
		if now.Unix() < ev.Deadline {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventID < out[j].EventID })
	return out
}

// SetState aplica a transição de estado e retorna o evento atualizado.
func (s *Store) SetState(eventID string, st events.EventState) (events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.events[eventID]
	if !ok {
		return events.Event{}, ErrNotFound
	}
	ev.State = st
	s.events[eventID] = ev
	return ev, nil
}
