package betting

import (
	"context"
	"errors"
	"time"

	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

var (
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrDeadlinePassed = errors.New("event deadline has passed")
	ErrEventClosed    = errors.New("event already finished")
)

// EventGetter é a consulta viva de evento usada na validação.
type EventGetter interface {
	GetEvent(ctx context.Context, eventID string) (events.Event, error)
}

// Validator confere o palpite contra o estado vivo do evento no line-provider.
// O caminho de aposta nunca consulta o cache: validação exige o estado mais
// fresco ou falha.
type Validator struct {
	line EventGetter
	now  func() time.Time
}

func NewValidator(line EventGetter) *Validator {
	return &Validator{line: line, now: time.Now}
}

// Validate aplica as regras de aceitação na ordem: amount antes de qualquer
// chamada de rede, depois existência, deadline e estado do evento.
func (v *Validator) Validate(ctx context.Context, eventID string, amount float64) (events.Event, error) {
	if amount <= 0 {
		return events.Event{}, ErrInvalidAmount
	}

	ev, err := v.line.GetEvent(ctx, eventID)
	if err != nil {
		return events.Event{}, err
	}

	if !v.now().Before(time.Unix(ev.Deadline, 0)) {
		return events.Event{}, ErrDeadlinePassed
	}
	if ev.State != events.StateOpen {
		return events.Event{}, ErrEventClosed
	}

	return ev, nil
}
