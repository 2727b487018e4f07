package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/radieske/line-bet-platform-poc/internal/shared/kafka"
	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de auditoria do bet-maker. Publicação é
// fire-and-forget do ponto de vista dos handlers: falha é logada pelo caller e
// nunca falha a operação de negócio.
type KafkaPublisher struct {
	PlacedWriter  kafka.MessageWriter
	SettledWriter kafka.MessageWriter
}

func NewKafkaPublisher(placed, settled kafka.MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{PlacedWriter: placed, SettledWriter: settled}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.PlacedWriter, e.EventID, b)
}

func (p *KafkaPublisher) PublishBetSettled(ctx context.Context, e events.BetSettled) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.SettledWriter, e.EventID, b)
}
