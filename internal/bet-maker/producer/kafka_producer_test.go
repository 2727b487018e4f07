package producer

import (
	"context"
	"encoding/json"
	"testing"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

// captureWriter registra as mensagens escritas no tópico.
type captureWriter struct {
	msgs []kafkago.Message
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestPublishBetPlaced(t *testing.T) {
	placed := &captureWriter{}
	p := NewKafkaPublisher(placed, &captureWriter{})

	err := p.PublishBetPlaced(context.Background(), events.BetPlaced{BetID: 7, EventID: "e1", Amount: 10})
	if err != nil {
		t.Fatalf("PublishBetPlaced: %v", err)
	}
	if len(placed.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(placed.msgs))
	}

	msg := placed.msgs[0]
	if string(msg.Key) != "e1" {
		t.Errorf("key: got %q, want event id", msg.Key)
	}
	if msg.Time.IsZero() {
		t.Error("message time not stamped")
	}

	var payload map[string]any
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["bet_id"] != float64(7) || payload["event_id"] != "e1" || payload["amount"] != float64(10) {
		t.Errorf("unexpected payload: %v", payload)
	}
	if _, ok := payload["ts_unix_ms"]; !ok {
		t.Errorf("ts_unix_ms missing: %v", payload)
	}
}

func TestPublishBetSettled(t *testing.T) {
	settled := &captureWriter{}
	p := NewKafkaPublisher(&captureWriter{}, settled)

	err := p.PublishBetSettled(context.Background(), events.BetSettled{EventID: "e1", NewState: events.StateFinishedWin, Settled: 2})
	if err != nil {
		t.Fatalf("PublishBetSettled: %v", err)
	}
	if len(settled.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(settled.msgs))
	}

	var payload map[string]any
	if err := json.Unmarshal(settled.msgs[0].Value, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["event_id"] != "e1" || payload["new_state"] != "FINISHED_WIN" || payload["settled"] != float64(2) {
		t.Errorf("unexpected payload: %v", payload)
	}
}
