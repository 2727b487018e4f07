package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

// chave lógica fixa do snapshot "listagem de eventos abertos"
const eventsKey = "bets:events:listing"

// EventsCache guarda o snapshot da listagem de eventos no Redis com TTL curto.
// Staleness de até um TTL é aceita: a listagem é só exibição, a validação de
// aposta nunca lê daqui.
type EventsCache struct {
	R   *redis.Client
	TTL time.Duration

	hits   atomic.Int64
	misses atomic.Int64

	OnHit  func() // métricas (counter++)
	OnMiss func() // métricas
}

func New(r *redis.Client, ttl time.Duration) *EventsCache {
	return &EventsCache{R: r, TTL: ttl}
}

// GetEvents retorna o snapshot cacheado, se presente. Erro de leitura do Redis
// degrada pra miss — o cache nunca derruba a listagem sozinho.
func (c *EventsCache) GetEvents(ctx context.Context) ([]events.Event, bool, error) {
	b, err := c.R.Get(ctx, eventsKey).Bytes()
	if err != nil {
		c.misses.Add(1)
		if c.OnMiss != nil {
			c.OnMiss()
		}
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var evs []events.Event
	if err := json.Unmarshal(b, &evs); err != nil {
		return nil, false, err
	}

	c.hits.Add(1)
	if c.OnHit != nil {
		c.OnHit()
	}
	return evs, true, nil
}

// SetEvents grava o snapshot com o TTL configurado.
func (c *EventsCache) SetEvents(ctx context.Context, evs []events.Event) error {
	b, err := json.Marshal(evs)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, eventsKey, b, c.TTL).Err()
}

// Delete remove o snapshot (usado só operacionalmente; nenhuma mutação de
// evento invalida o cache — ele simplesmente expira).
func (c *EventsCache) Delete(ctx context.Context) error {
	return c.R.Del(ctx, eventsKey).Err()
}

// Stats combina os contadores locais de hit/miss com o uso de memória do Redis
// para o endpoint de diagnóstico.
type Stats struct {
	Hits       int64  `json:"hits"`
	Misses     int64  `json:"misses"`
	UsedMemory string `json:"used_memory"`
}

func (c *EventsCache) Stats(ctx context.Context) (Stats, error) {
	st := Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		UsedMemory: "unknown",
	}

	info, err := c.R.Info(ctx, "memory").Result()
	if err != nil {
		return st, err
	}
	for _, line := range strings.Split(info, "\n") {
		if v, ok := strings.CutPrefix(line, "used_memory_human:"); ok {
			st.UsedMemory = strings.TrimSpace(v)
			break
		}
	}
	return st, nil
}
