package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

// Notifier mantém o registro de callbacks e faz o fan-out de mudanças de
// estado. Entrega é best-effort: uma tentativa por assinante, com timeout
// próprio; falha é logada, contada e descartada — nunca propaga pra transição
// que disparou o broadcast.
type Notifier struct {
	log     *zap.Logger
	client  *http.Client
	timeout time.Duration

	mu   sync.Mutex
	urls []string

	OnDelivered func() // métricas (counter++)
	OnFailed    func() // métricas
}

func New(log *zap.Logger, timeout time.Duration) *Notifier {
	return &Notifier{
		log:     log,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Register adiciona a URL ao registro, ignorando duplicata exata.
// Entradas vivem até o fim do processo; não há verificação de liveness.
func (n *Notifier) Register(url string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, u := range n.urls {
		if u == url {
			return
		}
	}
	n.urls = append(n.urls, url)
}

// Subscribers retorna uma cópia do registro atual.
func (n *Notifier) Subscribers() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]string, len(n.urls))
	copy(out, n.urls)
	return out
}

// Broadcast envia {event_id,new_state} para todos os assinantes em paralelo e
// aguarda todas as tentativas antes de retornar. A falha de um assinante não
// impede a entrega aos demais.
func (n *Notifier) Broadcast(ctx context.Context, ev events.EventStateChanged) {
	urls := n.Subscribers()
	if len(urls) == 0 {
		return
	}

	body, _ := json.Marshal(ev)

	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()

			if err := n.deliver(ctx, url, body); err != nil {
				n.log.Warn("callback delivery failed",
					zap.String("url", url),
					zap.String("event_id", ev.EventID),
					zap.Error(err),
				)
				if n.OnFailed != nil {
					n.OnFailed()
				}
				return
			}
			if n.OnDelivered != nil {
				n.OnDelivered()
			}
		}(u)
	}
	wg.Wait()
}

// deliver faz um único POST em {url}/event-update com timeout próprio.
func (n *Notifier) deliver(ctx context.Context, url string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/event-update", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("callback http %d", res.StatusCode)
	}
	return nil
}
