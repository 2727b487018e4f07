package line

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/radieske/line-bet-platform-poc/pkg/contracts/events"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrUnavailable   = errors.New("line provider unavailable")
)

// Client é o cliente HTTP do line-provider. Timeout curto: uma chamada lenta
// dentro do place_bet não pode segurar requisições alheias.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// GetEvent faz o lookup direto (sem cache) usado na validação da aposta.
func (c *Client) GetEvent(ctx context.Context, eventID string) (events.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/event/"+eventID, nil)
	if err != nil {
		return events.Event{}, err
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return events.Event{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return events.Event{}, ErrEventNotFound
	}
	if res.StatusCode != http.StatusOK {
		return events.Event{}, fmt.Errorf("%w: http %d", ErrUnavailable, res.StatusCode)
	}

	var ev events.Event
	if err := json.NewDecoder(res.Body).Decode(&ev); err != nil {
		return events.Event{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return ev, nil
}

// ListEvents busca a listagem de eventos abertos no line-provider.
func (c *Client) ListEvents(ctx context.Context) ([]events.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/events", nil)
	if err != nil {
		return nil, err
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http %d", ErrUnavailable, res.StatusCode)
	}

	var evs []events.Event
	if err := json.NewDecoder(res.Body).Decode(&evs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return evs, nil
}

// RegisterCallback registra a URL do bet-maker no line-provider para receber
// notificações de mudança de estado.
func (c *Client) RegisterCallback(ctx context.Context, url string) error {
	body, _ := json.Marshal(map[string]string{"url": url})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/register-callback", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("register callback http %d", res.StatusCode)
	}
	return nil
}
