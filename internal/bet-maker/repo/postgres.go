package repo

import (
	"context"
	"database/sql"
)

// Postgres implementa a persistência de apostas em banco Postgres
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// CreatePending insere uma nova aposta com status PENDING e retorna o registro
// completo (id sequencial atribuído pelo banco).
func (p *Postgres) CreatePending(ctx context.Context, eventID string, amount float64) (*Bet, error) {
	var b Bet
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO bets (event_id, amount, status)
		VALUES ($1, $2, 'PENDING')
		RETURNING id, event_id, amount, status, created_at, updated_at`,
		eventID, amount,
	).Scan(&b.ID, &b.EventID, &b.Amount, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List retorna todas as apostas na ordem de inserção.
func (p *Postgres) List(ctx context.Context) ([]Bet, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, event_id, amount, status, created_at, updated_at
		FROM bets
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bet
	for rows.Next() {
		var b Bet
		if err := rows.Scan(&b.ID, &b.EventID, &b.Amount, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// SettleByEvent marca como WON/LOST todas as apostas PENDING do evento.
// Só toca linhas PENDING, então replay da mesma notificação (ou notificação
// duplicada/atrasada) é no-op — aposta liquidada nunca muda de novo.
func (p *Postgres) SettleByEvent(ctx context.Context, eventID string, status string) (int64, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE bets
		SET status = $2, updated_at = now()
		WHERE event_id = $1 AND status = 'PENDING'`,
		eventID, status,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
