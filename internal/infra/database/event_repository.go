package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type EventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	query := `
		INSERT INTO events (id, user_id, lead_id, type, ip, user_agent, source, block_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.UserID,
		e.LeadID,
		string(e.Type),
		nullString(e.IP),
		nullString(e.UserAgent),
		nullString(e.Source),
		nullString(e.BlockID),
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao gravar evento %s: %w", e.Type, err)
	}
	return nil
}

func (r *EventRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("falha ao apagar eventos: %w", err)
	}
	return res.RowsAffected()
}
