package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type PageRepository struct {
	DB *sql.DB
}

func NewPageRepository(db *sql.DB) *PageRepository {
	return &PageRepository{DB: db}
}

func (r *PageRepository) FindByUserID(ctx context.Context, userID string) (*entity.Page, error) {
	query := `
		SELECT id, user_id, title, bio, avatar_url, blocks, updated_at
		FROM pages
		WHERE user_id = $1
	`
	var (
		p      entity.Page
		blocks []byte
	)
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&p.ID, &p.UserID, &p.Title, &p.Bio, &p.AvatarURL, &blocks, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}

	p.Blocks = []entity.Block{}
	if len(blocks) > 0 {
		// Tipos desconhecidos viram UnknownBlock e não derrubam a página.
		if err := json.Unmarshal(blocks, &p.Blocks); err != nil {
			return nil, fmt.Errorf("blocos corrompidos na página %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func (r *PageRepository) Upsert(ctx context.Context, p *entity.Page) error {
	blocks := p.Blocks
	if blocks == nil {
		blocks = []entity.Block{}
	}
	body, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("blocos inválidos: %w", err)
	}

	query := `
		INSERT INTO pages (id, user_id, title, bio, avatar_url, blocks, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			bio = EXCLUDED.bio,
			avatar_url = EXCLUDED.avatar_url,
			blocks = EXCLUDED.blocks,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	err = r.DB.QueryRowContext(ctx, query,
		p.ID,
		p.UserID,
		p.Title,
		p.Bio,
		p.AvatarURL,
		string(body),
		p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("falha ao salvar página: %w", translate(err))
	}
	return nil
}
