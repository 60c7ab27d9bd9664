package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type PipelineRepository struct {
	DB *sql.DB
}

func NewPipelineRepository(db *sql.DB) *PipelineRepository {
	return &PipelineRepository{DB: db}
}

func (r *PipelineRepository) Create(ctx context.Context, p *entity.Pipeline) error {
	// Sem colunas próprias grava NULL: o quadro padrão vale.
	var columns any
	if len(p.Columns) > 0 {
		b, err := json.Marshal(p.Columns)
		if err != nil {
			return fmt.Errorf("colunas inválidas: %w", err)
		}
		columns = string(b)
	}

	query := `
		INSERT INTO pipelines (id, user_id, name, description, columns, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.Description,
		columns,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("falha ao criar pipeline: %w", translate(err))
	}
	return nil
}

func scanPipeline(row rowScanner) (*entity.Pipeline, error) {
	var (
		p       entity.Pipeline
		columns []byte
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &columns, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		if err := json.Unmarshal(columns, &p.Columns); err != nil {
			return nil, fmt.Errorf("colunas corrompidas no pipeline %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func (r *PipelineRepository) FindByID(ctx context.Context, userID, id string) (*entity.Pipeline, error) {
	query := `
		SELECT id, user_id, name, description, columns, created_at, updated_at
		FROM pipelines
		WHERE id = $1 AND user_id = $2
	`
	p, err := scanPipeline(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *PipelineRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Pipeline, error) {
	query := `
		SELECT id, user_id, name, description, columns, created_at, updated_at
		FROM pipelines
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar pipelines: %w", err)
	}
	defer rows.Close()

	pipelines := []*entity.Pipeline{}
	for rows.Next() {
		p, err := scanPipeline(rows)
		if err != nil {
			return nil, err
		}
		pipelines = append(pipelines, p)
	}
	return pipelines, rows.Err()
}

func (r *PipelineRepository) DeleteAndUnassign(ctx context.Context, userID, id string) (int64, error) {
	var unassigned int64

	err := WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE leads SET pipeline_id = NULL, updated_at = NOW() WHERE pipeline_id = $1 AND user_id = $2`,
			id, userID)
		if err != nil {
			return fmt.Errorf("falha ao desvincular leads: %w", err)
		}
		if unassigned, err = res.RowsAffected(); err != nil {
			return err
		}

		res, err = tx.ExecContext(ctx, `DELETE FROM pipelines WHERE id = $1 AND user_id = $2`, id, userID)
		if err != nil {
			return fmt.Errorf("falha ao apagar pipeline: %w", err)
		}
		return expectOne(res)
	})
	if err != nil {
		return 0, err
	}
	return unassigned, nil
}
