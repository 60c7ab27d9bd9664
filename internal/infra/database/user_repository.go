package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT id, name, email, COALESCE(phone, ''), slug, created_at FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindBySlug(ctx context.Context, slug string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT id, name, email, COALESCE(phone, ''), slug, created_at FROM users WHERE lower(slug) = lower($1)`, slug)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	var u entity.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Slug, &u.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

type IndicationRepository struct {
	DB *sql.DB
}

func NewIndicationRepository(db *sql.DB) *IndicationRepository {
	return &IndicationRepository{DB: db}
}

// FindBySlug procura só dentro do namespace do usuário.
func (r *IndicationRepository) FindBySlug(ctx context.Context, userID, slug string) (*entity.Indication, error) {
	query := `
		SELECT id, user_id, slug, name, created_at
		FROM indications
		WHERE user_id = $1 AND lower(slug) = lower($2)
	`
	var i entity.Indication
	err := r.DB.QueryRowContext(ctx, query, userID, slug).Scan(&i.ID, &i.UserID, &i.Slug, &i.Name, &i.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &i, nil
}
