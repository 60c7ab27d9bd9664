package entity

import (
	"context"
	"time"
)

// User é o profissional dono da página pública e dos leads.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"-"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindBySlug(ctx context.Context, slug string) (*User, error)
}

// Indication é um link de indicação, sempre dentro do namespace de um usuário.
type Indication struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type IndicationRepositoryInterface interface {
	FindBySlug(ctx context.Context, userID, slug string) (*Indication, error)
}
