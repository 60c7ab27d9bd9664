package entity

import (
	"context"
	"time"
)

type Page struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Blocks    []Block   `json:"blocks"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PageRepositoryInterface interface {
	FindByUserID(ctx context.Context, userID string) (*Page, error)
	Upsert(ctx context.Context, p *Page) error
}
