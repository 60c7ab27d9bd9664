package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ColumnNew       = "novos"
	ColumnScheduled = "agendados"
	ColumnAttended  = "compareceram"
	ColumnClosed    = "fechados"
	ColumnNoShow    = "naoVieram"
)

type Column struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status,omitempty"`
}

// DefaultColumns é o quadro usado quando o pipeline não personaliza colunas.
func DefaultColumns() []Column {
	return []Column{
		{ID: ColumnNew, Title: "Novos", Status: StatusNew},
		{ID: ColumnScheduled, Title: "Agendados", Status: StatusScheduled},
		{ID: ColumnAttended, Title: "Compareceram", Status: StatusAttended},
		{ID: ColumnClosed, Title: "Fechados", Status: StatusClosed},
		{ID: ColumnNoShow, Title: "Não vieram", Status: StatusNoShow},
	}
}

func defaultColumnStatus(id string) (Status, bool) {
	for _, c := range DefaultColumns() {
		if c.ID == id {
			return c.Status, true
		}
	}
	return "", false
}

type Pipeline struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Columns     []Column  `json:"columns,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PipelineRepositoryInterface interface {
	Create(ctx context.Context, p *Pipeline) error
	FindByID(ctx context.Context, userID, id string) (*Pipeline, error)
	ListByUser(ctx context.Context, userID string) ([]*Pipeline, error)
	// DeleteAndUnassign anula pipeline_id dos leads e remove o pipeline numa
	// única transação. Retorna quantos leads ficaram sem pipeline.
	DeleteAndUnassign(ctx context.Context, userID, id string) (int64, error)
}

func NewPipeline(userID, name, description string, columns []Column) (*Pipeline, error) {
	now := time.Now()
	p := &Pipeline{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Columns:     columns,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) Validate() error {
	if p.UserID == "" {
		return errors.New("user_id is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	if len(p.Columns) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(p.Columns))
	for i := range p.Columns {
		c := &p.Columns[i]
		c.ID = strings.TrimSpace(c.ID)
		c.Title = strings.TrimSpace(c.Title)
		if c.ID == "" || c.Title == "" {
			return fmt.Errorf("column %d: id and title are required", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("column %q is duplicated", c.ID)
		}
		seen[c.ID] = true

		if c.Status == "" {
			st, ok := defaultColumnStatus(c.ID)
			if !ok {
				return fmt.Errorf("column %q: status is required", c.ID)
			}
			c.Status = st
			continue
		}
		st, err := ParseStatus(string(c.Status))
		if err != nil {
			return fmt.Errorf("column %q: %w", c.ID, err)
		}
		if st == StatusRemoved {
			return fmt.Errorf("column %q: %s cannot be a column", c.ID, StatusRemoved)
		}
		c.Status = st
	}
	return nil
}

// EffectiveColumns devolve as colunas do pipeline ou o quadro padrão.
func (p *Pipeline) EffectiveColumns() []Column {
	if p == nil || len(p.Columns) == 0 {
		return DefaultColumns()
	}
	return p.Columns
}
