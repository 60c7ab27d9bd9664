package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type MoveLeadInput struct {
	LeadID   string `json:"leadId"`
	ColumnID string `json:"columnId"`
}

type MoveLeadOutput struct {
	Lead   *entity.Lead  `json:"lead"`
	Column entity.Column `json:"column"`
	From   entity.Status `json:"from"`
	To     entity.Status `json:"to"`
}

type MoveLeadUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	PipelineRepo entity.PipelineRepositoryInterface
}

func NewMoveLeadUseCase(leadRepo entity.LeadRepositoryInterface, pipelineRepo entity.PipelineRepositoryInterface) *MoveLeadUseCase {
	return &MoveLeadUseCase{LeadRepo: leadRepo, PipelineRepo: pipelineRepo}
}

// Execute trata um drag-and-drop: resolve a coluna de destino no quadro do
// pipeline do lead e grava apenas o status. Uma tentativa, sem retry.
func (uc *MoveLeadUseCase) Execute(ctx context.Context, principal Principal, input MoveLeadInput) (*MoveLeadOutput, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.LeadID) == "" || strings.TrimSpace(input.ColumnID) == "" {
		return nil, validationError("leadId and columnId are required")
	}

	lead, err := loadOwnedLead(ctx, uc.LeadRepo, principal, input.LeadID)
	if err != nil {
		return nil, err
	}

	var pipeline *entity.Pipeline
	if lead.PipelineID != nil {
		pipeline, err = uc.PipelineRepo.FindByID(ctx, principal.UserID, *lead.PipelineID)
		if err != nil && !errors.Is(err, entity.ErrNotFound) {
			return nil, databaseError("falha ao buscar pipeline", err)
		}
	}

	board := entity.NewBoard(pipeline)
	status, err := board.Resolve(strings.TrimSpace(input.ColumnID))
	if err != nil {
		return nil, validationError(err.Error())
	}

	from := lead.Status
	if err := uc.LeadRepo.UpdateStatus(ctx, principal.UserID, lead.ID, status); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound(CodeLeadNotFound, "lead não encontrado")
		}
		return nil, databaseError("falha ao mover lead", err)
	}
	lead.Status = status

	return &MoveLeadOutput{
		Lead:   lead,
		Column: board.ColumnFor(status),
		From:   from,
		To:     status,
	}, nil
}
