package usecase

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
)

type CreatePipelineInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Columns     []entity.Column `json:"columns,omitempty"`
}

type CreatePipelineUseCase struct {
	Repo entity.PipelineRepositoryInterface
}

func NewCreatePipelineUseCase(repo entity.PipelineRepositoryInterface) *CreatePipelineUseCase {
	return &CreatePipelineUseCase{Repo: repo}
}

func (uc *CreatePipelineUseCase) Execute(ctx context.Context, principal Principal, input CreatePipelineInput) (*entity.Pipeline, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, validationError("name is required")
	}

	p, err := entity.NewPipeline(principal.UserID, input.Name, input.Description, input.Columns)
	if err != nil {
		return nil, validationError(err.Error())
	}

	if err := uc.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			return nil, validationError("pipeline with this name already exists")
		}
		return nil, databaseError("falha ao criar pipeline", err)
	}
	return p, nil
}

type ListPipelinesUseCase struct {
	Repo entity.PipelineRepositoryInterface
}

func NewListPipelinesUseCase(repo entity.PipelineRepositoryInterface) *ListPipelinesUseCase {
	return &ListPipelinesUseCase{Repo: repo}
}

// Execute devolve só os pipelines do usuário, com as colunas efetivas.
func (uc *ListPipelinesUseCase) Execute(ctx context.Context, principal Principal) ([]*entity.Pipeline, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}

	pipelines, err := uc.Repo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, databaseError("falha ao listar pipelines", err)
	}
	for _, p := range pipelines {
		p.Columns = p.EffectiveColumns()
	}
	return pipelines, nil
}

type BoardOutput struct {
	Pipeline *entity.Pipeline     `json:"pipeline"`
	Columns  []entity.BoardColumn `json:"columns"`
}

type GetBoardUseCase struct {
	PipelineRepo entity.PipelineRepositoryInterface
	LeadRepo     entity.LeadRepositoryInterface
}

func NewGetBoardUseCase(pipelineRepo entity.PipelineRepositoryInterface, leadRepo entity.LeadRepositoryInterface) *GetBoardUseCase {
	return &GetBoardUseCase{PipelineRepo: pipelineRepo, LeadRepo: leadRepo}
}

func (uc *GetBoardUseCase) Execute(ctx context.Context, principal Principal, pipelineID string) (*BoardOutput, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(pipelineID) == "" {
		return nil, validationError("pipelineId is required")
	}

	p, err := loadOwnedPipeline(ctx, uc.PipelineRepo, principal, pipelineID)
	if err != nil {
		return nil, err
	}

	leads, err := uc.LeadRepo.ListByUser(ctx, principal.UserID, entity.LeadFilter{PipelineID: p.ID})
	if err != nil {
		return nil, databaseError("falha ao listar leads", err)
	}

	board := entity.NewBoard(p)
	p.Columns = board.Columns()
	return &BoardOutput{Pipeline: p, Columns: board.Group(leads)}, nil
}

type DeletePipelineOutput struct {
	ID              string `json:"id"`
	UnassignedLeads int64  `json:"unassignedLeads"`
}

type DeletePipelineUseCase struct {
	Repo entity.PipelineRepositoryInterface
}

func NewDeletePipelineUseCase(repo entity.PipelineRepositoryInterface) *DeletePipelineUseCase {
	return &DeletePipelineUseCase{Repo: repo}
}

// Execute remove o pipeline sem apagar leads: os leads ficam sem pipeline na
// mesma transação do delete.
func (uc *DeletePipelineUseCase) Execute(ctx context.Context, principal Principal, pipelineID string) (*DeletePipelineOutput, error) {
	if err := principal.authenticate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(pipelineID) == "" {
		return nil, validationError("pipelineId is required")
	}

	if _, err := loadOwnedPipeline(ctx, uc.Repo, principal, pipelineID); err != nil {
		return nil, err
	}

	n, err := uc.Repo.DeleteAndUnassign(ctx, principal.UserID, pipelineID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, notFound(CodePipelineNotFound, "pipeline não encontrado")
		}
		return nil, databaseError("falha ao remover pipeline", err)
	}

	logger.FromContext(ctx).Info("pipeline removido",
		zap.String("pipeline_id", pipelineID),
		zap.Int64("unassigned_leads", n))

	return &DeletePipelineOutput{ID: pipelineID, UnassignedLeads: n}, nil
}
