package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestMoveLead_DefaultBoard(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("FindByID", mock.Anything, "user-1", "lead-1").Return(&entity.Lead{ID: "lead-1", UserID: "user-1", Status: entity.StatusNew}, nil)
	leads.On("UpdateStatus", mock.Anything, "user-1", "lead-1", entity.StatusAttended).Return(nil)

	uc := NewMoveLeadUseCase(leads, new(MockPipelineRepository))
	out, err := uc.Execute(context.Background(), owner, MoveLeadInput{LeadID: "lead-1", ColumnID: entity.ColumnAttended})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusNew, out.From)
	assert.Equal(t, entity.StatusAttended, out.To)
	assert.Equal(t, entity.ColumnAttended, out.Column.ID)
	assert.Equal(t, entity.StatusAttended, out.Lead.Status)
	leads.AssertExpectations(t)
}

func TestMoveLead_CustomColumns(t *testing.T) {
	pipelineID := "pipe-1"
	leads := new(MockLeadRepository)
	pipelines := new(MockPipelineRepository)
	leads.On("FindByID", mock.Anything, "user-1", "lead-1").Return(&entity.Lead{ID: "lead-1", UserID: "user-1", PipelineID: &pipelineID, Status: entity.StatusNew}, nil)
	pipelines.On("FindByID", mock.Anything, "user-1", "pipe-1").Return(&entity.Pipeline{
		ID: "pipe-1", UserID: "user-1",
		Columns: []entity.Column{
			{ID: "entrada", Title: "Entrada", Status: entity.StatusNew},
			{ID: "ganho", Title: "Ganho", Status: entity.StatusClosed},
		},
	}, nil)
	leads.On("UpdateStatus", mock.Anything, "user-1", "lead-1", entity.StatusClosed).Return(nil)

	uc := NewMoveLeadUseCase(leads, pipelines)
	out, err := uc.Execute(context.Background(), owner, MoveLeadInput{LeadID: "lead-1", ColumnID: "ganho"})
	require.NoError(t, err)
	assert.Equal(t, "ganho", out.Column.ID)

	// Coluna padrão não existe neste quadro.
	_, err = uc.Execute(context.Background(), owner, MoveLeadInput{LeadID: "lead-1", ColumnID: entity.ColumnClosed})
	assert.Equal(t, CodeValidation, domainCode(err))
}

func TestMoveLead_Errors(t *testing.T) {
	leads := new(MockLeadRepository)
	leads.On("FindByID", mock.Anything, "user-1", "alheio").Return(nil, entity.ErrNotFound)
	leads.On("FindByID", mock.Anything, "user-1", "lead-1").Return(&entity.Lead{ID: "lead-1", UserID: "user-1"}, nil)
	leads.On("UpdateStatus", mock.Anything, "user-1", "lead-1", entity.StatusClosed).Return(errors.New("timeout"))

	uc := NewMoveLeadUseCase(leads, new(MockPipelineRepository))

	_, err := uc.Execute(context.Background(), owner, MoveLeadInput{LeadID: "alheio", ColumnID: entity.ColumnClosed})
	assert.Equal(t, CodeLeadNotFound, domainCode(err))

	_, err = uc.Execute(context.Background(), owner, MoveLeadInput{LeadID: "lead-1"})
	assert.Equal(t, CodeValidation, domainCode(err))

	_, err = uc.Execute(context.Background(), owner, MoveLeadInput{LeadID: "lead-1", ColumnID: "lixeira"})
	assert.Equal(t, CodeValidation, domainCode(err))

	_, err = uc.Execute(context.Background(), owner, MoveLeadInput{LeadID: "lead-1", ColumnID: entity.ColumnClosed})
	assert.True(t, IsTechnicalError(err))

	leads.AssertNumberOfCalls(t, "UpdateStatus", 1)
}
