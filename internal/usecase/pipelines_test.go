package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func TestCreatePipeline(t *testing.T) {
	repo := new(MockPipelineRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Pipeline) bool { return p.Name == "Implantes" })).Return(nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(entity.ErrConflict).Once()

	uc := NewCreatePipelineUseCase(repo)
	p, err := uc.Execute(context.Background(), owner, CreatePipelineInput{Name: "Implantes"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)

	_, err = uc.Execute(context.Background(), owner, CreatePipelineInput{Name: "Implantes"})
	assert.Equal(t, CodeValidation, domainCode(err))

	_, err = uc.Execute(context.Background(), owner, CreatePipelineInput{Name: "  "})
	assert.Equal(t, CodeValidation, domainCode(err))
}

func TestListPipelines_FillsDefaultColumns(t *testing.T) {
	repo := new(MockPipelineRepository)
	repo.On("ListByUser", mock.Anything, "user-1").Return([]*entity.Pipeline{{ID: "p1", UserID: "user-1"}}, nil)

	out, err := NewListPipelinesUseCase(repo).Execute(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, entity.DefaultColumns(), out[0].Columns)
}

func TestGetBoard(t *testing.T) {
	pipelines := new(MockPipelineRepository)
	leads := new(MockLeadRepository)
	pipelines.On("FindByID", mock.Anything, "user-1", "p1").Return(&entity.Pipeline{ID: "p1", UserID: "user-1"}, nil)
	leads.On("ListByUser", mock.Anything, "user-1", entity.LeadFilter{PipelineID: "p1"}).Return([]*entity.Lead{
		{ID: "a", Status: entity.StatusClosed},
		{ID: "b", Status: entity.StatusNoShow},
	}, nil)

	out, err := NewGetBoardUseCase(pipelines, leads).Execute(context.Background(), owner, "p1")
	require.NoError(t, err)
	require.Len(t, out.Columns, 5)
	assert.Equal(t, "a", out.Columns[3].Leads[0].ID)
	assert.Equal(t, "b", out.Columns[4].Leads[0].ID)
	assert.Len(t, out.Pipeline.Columns, 5)
}

func TestDeletePipeline_UnassignsLeads(t *testing.T) {
	repo := new(MockPipelineRepository)
	repo.On("FindByID", mock.Anything, "user-1", "p1").Return(&entity.Pipeline{ID: "p1", UserID: "user-1"}, nil)
	repo.On("DeleteAndUnassign", mock.Anything, "user-1", "p1").Return(int64(3), nil)
	repo.On("FindByID", mock.Anything, "user-1", "p2").Return(nil, entity.ErrNotFound)

	uc := NewDeletePipelineUseCase(repo)
	out, err := uc.Execute(context.Background(), owner, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.UnassignedLeads)

	_, err = uc.Execute(context.Background(), owner, "p2")
	assert.Equal(t, CodePipelineNotFound, domainCode(err))
	repo.AssertNumberOfCalls(t, "DeleteAndUnassign", 1)
}
