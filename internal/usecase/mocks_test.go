package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindBySlug(ctx context.Context, slug string) (*entity.User, error) {
	args := m.Called(ctx, slug)
	if u := args.Get(0); u != nil {
		return u.(*entity.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockIndicationRepository struct {
	mock.Mock
}

func (m *MockIndicationRepository) FindBySlug(ctx context.Context, userID, slug string) (*entity.Indication, error) {
	args := m.Called(ctx, userID, slug)
	if i := args.Get(0); i != nil {
		return i.(*entity.Indication), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, userID, id string) (*entity.Lead, error) {
	args := m.Called(ctx, userID, id)
	if l := args.Get(0); l != nil {
		return l.(*entity.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLeadRepository) ListByUser(ctx context.Context, userID string, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, userID, filter)
	if l := args.Get(0); l != nil {
		return l.([]*entity.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, userID, id string, status entity.Status) error {
	return m.Called(ctx, userID, id, status).Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockLeadRepository) ExistingPhones(ctx context.Context, userID string, phones []string) (map[string]bool, error) {
	args := m.Called(ctx, userID, phones)
	if p := args.Get(0); p != nil {
		return p.(map[string]bool), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLeadRepository) CreateBatch(ctx context.Context, leads []*entity.Lead) error {
	return m.Called(ctx, leads).Error(0)
}

type MockPipelineRepository struct {
	mock.Mock
}

func (m *MockPipelineRepository) Create(ctx context.Context, p *entity.Pipeline) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPipelineRepository) FindByID(ctx context.Context, userID, id string) (*entity.Pipeline, error) {
	args := m.Called(ctx, userID, id)
	if p := args.Get(0); p != nil {
		return p.(*entity.Pipeline), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPipelineRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Pipeline, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.([]*entity.Pipeline), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPipelineRepository) DeleteAndUnassign(ctx context.Context, userID, id string) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockPageRepository struct {
	mock.Mock
}

func (m *MockPageRepository) FindByUserID(ctx context.Context, userID string) (*entity.Page, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*entity.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPageRepository) Upsert(ctx context.Context, p *entity.Page) error {
	return m.Called(ctx, p).Error(0)
}

type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) Track(ctx context.Context, e *entity.Event) {
	m.Called(ctx, e)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error {
	return m.Called(ctx, payload).Error(0)
}

var owner = Principal{UserID: "user-1", Email: "dra.ana@example.com"}

func domainCode(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}
