package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/auth"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// memStore implementa os repositórios em memória para os testes de rota.
type memStore struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	leads     map[string]*entity.Lead
	pipelines map[string]*entity.Pipeline
	pages     map[string]*entity.Page
	events    []*entity.Event
	dbCalls   int
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*entity.User{
			"user-1": {ID: "user-1", Name: "Dra. Ana", Email: "ana@example.com", Slug: "dra-ana"},
			"user-2": {ID: "user-2", Name: "Dr. Beto", Email: "beto@example.com", Slug: "dr-beto"},
		},
		leads:     map[string]*entity.Lead{},
		pipelines: map[string]*entity.Pipeline{},
		pages:     map[string]*entity.Page{},
	}
}

func (s *memStore) touch() {
	s.mu.Lock()
	s.dbCalls++
	s.mu.Unlock()
}

type memUsers struct{ *memStore }

func (r memUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.touch()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, entity.ErrNotFound
}

func (r memUsers) FindBySlug(_ context.Context, slug string) (*entity.User, error) {
	r.touch()
	for _, u := range r.users {
		if strings.EqualFold(u.Slug, slug) {
			return u, nil
		}
	}
	return nil, entity.ErrNotFound
}

type memLeads struct{ *memStore }

func (r memLeads) Create(_ context.Context, l *entity.Lead) error {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.leads[l.ID] = &cp
	return nil
}

func (r memLeads) FindByID(_ context.Context, userID, id string) (*entity.Lead, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.leads[id]; ok && l.UserID == userID {
		cp := *l
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (r memLeads) ListByUser(_ context.Context, userID string, f entity.LeadFilter) ([]*entity.Lead, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Lead{}
	for _, l := range r.leads {
		if l.UserID != userID || l.Removed() {
			continue
		}
		if f.PipelineID != "" && (l.PipelineID == nil || *l.PipelineID != f.PipelineID) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (r memLeads) Update(_ context.Context, l *entity.Lead) error {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.leads[l.ID]; !ok || cur.UserID != l.UserID {
		return entity.ErrNotFound
	}
	cp := *l
	r.leads[l.ID] = &cp
	return nil
}

func (r memLeads) UpdateStatus(_ context.Context, userID, id string, st entity.Status) error {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok || l.UserID != userID {
		return entity.ErrNotFound
	}
	l.Status = st
	return nil
}

func (r memLeads) Delete(_ context.Context, userID, id string) error {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leads[id]
	if !ok || l.UserID != userID {
		return entity.ErrNotFound
	}
	delete(r.leads, id)
	return nil
}

func (r memLeads) ExistingPhones(_ context.Context, userID string, phones []string) (map[string]bool, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	found := map[string]bool{}
	for _, l := range r.leads {
		if l.UserID != userID {
			continue
		}
		for _, p := range phones {
			if entity.NormalizePhone(l.Phone) == p {
				found[p] = true
			}
		}
	}
	return found, nil
}

func (r memLeads) CreateBatch(ctx context.Context, leads []*entity.Lead) error {
	for _, l := range leads {
		if err := r.Create(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

type memPipelines struct{ *memStore }

func (r memPipelines) Create(_ context.Context, p *entity.Pipeline) error {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cur := range r.pipelines {
		if cur.UserID == p.UserID && cur.Name == p.Name {
			return entity.ErrConflict
		}
	}
	cp := *p
	r.pipelines[p.ID] = &cp
	return nil
}

func (r memPipelines) FindByID(_ context.Context, userID, id string) (*entity.Pipeline, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pipelines[id]; ok && p.UserID == userID {
		cp := *p
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (r memPipelines) ListByUser(_ context.Context, userID string) ([]*entity.Pipeline, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Pipeline{}
	for _, p := range r.pipelines {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memPipelines) DeleteAndUnassign(_ context.Context, userID, id string) (int64, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pipelines[id]
	if !ok || p.UserID != userID {
		return 0, entity.ErrNotFound
	}
	var n int64
	for _, l := range r.leads {
		if l.UserID == userID && l.PipelineID != nil && *l.PipelineID == id {
			l.PipelineID = nil
			n++
		}
	}
	delete(r.pipelines, id)
	return n, nil
}

type memPages struct{ *memStore }

func (r memPages) FindByUserID(_ context.Context, userID string) (*entity.Page, error) {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pages[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (r memPages) Upsert(_ context.Context, p *entity.Page) error {
	r.touch()
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.pages[p.UserID] = &cp
	return nil
}

type memTracker struct{ *memStore }

func (t memTracker) Track(_ context.Context, e *entity.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, e)
}

type stubRenderer struct{}

func (stubRenderer) RenderPage(w io.Writer, user *entity.User, page *entity.Page) error {
	_, err := fmt.Fprintf(w, "<h1>%s</h1>", page.Title)
	return err
}

type testServer struct {
	store   *memStore
	handler http.Handler
	jwt     *auth.JWTUtil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := newMemStore()
	users := memUsers{store}
	leads := memLeads{store}
	pipelines := memPipelines{store}
	pages := memPages{store}
	tracker := memTracker{store}

	jwtUtil, err := auth.NewJWTUtil("segredo-de-teste", time.Hour)
	require.NoError(t, err)

	lead := NewLeadHandler(usecase.NewCaptureLeadUseCase(users, nil, leads, tracker, nil), 4)
	t.Cleanup(lead.rateLimiter.Stop)

	handler := NewRouter(RouterConfig{
		AllowedOrigins: []string{"http://localhost:5173"},
		Auth:           jwtUtil,
		Lead:           lead,
		Leads: &LeadsHandler{
			ListUC:   usecase.NewListLeadsUseCase(leads, pipelines),
			GetUC:    usecase.NewGetLeadUseCase(leads),
			CreateUC: usecase.NewCreateLeadUseCase(leads, pipelines),
			UpdateUC: usecase.NewUpdateLeadUseCase(leads, pipelines, time.UTC),
			MoveUC:   usecase.NewMoveLeadUseCase(leads, pipelines),
			DeleteUC: usecase.NewDeleteLeadUseCase(leads),
			ImportUC: usecase.NewImportLeadsUseCase(leads, pipelines),
		},
		Pipelines: &PipelineHandler{
			CreateUC: usecase.NewCreatePipelineUseCase(pipelines),
			ListUC:   usecase.NewListPipelinesUseCase(pipelines),
			BoardUC:  usecase.NewGetBoardUseCase(pipelines, leads),
			DeleteUC: usecase.NewDeletePipelineUseCase(pipelines),
		},
		Pages: &PageHandler{
			RenderUC: usecase.NewRenderPageUseCase(users, pages, tracker),
			UpdateUC: usecase.NewUpdatePageUseCase(pages),
			Renderer: stubRenderer{},
		},
		Events: &EventHandler{ClickUC: usecase.NewTrackClickUseCase(users, tracker)},
		Health: NewHealthHandler(nil, nil, false),
	})

	return &testServer{store: store, handler: handler, jwt: jwtUtil}
}

func (s *testServer) do(t *testing.T, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := s.jwt.GenerateToken(userID, userID+"@example.com")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *testServer) seedLead(t *testing.T, userID, name, phone string, status entity.Status) *entity.Lead {
	t.Helper()
	l, err := entity.NewLead(userID, name, phone)
	require.NoError(t, err)
	l.Status = status
	s.store.leads[l.ID] = l
	return l
}
