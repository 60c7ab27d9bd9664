package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
)

type capturedRequest struct {
	Path   string
	Auth   string
	Body   map[string]any
	Called int
}

func newGraphServer(t *testing.T, status int, response string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Called++
		captured.Path = r.URL.Path
		captured.Auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured.Body))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestNotifyNewLead(t *testing.T) {
	srv, req := newGraphServer(t, http.StatusOK, `{"messages":[{"id":"wamid.1"}]}`)
	c := NewClient("token-123", "phone-9", srv.URL)

	err := c.NotifyNewLead(context.Background(),
		&entity.User{Name: "Dra. Ana", Phone: "(11) 98888-7777"},
		queue.LeadCapturedPayload{Name: "Maria", Phone: "11977776666"})
	require.NoError(t, err)

	assert.Equal(t, "/phone-9/messages", req.Path)
	assert.Equal(t, "Bearer token-123", req.Auth)
	assert.Equal(t, "5511988887777", req.Body["to"])

	tmpl := req.Body["template"].(map[string]any)
	assert.Equal(t, NewLeadTemplateName, tmpl["name"])
	components := tmpl["components"].([]any)
	params := components[0].(map[string]any)["parameters"].([]any)
	require.Len(t, params, 3)
	assert.Equal(t, "Maria", params[1].(map[string]any)["text"])
}

func TestNotifyNewLead_Skips(t *testing.T) {
	srv, req := newGraphServer(t, http.StatusOK, `{}`)

	require.NoError(t, NewClient("", "", srv.URL).NotifyNewLead(context.Background(), &entity.User{Phone: "11988887777"}, queue.LeadCapturedPayload{}))
	require.NoError(t, NewClient("t", "p", srv.URL).NotifyNewLead(context.Background(), &entity.User{}, queue.LeadCapturedPayload{}))
	assert.Zero(t, req.Called)
}

func TestSendMessage_APIError(t *testing.T) {
	srv, _ := newGraphServer(t, http.StatusBadRequest, `{"error":{"message":"Template name does not exist","code":132001,"type":"OAuthException"}}`)
	err := NewClient("t", "p", srv.URL).SendMessage(context.Background(), SendMessageInput{PhoneNumber: "5511988887777", TemplateName: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Template name does not exist")

	srv, _ = newGraphServer(t, http.StatusInternalServerError, `oops`)
	err = NewClient("t", "p", srv.URL).SendMessage(context.Background(), SendMessageInput{PhoneNumber: "5511988887777"})
	assert.Error(t, err)

	assert.ErrorIs(t, NewClient("", "", "").SendMessage(context.Background(), SendMessageInput{}), ErrNotConfigured)
}
