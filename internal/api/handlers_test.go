package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow.app/taskflow/internal/auth"
	"taskflow.app/taskflow/internal/core"
	"taskflow.app/taskflow/internal/store"
)

type queuedProvider struct {
	responses []string
	errs      []error
	calls     int
}

func (p *queuedProvider) Generate(context.Context, core.ModelRequest) (string, error) {
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	if i < len(p.responses) {
		return p.responses[i], nil
	}
	return "ok", nil
}

func (p *queuedProvider) Close() error { return nil }

type testServer struct {
	*httptest.Server
	client   *http.Client
	provider *queuedProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	provider := &queuedProvider{}
	retry := core.DefaultRetryPolicy()
	retry.Sleep = func(context.Context, time.Duration) error { return nil }
	reg := prometheus.NewRegistry()
	assistant := core.NewAssistant(provider, core.NewRateLimiter(core.DefaultRateLimit, time.Minute, nil),
		core.WithRetryPolicy(retry), core.WithMetrics(core.NewMetrics(reg)))

	h := NewAPIHandler(
		core.NewUserService(db),
		core.NewTaskService(db),
		core.NewChatService(db),
		assistant,
		auth.NewSessionManager("test-secret", time.Hour, false),
	)
	srv := httptest.NewServer(NewRouter(h, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testServer{Server: srv, client: &http.Client{Jar: jar}, provider: provider}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (s *testServer) signup(t *testing.T, email string) store.User {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/signup", core.SignupInput{
		FirstName: "Ada", LastName: "Lovelace", Email: email, Password: "engine1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return *decode[UserResponse](t, resp).User
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestUnauthenticated(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodGet, "/chats", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]core.ChatSummary](t, resp))

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/chats"},
		{http.MethodGet, "/chats/1/messages"},
		{http.MethodGet, "/dashboard"},
		{http.MethodGet, "/todos"},
		{http.MethodPost, "/assistant/reply"},
	} {
		resp := s.do(t, route.method, route.path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
	}
	assert.Zero(t, s.provider.calls)
}

func TestSignupAndLogin(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/signup", core.SignupInput{Email: "a@b.c"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "All fields are required", decode[map[string]string](t, resp)["error"])

	user := s.signup(t, "ada@example.com")
	assert.Equal(t, "Ada", user.FirstName)

	resp = s.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	dash := decode[core.Dashboard](t, resp)
	assert.Equal(t, user.ID, dash.User.ID)
	assert.Empty(t, dash.Todos)

	resp = s.do(t, http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/login", LoginRequest{Email: "ada@example.com", Password: "nope12"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", decode[map[string]string](t, resp)["error"])

	resp = s.do(t, http.MethodPost, "/login", LoginRequest{Email: "ada@example.com", Password: "engine1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTodos(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "todo@example.com")

	resp := s.do(t, http.MethodPost, "/todos", CreateTodoRequest{Text: ""})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/todos", CreateTodoRequest{Text: "Buy balloons"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	todo := decode[store.Task](t, resp)
	assert.False(t, todo.Completed)

	resp = s.do(t, http.MethodPost, "/todos/"+itoa(todo.ID)+"/toggle", ToggleTodoRequest{Completed: false})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/todos", nil)
	todos := decode[[]store.Task](t, resp)
	require.Len(t, todos, 1)
	assert.True(t, todos[0].Completed)

	resp = s.do(t, http.MethodPost, "/todos/999/toggle", ToggleTodoRequest{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = s.do(t, http.MethodPost, "/todos/abc/toggle", ToggleTodoRequest{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/todos/"+itoa(todo.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = s.do(t, http.MethodDelete, "/todos/"+itoa(todo.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChats(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "chat@example.com")

	resp := s.do(t, http.MethodPost, "/chats", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	chat := decode[store.Chat](t, resp)

	resp = s.do(t, http.MethodPost, "/chats/"+itoa(chat.ID)+"/messages", SaveMessageRequest{
		Role:        store.RoleAssistant,
		Text:        new(string),
		Suggestions: []string{"Buy balloons", "Order cake", "Send invites"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/chats/"+itoa(chat.ID)+"/messages", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	messages := decode[[]core.MessageView](t, resp)
	require.Len(t, messages, 2)
	assert.Equal(t, core.WelcomeMessage, messages[0].Text)
	assert.Equal(t, []string{"Buy balloons", "Order cake", "Send invites"}, messages[1].Suggestions)

	resp = s.do(t, http.MethodGet, "/chats", nil)
	summaries := decode[[]core.ChatSummary](t, resp)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Buy balloons", summaries[0].Preview)

	resp = s.do(t, http.MethodPost, "/chats/"+itoa(chat.ID+50)+"/messages", SaveMessageRequest{Role: store.RoleUser})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssistantReply(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "assist@example.com")
	s.provider.responses = []string{`["Buy balloons","Order cake","Send invites"]`}

	resp := s.do(t, http.MethodPost, "/assistant/reply", ReplyRequest{Conversation: core.Conversation{
		{Role: "assistant", Text: core.WelcomeMessage},
		{Role: "user", Text: "I want to plan a birthday party"},
	}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reply := decode[core.Reply](t, resp)
	assert.Empty(t, reply.Text)
	assert.Equal(t, []string{"Buy balloons", "Order cake", "Send invites"}, reply.Suggestions)

	resp = s.do(t, http.MethodPost, "/assistant/reply", ReplyRequest{Conversation: core.Conversation{
		{Role: "assistant", Text: "hi"},
	}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAssistantErrors(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "errors@example.com")
	conv := ReplyRequest{Conversation: core.Conversation{{Role: "user", Text: "hi"}}}

	s.provider.errs = []error{errors.New("bad request")}
	resp := s.do(t, http.MethodPost, "/assistant/reply", conv)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, core.ProviderFailureMessage, decode[map[string]string](t, resp)["error"])

	for i := 1; i < core.DefaultRateLimit; i++ {
		resp = s.do(t, http.MethodPost, "/assistant/reply", conv)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp = s.do(t, http.MethodPost, "/assistant/reply", conv)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestAssistantRegenerate(t *testing.T) {
	s := newTestServer(t)
	s.signup(t, "regen@example.com")
	s.provider.responses = []string{`["Hire magician"]`}

	resp := s.do(t, http.MethodPost, "/assistant/regenerate", RegenerateRequest{
		Conversation: core.Conversation{{Role: "user", Text: "party"}, {Role: "assistant", Text: ""}},
		Rejected:     []string{"Buy balloons"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Hire magician"}, decode[RegenerateResponse](t, resp).Suggestions)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
