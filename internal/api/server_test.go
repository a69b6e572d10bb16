package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskflow/internal/auth"
	"taskflow/internal/config"
	"taskflow/internal/domain"
	"taskflow/internal/logging"
	"taskflow/internal/repository/sqlite"
	"taskflow/internal/services"
)

func newTestServer(t *testing.T, configure func(cfg *config.Config)) *Server {
	t.Helper()

	cfg := config.NewConfig()
	cfg.Application.Environment = config.EnvTesting
	cfg.Auth.JWTSecret = "api-test-secret-with-enough-length"
	if configure != nil {
		configure(cfg)
	}

	repo, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	tokens := auth.NewTokenManager(auth.TokenConfig{Secret: cfg.Auth.JWTSecret, TTL: time.Hour, Issuer: cfg.Auth.Issuer})
	container := &services.ServiceContainer{
		TaskService:    services.NewTaskService(repo, cfg),
		AuthService:    services.NewAuthService(repo, tokens, auth.NewPasswordHasher(bcrypt.MinCost), auth.NewMemoryRevocationStore(), cfg),
		ProfileService: services.NewProfileService(repo, cfg),
	}
	return NewServer(cfg, container, logging.Discard())
}

// do sends a request and decodes a JSON response body into out when out is non-nil
func do(t *testing.T, s *Server, method, path, body, token string, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func signUp(t *testing.T, s *Server, name, email string) domain.Session {
	t.Helper()
	var session domain.Session
	body := `{"name":"` + name + `","email":"` + email + `","password":"hunter22"}`
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/auth/register", body, "", &session))
	return session
}

func postTask(t *testing.T, s *Server, token, body string) domain.Task {
	t.Helper()
	var task domain.Task
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/api/tasks", body, token, &task))
	return task
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	var health HealthResponse
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "", "", &health))
	assert.Equal(t, "ok", health.Status)
}

func TestAuthorizationGate(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{name: "no header", header: "", message: services.MsgNoToken},
		{name: "wrong scheme", header: "Token abc", message: services.MsgTokenFailed},
		{name: "bad token", header: "Bearer abc.def.ghi", message: services.MsgTokenFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, path := range []string{"/api/tasks", "/api/user/profile"} {
				req := httptest.NewRequest(http.MethodGet, path, nil)
				if tt.header != "" {
					req.Header.Set("Authorization", tt.header)
				}
				resp, err := s.App().Test(req, -1)
				require.NoError(t, err)

				var body ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				resp.Body.Close()

				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
				assert.Equal(t, tt.message, body.Message)
				assert.Equal(t, "NOT_AUTHENTICATED", body.Code)
			}
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	alice := signUp(t, s, "Alice", "alice@example.com")

	created := postTask(t, s, alice.Token, `{"title":"Buy milk","description":"2 litres"}`)
	assert.Equal(t, alice.ID, created.Owner)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, domain.PriorityMedium, created.Priority)

	var fetched domain.Task
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/tasks/"+created.ID, "", alice.Token, &fetched))
	assert.Equal(t, created.ID, fetched.ID)

	var updated domain.Task
	status := do(t, s, http.MethodPut, "/api/tasks/"+created.ID, `{"status":"completed","title":""}`, alice.Token, &updated)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, "Buy milk", updated.Title)

	var removed MessageResponse
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodDelete, "/api/tasks/"+created.ID, "", alice.Token, &removed))
	assert.Equal(t, "Task removed", removed.Message)

	var missing ErrorResponse
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/tasks/"+created.ID, "", alice.Token, &missing))
	assert.Equal(t, "Task not found", missing.Message)
}

func TestListTasks_ScopedAndFiltered(t *testing.T) {
	s := newTestServer(t, nil)
	alice := signUp(t, s, "Alice", "alice@example.com")
	bob := signUp(t, s, "Bob", "bob@example.com")

	postTask(t, s, alice.Token, `{"title":"Buy milk","description":"2 litres","priority":"high"}`)
	postTask(t, s, alice.Token, `{"title":"Read","description":"a book","status":"in-progress"}`)
	postTask(t, s, bob.Token, `{"title":"Buy milk","description":"for bob"}`)

	var all []domain.Task
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/tasks", "", alice.Token, &all))
	assert.Len(t, all, 2)
	for _, task := range all {
		assert.Equal(t, alice.ID, task.Owner)
	}

	var filtered []domain.Task
	do(t, s, http.MethodGet, "/api/tasks?priority=high&search=MILK&status=", "", alice.Token, &filtered)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Buy milk", filtered[0].Title)

	var none []domain.Task
	do(t, s, http.MethodGet, "/api/tasks?status=archived", "", alice.Token, &none)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestForeignTaskAccess(t *testing.T) {
	tests := []struct {
		name     string
		conceal  bool
		expected int
		message  string
	}{
		{name: "foreign task is unauthorized", conceal: false, expected: http.StatusUnauthorized, message: "Not authorized"},
		{name: "foreign task is concealed", conceal: true, expected: http.StatusNotFound, message: "Task not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, func(cfg *config.Config) { cfg.Auth.ConcealForeignTasks = tt.conceal })
			alice := signUp(t, s, "Alice", "alice@example.com")
			bob := signUp(t, s, "Bob", "bob@example.com")
			task := postTask(t, s, alice.Token, `{"title":"private","description":"alice only"}`)

			requests := []struct{ method, body string }{
				{http.MethodGet, ""},
				{http.MethodPut, `{"title":"hijacked"}`},
				{http.MethodDelete, ""},
			}
			for _, r := range requests {
				var body ErrorResponse
				assert.Equal(t, tt.expected, do(t, s, r.method, "/api/tasks/"+task.ID, r.body, bob.Token, &body), r.method)
				assert.Equal(t, tt.message, body.Message)
			}

			var stored domain.Task
			do(t, s, http.MethodGet, "/api/tasks/"+task.ID, "", alice.Token, &stored)
			assert.Equal(t, "private", stored.Title)
		})
	}
}

func TestCreateTask_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)
	alice := signUp(t, s, "Alice", "alice@example.com")

	tests := []struct {
		name    string
		body    string
		code    string
		message string
	}{
		{name: "empty body", body: "", code: "VALIDATION_FAILED", message: "Title and description are required"},
		{name: "missing description", body: `{"title":"x"}`, code: "VALIDATION_FAILED", message: "Title and description are required"},
		{name: "unknown field", body: `{"title":"x","description":"y","owner":"someone"}`, code: "INVALID_INPUT"},
		{name: "wrong type", body: `{"title":42,"description":"y"}`, code: "INVALID_INPUT"},
		{name: "malformed json", body: `{"title":`, code: "INVALID_INPUT"},
		{name: "trailing data", body: `{"title":"x","description":"y"} {}`, code: "INVALID_INPUT"},
		{name: "invalid status", body: `{"title":"x","description":"y","status":"done"}`, code: "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body ErrorResponse
			assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/tasks", tt.body, alice.Token, &body))
			assert.Equal(t, tt.code, body.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

func TestCreateTask_FieldProblems(t *testing.T) {
	s := newTestServer(t, nil)
	alice := signUp(t, s, "Alice", "alice@example.com")

	var body ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/api/tasks",
		`{"title":"Ship","description":"release","status":"done","priority":"urgent"}`, alice.Token, &body))
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	assert.Equal(t, []FieldProblem{
		{Field: "status", Messages: []string{"status must be one of pending, in-progress, completed"}},
		{Field: "priority", Messages: []string{"priority must be one of low, medium, high"}},
	}, body.Fields)

	var notFound map[string]interface{}
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/tasks/"+uuid.NewString(), "", alice.Token, &notFound))
	assert.NotContains(t, notFound, "fields")
}

func TestSessionEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	alice := signUp(t, s, "Alice", "alice@example.com")

	var conflict ErrorResponse
	body := `{"name":"Again","email":"ALICE@example.com","password":"hunter22"}`
	assert.Equal(t, http.StatusConflict, do(t, s, http.MethodPost, "/api/auth/register", body, "", &conflict))

	var failed ErrorResponse
	assert.Equal(t, http.StatusUnauthorized,
		do(t, s, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"nope-nope"}`, "", &failed))
	assert.Equal(t, "Invalid email or password", failed.Message)

	var session domain.Session
	assert.Equal(t, http.StatusOK,
		do(t, s, http.MethodPost, "/api/auth/login", `{"email":"alice@example.com","password":"hunter22"}`, "", &session))
	assert.Equal(t, alice.ID, session.ID)

	var bye MessageResponse
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/api/auth/logout", "", session.Token, &bye))

	var revoked ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, do(t, s, http.MethodGet, "/api/tasks", "", session.Token, &revoked))
	assert.Equal(t, services.MsgTokenRevoked, revoked.Message)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/tasks", "", alice.Token, nil))
}

func TestProfileEndpoints(t *testing.T) {
	s := newTestServer(t, nil)
	alice := signUp(t, s, "Alice", "alice@example.com")

	var profile domain.User
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api/user/profile", "", alice.Token, &profile))
	assert.Equal(t, "Alice", profile.Name)

	var updated domain.User
	assert.Equal(t, http.StatusOK,
		do(t, s, http.MethodPut, "/api/user/profile", `{"bio":"mathematician","name":""}`, alice.Token, &updated))
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "mathematician", updated.Bio)

	var raw map[string]interface{}
	do(t, s, http.MethodGet, "/api/user/profile", "", alice.Token, &raw)
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "passwordHash")
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	var missing ErrorResponse
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/nothing-here", "", "", &missing))
	assert.Equal(t, "NOT_FOUND", missing.Code)
}

func TestCustomBasePath(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Server.BasePath = "/v1" })

	var session domain.Session
	body := `{"name":"Alice","email":"alice@example.com","password":"hunter22"}`
	assert.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/v1/auth/register", body, "", &session))
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/v1/tasks", "", session.Token, nil))
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "", "", nil))
}
