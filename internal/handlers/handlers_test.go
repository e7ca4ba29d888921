package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/taskforge-dev/taskforge/internal/auth"
	"github.com/taskforge-dev/taskforge/internal/authz"
	"github.com/taskforge-dev/taskforge/internal/handlers"
	"github.com/taskforge-dev/taskforge/internal/router"
	"github.com/taskforge-dev/taskforge/internal/store"
)

type testServer struct {
	router *gin.Engine
	store  *store.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenService("access-secret", "refresh-secret", auth.DefaultAccessTTL, auth.DefaultRefreshTTL, st.RefreshTokens())
	require.NoError(t, err)

	authService := auth.NewService(st.Users(), tokens, logger)
	engine := authz.NewEngine(st.Projects(), st.Tasks(), logger)

	r := router.New(router.Dependencies{
		Auth:           handlers.NewAuthHandler(authService, logger),
		Users:          handlers.NewUserHandler(st.Users(), engine, logger),
		Projects:       handlers.NewProjectHandler(st.Projects(), engine, logger),
		Tasks:          handlers.NewTaskHandler(st.Tasks(), st.Users(), engine, logger),
		Tokens:         tokens,
		AllowedOrigins: []string{"http://localhost:5173"},
		Logger:         logger,
	})

	return &testServer{router: r, store: st}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// register creates an account and returns its id.
func (s *testServer) register(t *testing.T, email, password, role string) uint {
	t.Helper()

	payload := map[string]string{"email": email, "password": password}
	if role != "" {
		payload["role"] = role
	}

	w := s.do(t, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	user := body["user"].(map[string]interface{})
	return uint(user["id"].(float64))
}

// login returns the access and refresh tokens for the credentials.
func (s *testServer) login(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	return body["accessToken"].(string), body["refreshToken"].(string)
}

func (s *testServer) createProject(t *testing.T, token, title string) uint {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/projects", token, map[string]string{"title": title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	return uint(body["id"].(float64))
}
