package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProjectRequiresManager(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "dev@test.com", "pw123456", "developer")
	accessToken, _ := s.login(t, "dev@test.com", "pw123456")

	w := s.do(t, http.MethodPost, "/api/projects", accessToken, map[string]string{"title": "P1"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Only managers can create projects", decode(t, w)["error"])
}

func TestProjectRequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/projects", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authorization token missing", decode(t, w)["message"])
}

func TestProjectOwnershipIsolation(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@test.com", "pw123456", "manager")
	s.register(t, "b@test.com", "pw123456", "manager")

	tokenA, _ := s.login(t, "a@test.com", "pw123456")
	tokenB, _ := s.login(t, "b@test.com", "pw123456")

	projectID := s.createProject(t, tokenA, "P1")
	path := fmt.Sprintf("/api/projects/%d", projectID)

	// Manager B cannot read, update, or delete A's project.
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, path, tokenB, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPut, path, tokenB, map[string]string{"title": "stolen"}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, tokenB, nil).Code)

	// Manager A can do all three.
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, path, tokenA, nil).Code)

	w := s.do(t, http.MethodPut, path, tokenA, map[string]string{"title": "P1 renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "P1 renamed", decode(t, w)["title"])

	deleted := s.do(t, http.MethodDelete, path, tokenA, nil)
	assert.Equal(t, http.StatusOK, deleted.Code)
	assert.Equal(t, true, decode(t, deleted)["success"])

	// The row is gone afterwards.
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, tokenA, nil).Code)
}

func TestListProjectsScopedToOwner(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@test.com", "pw123456", "manager")
	s.register(t, "b@test.com", "pw123456", "manager")

	tokenA, _ := s.login(t, "a@test.com", "pw123456")
	tokenB, _ := s.login(t, "b@test.com", "pw123456")

	s.createProject(t, tokenA, "A1")
	s.createProject(t, tokenA, "A2")
	s.createProject(t, tokenB, "B1")

	w := s.do(t, http.MethodGet, "/api/projects", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "A1")
	assert.Contains(t, w.Body.String(), "A2")
	assert.NotContains(t, w.Body.String(), "B1")
}

func TestGetProjectNotFound(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@test.com", "pw123456", "manager")
	token, _ := s.login(t, "a@test.com", "pw123456")

	w := s.do(t, http.MethodGet, "/api/projects/9999", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Project not found", decode(t, w)["error"])
}

func TestGetProjectMalformedID(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@test.com", "pw123456", "manager")
	token, _ := s.login(t, "a@test.com", "pw123456")

	w := s.do(t, http.MethodGet, "/api/projects/abc", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
