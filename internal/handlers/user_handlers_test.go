package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Grzafnan/nest-server/internal/models"
)

func TestCreateUserEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.doJSON(t, http.MethodPost, "/users", map[string]string{
		"name": "Test User", "email": "a@b.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, true, resp["success"])
	require.Equal(t, "User created successfully!", resp["message"])

	data := resp["data"].(map[string]interface{})
	require.Equal(t, "a@b.com", data["email"])
	require.Equal(t, models.RoleUser, data["role"])
	require.NotEmpty(t, data["id"])
	_, hasPassword := data["password"]
	require.False(t, hasPassword, "password hash must not leak")
}

func TestCreateUserValidationEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec, resp := env.doJSON(t, http.MethodPost, "/users", map[string]string{
		"name": "Test User", "email": "not-an-email", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Validation Error", resp["message"])

	errs := resp["error"].([]interface{})
	paths := map[string]bool{}
	for _, e := range errs {
		paths[e.(map[string]interface{})["path"].(string)] = true
	}
	require.True(t, paths["email"])
	require.True(t, paths["password"])
}

func TestListUsersRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "user@b.com", "secret1", models.RoleUser)
	env.seedUser(t, "admin@b.com", "secret1", models.RoleAdmin)

	// unauthenticated
	rec, _ := env.doJSON(t, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// authenticated but insufficient role
	userToken, _ := env.login(t, "user@b.com", "secret1")
	rec, resp := env.doJSON(t, http.MethodGet, "/users", nil, withBearer(userToken))
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "Access denied: insufficient role.", resp["message"])

	// admin passes
	adminToken, _ := env.login(t, "admin@b.com", "secret1")
	rec, resp = env.doJSON(t, http.MethodGet, "/users", nil, withBearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp["data"].(map[string]interface{})
	require.Len(t, data["data"].([]interface{}), 2)
	meta := data["meta"].(map[string]interface{})
	require.EqualValues(t, 2, meta["total"])
}

func TestListUsersSearchTerm(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice@b.com", "secret1", models.RoleUser)
	env.seedUser(t, "bob@b.com", "secret1", models.RoleUser)
	env.seedUser(t, "admin@b.com", "secret1", models.RoleAdmin)
	adminToken, _ := env.login(t, "admin@b.com", "secret1")

	rec, resp := env.doJSON(t, http.MethodGet, "/users?searchTerm=alice", nil, withBearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code)

	data := resp["data"].(map[string]interface{})
	users := data["data"].([]interface{})
	require.Len(t, users, 1)
	require.Equal(t, "alice@b.com", users[0].(map[string]interface{})["email"])
}

func TestGetUserEndpoint(t *testing.T) {
	env := newTestEnv(t)
	target := env.seedUser(t, "target@b.com", "secret1", models.RoleUser)
	env.seedUser(t, "caller@b.com", "secret1", models.RoleUser)
	token, _ := env.login(t, "caller@b.com", "secret1")

	rec, resp := env.doJSON(t, http.MethodGet, "/users/"+target.ID.String(), nil, withBearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	require.Equal(t, "target@b.com", data["email"])

	rec, _ = env.doJSON(t, http.MethodGet, "/users/"+uuid.NewString(), nil, withBearer(token))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = env.doJSON(t, http.MethodGet, "/users/not-a-uuid", nil, withBearer(token))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUserEndpoint(t *testing.T) {
	env := newTestEnv(t)
	target := env.seedUser(t, "target@b.com", "secret1", models.RoleUser)
	env.seedUser(t, "admin@b.com", "secret1", models.RoleAdmin)
	adminToken, _ := env.login(t, "admin@b.com", "secret1")

	rec, resp := env.doJSON(t, http.MethodPatch, "/users/"+target.ID.String(), map[string]string{
		"name": "Renamed",
	}, withBearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	require.Equal(t, "Renamed", data["name"])

	rec, _ = env.doJSON(t, http.MethodPatch, "/users/"+uuid.NewString(), map[string]string{
		"name": "x",
	}, withBearer(adminToken))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUserEndpoint(t *testing.T) {
	env := newTestEnv(t)
	target := env.seedUser(t, "target@b.com", "secret1", models.RoleUser)
	env.seedUser(t, "admin@b.com", "secret1", models.RoleAdmin)
	env.seedUser(t, "root@b.com", "secret1", models.RoleSuperAdmin)

	// plain admin cannot delete
	adminToken, _ := env.login(t, "admin@b.com", "secret1")
	rec, _ := env.doJSON(t, http.MethodDelete, "/users/"+target.ID.String(), nil, withBearer(adminToken))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rootToken, _ := env.login(t, "root@b.com", "secret1")
	rec, _ = env.doJSON(t, http.MethodDelete, "/users/"+target.ID.String(), nil, withBearer(rootToken))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.doJSON(t, http.MethodGet, "/users/"+target.ID.String(), nil, withBearer(rootToken))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
