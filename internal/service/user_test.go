package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Grzafnan/nest-server/internal/hash"
	"github.com/Grzafnan/nest-server/internal/models"
	"github.com/Grzafnan/nest-server/internal/repo"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return &UserService{Repo: &repo.UserRepo{DB: initTestDB(t)}}
}

func TestCreateUser(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Name:     "Test User",
		Email:    "a@b.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)
	require.Equal(t, models.RoleUser, user.Role)
	require.NotEqual(t, "secret1", user.Password)
	require.True(t, hash.CheckPassword(user.Password, "secret1"))
}

func TestCreateUserEmptyPassword(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Name:  "Test User",
		Email: "a@b.com",
	})
	requireAPIStatus(t, err, http.StatusBadRequest)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := newUserService(t)

	in := CreateUserInput{Name: "Test User", Email: "a@b.com", Password: "secret1"}
	_, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), in)
	requireAPIStatus(t, err, http.StatusConflict)
}

func TestFindOneNotFound(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.FindOne(context.Background(), uuid.New())
	requireAPIStatus(t, err, http.StatusNotFound)
}

func TestUpdateUser(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Name: "Test User", Email: "a@b.com", Password: "secret1",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), user.ID, UpdateUserInput{
		Name: "Renamed", Password: "secret2",
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "a@b.com", updated.Email)
	require.True(t, hash.CheckPassword(updated.Password, "secret2"))

	_, err = svc.Update(context.Background(), uuid.New(), UpdateUserInput{Name: "x"})
	requireAPIStatus(t, err, http.StatusNotFound)
}

func TestRemoveUser(t *testing.T) {
	svc := newUserService(t)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Name: "Test User", Email: "a@b.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, err = svc.Remove(context.Background(), user.ID)
	require.NoError(t, err)

	_, err = svc.FindOne(context.Background(), user.ID)
	requireAPIStatus(t, err, http.StatusNotFound)

	_, err = svc.Remove(context.Background(), user.ID)
	requireAPIStatus(t, err, http.StatusNotFound)
}

func TestFindAllSearchAndPagination(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, CreateUserInput{
			Name:     fmt.Sprintf("Alice %d", i),
			Email:    fmt.Sprintf("alice%d@b.com", i),
			Password: "secret1",
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, CreateUserInput{
		Name: "Bob", Email: "bob@b.com", Password: "secret1", Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	users, meta, err := svc.FindAll(ctx, repo.ListParams{SearchTerm: "alice", Page: 1, Limit: 3})
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.EqualValues(t, 5, meta.Total)
	require.Equal(t, 1, meta.Page)
	require.Equal(t, 3, meta.Limit)

	users, meta, err = svc.FindAll(ctx, repo.ListParams{SearchTerm: "alice", Page: 2, Limit: 3})
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.EqualValues(t, 5, meta.Total)

	users, _, err = svc.FindAll(ctx, repo.ListParams{Role: "admin"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "bob@b.com", users[0].Email)

	users, _, err = svc.FindAll(ctx, repo.ListParams{Email: "bob@b.com"})
	require.NoError(t, err)
	require.Len(t, users, 1)

	users, _, err = svc.FindAll(ctx, repo.ListParams{SortBy: "name", SortOrder: "asc", Limit: 100})
	require.NoError(t, err)
	require.Len(t, users, 6)
	require.Equal(t, "Alice 0", users[0].Name)
}
