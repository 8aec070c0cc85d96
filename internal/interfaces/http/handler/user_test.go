package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vetdesk/backend/internal/application/identity"
)

type userHandlerFixture struct {
	router *gin.Engine
	store  *userStore
}

func newUserHandlerFixture(t *testing.T) *userHandlerFixture {
	t.Helper()

	store := newUserStore()
	service := identity.NewUserService(store, zap.NewNop())
	h := NewUserHandler(service)

	router := gin.New()
	router.POST("/users", h.Create)
	router.GET("/users", h.List)
	router.GET("/users/:id", h.GetByID)
	router.PUT("/users/:id", h.Update)
	router.DELETE("/users/:id", h.Deactivate)

	return &userHandlerFixture{router: router, store: store}
}

func (f *userHandlerFixture) createUser(t *testing.T, username, role string) UserResponse {
	t.Helper()

	rec := performRequest(t, f.router, http.MethodPost, "/users", CreateUserRequest{
		Username: username,
		Name:     "Staff Member",
		Password: "correct-horse-battery",
		Role:     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[UserResponse](t, rec)
}

func TestUserHandler_Create(t *testing.T) {
	f := newUserHandlerFixture(t)

	created := f.createUser(t, "jsmith", "VET")
	assert.Equal(t, "jsmith", created.Username)
	assert.Equal(t, "VET", created.Role)
	assert.True(t, created.Active)

	t.Run("duplicate username", func(t *testing.T) {
		rec := performRequest(t, f.router, http.MethodPost, "/users", CreateUserRequest{
			Username: "jsmith",
			Name:     "Another Smith",
			Password: "correct-horse-battery",
			Role:     "NURSE",
		})
		assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		rec := performRequest(t, f.router, http.MethodPost, "/users", CreateUserRequest{
			Username: "groomer1",
			Name:     "Groomer",
			Password: "correct-horse-battery",
			Role:     "GROOMER",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects short password", func(t *testing.T) {
		rec := performRequest(t, f.router, http.MethodPost, "/users", CreateUserRequest{
			Username: "nurse1",
			Name:     "Nurse",
			Password: "short",
			Role:     "NURSE",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_GetAndList(t *testing.T) {
	f := newUserHandlerFixture(t)

	created := f.createUser(t, "reception1", "RECEPTIONIST")
	f.createUser(t, "vet1", "VET")

	rec := performRequest(t, f.router, http.MethodGet, "/users/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[UserResponse](t, rec)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "RECEPTIONIST", got.Role)

	rec = performRequest(t, f.router, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeData[[]UserResponse](t, rec)
	assert.Len(t, listed, 2)

	t.Run("unknown user", func(t *testing.T) {
		rec := performRequest(t, f.router, http.MethodGet, "/users/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := performRequest(t, f.router, http.MethodGet, "/users/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_Update(t *testing.T) {
	f := newUserHandlerFixture(t)
	created := f.createUser(t, "nurse2", "NURSE")

	name := "Senior Nurse"
	role := "ADMIN"
	rec := performRequest(t, f.router, http.MethodPut, "/users/"+created.ID.String(), UpdateUserRequest{
		Name: &name,
		Role: &role,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeData[UserResponse](t, rec)
	assert.Equal(t, "Senior Nurse", updated.Name)
	assert.Equal(t, "ADMIN", updated.Role)

	t.Run("partial update keeps role", func(t *testing.T) {
		name := "Head Nurse"
		rec := performRequest(t, f.router, http.MethodPut, "/users/"+created.ID.String(), UpdateUserRequest{
			Name: &name,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeData[UserResponse](t, rec)
		assert.Equal(t, "Head Nurse", got.Name)
		assert.Equal(t, "ADMIN", got.Role)
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "Nobody"
		rec := performRequest(t, f.router, http.MethodPut, "/users/"+uuid.NewString(), UpdateUserRequest{
			Name: &name,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUserHandler_Deactivate(t *testing.T) {
	f := newUserHandlerFixture(t)
	created := f.createUser(t, "leaver", "VET")

	rec := performRequest(t, f.router, http.MethodDelete, "/users/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = performRequest(t, f.router, http.MethodGet, "/users/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeData[UserResponse](t, rec)
	assert.False(t, got.Active)

	stored, err := f.store.FindByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}
