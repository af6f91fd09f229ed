package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"nobilis/models"
	"nobilis/tools"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsersEnv(t *testing.T, logged models.User) *testEnv {
	env := newTestEnv(t)
	admin := env.r.Group("/api", func(c *gin.Context) {
		c.Set(ctxUserKey, logged)
		c.Next()
	})
	admin.GET("/users", GetUsers)
	admin.POST("/users", CreateUser)
	admin.PUT("/users/:id", UpdateUser)
	admin.DELETE("/users/:id", DeleteUser)
	return env
}

func TestCreateUser(t *testing.T) {
	env := newUsersEnv(t, models.User{ID: 99, Admin: true})

	w := env.do(t, http.MethodPost, "/api/users", map[string]any{"nome": "Ten. Rui", "email": "Rui@PM.gov.br", "password": "abc123", "cargo": "Encarregado"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "rui@pm.gov.br", user["email"])
	assert.NotContains(t, user, "password")

	var saved models.User
	require.NoError(t, env.db.Where("email = ?", "rui@pm.gov.br").First(&saved).Error)
	assert.True(t, tools.CheckPasswordHash(saved.Password, "abc123"))

	w = env.do(t, http.MethodPost, "/api/users", map[string]any{"nome": "Outro", "email": "rui@pm.gov.br", "password": "abc123"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/users", map[string]any{"nome": "Curta", "email": "curta@pm.gov.br", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/users", map[string]any{"nome": "Sem arroba", "email": "invalido", "password": "abc123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/users", map[string]any{"email": "x@pm.gov.br", "password": "abc123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Faltando campo nome", decode(t, w)["error"])
}

func TestUpdateUser_BloqueiaEPromove(t *testing.T) {
	env := newUsersEnv(t, models.User{ID: 99, Admin: true})
	u := models.User{Nome: "Sgt. Lia", Email: "lia@pm.gov.br", Password: "hash"}
	require.NoError(t, env.db.Create(&u).Error)

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d", u.ID), map[string]any{"status": 1, "admin": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved models.User
	require.NoError(t, env.db.First(&saved, u.ID).Error)
	assert.True(t, saved.IsBlocked())
	assert.True(t, saved.Admin)

	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/users/%d", u.ID), map[string]any{"status": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/api/users/12345", map[string]any{"nome": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUser(t *testing.T) {
	env := newUsersEnv(t, models.User{ID: 1, Admin: true})
	self := models.User{Nome: "Admin", Email: "admin@pm.gov.br", Password: "hash", Admin: true}
	other := models.User{Nome: "Sd. Leo", Email: "leo@pm.gov.br", Password: "hash"}
	require.NoError(t, env.db.Create(&self).Error)
	require.NoError(t, env.db.Create(&other).Error)
	require.NoError(t, env.db.Create(&models.RefreshToken{UserID: other.ID, TokenHash: "h"}).Error)

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", self.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", other.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var n int
	require.NoError(t, env.db.Model(&models.RefreshToken{}).Where("user_id = ?", other.ID).Count(&n).Error)
	assert.Zero(t, n)

	w = env.do(t, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["users"], 1)
}
