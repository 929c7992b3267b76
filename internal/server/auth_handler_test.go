package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emosense/internal/model"
)

func authTestRouter(jwtSecret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TrySetUserToContext(jwtSecret))
	authed := router.Group("")
	authed.Use(NeedAuth())
	authed.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": currentPsychologist(c).Id})
	})
	return router
}

func TestNeedAuthRejectsMissingToken(t *testing.T) {
	router := authTestRouter("secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTrySetUserRejectsBadToken(t *testing.T) {
	router := authTestRouter("secret")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTrySetUserRejectsWrongSecret(t *testing.T) {
	token, err := genJwtToken(&model.Psychologist{Id: 1}, "other-secret", time.Now().Add(time.Hour))
	require.NoError(t, err)

	router := authTestRouter("secret")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
