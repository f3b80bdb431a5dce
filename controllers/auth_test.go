package controllers

import (
	"net/http"
	"testing"

	"agrosense/config"
	"agrosense/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter() *gin.Engine {
	r := gin.New()
	r.POST("/signup", Signup)
	r.POST("/login", Login)
	r.GET("/api/profile", middlewares.AuthMiddleware(), GetProfile)
	return r
}

func TestSignupAndLogin(t *testing.T) {
	setupTestDB(t)
	config.Load()
	r := authRouter()

	w := performRequest(r, http.MethodPost, "/signup", gin.H{
		"username": "farmer",
		"email":    "farmer@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate username is rejected.
	w = performRequest(r, http.MethodPost, "/signup", gin.H{
		"username": "farmer",
		"email":    "other@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(r, http.MethodPost, "/login", gin.H{
		"username": "farmer",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	// The token opens the protected profile endpoint.
	req, w2 := newAuthedRequest(http.MethodGet, "/api/profile", token)
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "farmer", decodeBody(t, w2)["username"])
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestDB(t)
	config.Load()
	r := authRouter()

	performRequest(r, http.MethodPost, "/signup", gin.H{
		"username": "farmer",
		"email":    "farmer@example.com",
		"password": "secret123",
	})

	w := performRequest(r, http.MethodPost, "/login", gin.H{
		"username": "farmer",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	setupTestDB(t)
	config.Load()
	r := authRouter()

	w := performRequest(r, http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenViaQueryParameter(t *testing.T) {
	setupTestDB(t)
	config.Load()
	r := authRouter()

	performRequest(r, http.MethodPost, "/signup", gin.H{
		"username": "farmer",
		"email":    "farmer@example.com",
		"password": "secret123",
	})
	w := performRequest(r, http.MethodPost, "/login", gin.H{
		"username": "farmer",
		"password": "secret123",
	})
	token := decodeBody(t, w)["token"].(string)

	w = performRequest(r, http.MethodGet, "/api/profile?token="+token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
