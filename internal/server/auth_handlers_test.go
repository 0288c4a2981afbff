package server

import (
	"net/http"
	"testing"

	"flowshare/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	_, app := newTestServer(t)

	t.Run("CreatesAccountAndIssuesToken", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"username": "alice",
			"password": "password123",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body struct {
			Token string      `json:"token"`
			User  models.User `json:"user"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
		assert.Equal(t, "alice", body.User.Username)
		assert.NotZero(t, body.User.ID)
	})

	t.Run("MissingFields", func(t *testing.T) {
		for _, body := range []map[string]string{
			{"username": "bob"},
			{"password": "password123"},
			{},
		} {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			_ = resp.Body.Close()
		}
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"username": "alice",
			"password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("InvalidUsername", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"username": "has space",
			"password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("PasswordNeverEchoed", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
			"username": "secretive",
			"password": "password123",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var raw map[string]any
		decodeBody(t, resp, &raw)
		user, ok := raw["user"].(map[string]any)
		require.True(t, ok)
		assert.NotContains(t, user, "password")
	})
}

func TestLogin(t *testing.T) {
	_, app := newTestServer(t)
	signupUser(t, app, "carol")

	t.Run("Success", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "carol",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Token string `json:"token"`
		}
		decodeBody(t, resp, &body)
		assert.NotEmpty(t, body.Token)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "carol",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("UnknownUser", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
			"username": "nobody",
			"password": "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestLogout(t *testing.T) {
	t.Run("RevokesTokenViaBlacklist", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		_, app := newTestServerWithRedis(t, rdb)

		token := signupUser(t, app, "leaver")

		resp := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		resp = doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		// the same token is now rejected
		resp = doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("WithoutRedisLogoutStillSucceeds", func(t *testing.T) {
		_, app := newTestServer(t)
		token := signupUser(t, app, "stateless")

		resp := doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("RequiresToken", func(t *testing.T) {
		_, app := newTestServer(t)
		resp := doJSON(t, app, http.MethodPost, "/api/auth/logout", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})
}
