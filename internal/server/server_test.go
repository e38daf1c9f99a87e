package server_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devconnect/backend/internal/config"
	"github.com/devconnect/backend/internal/model"
	"github.com/devconnect/backend/internal/server"
)

const testSecret = "integration-test-secret-0123456789"

// newTestServer builds a full server against an in-memory database so the
// tests exercise the real router, middleware chain, and storage.
func newTestServer(t *testing.T) *server.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := config.Config{
		Port:           "0",
		JWTSecret:      testSecret,
		DBPath:         ":memory:",
		AllowedOrigins: []string{"http://localhost:5173"},
	}

	srv, err := server.New(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func bearerToken(t *testing.T, subject string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": subject + "@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(t *testing.T, h http.Handler, method, path, authorization, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBuffer(nil)
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestServer_Root(t *testing.T) {
	srv := newTestServer(t)

	rr := doJSON(t, srv.Handler(), http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message": "DevConnect backend running"}`, rr.Body.String())
}

func TestServer_ProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	t.Run("no header", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodGet, "/api/me", "", "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error": "Missing or invalid Authorization header"}`, rr.Body.String())
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodGet, "/api/me", "Bearer not-a-jwt", "")

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error": "Invalid token"}`, rr.Body.String())
	})

	t.Run("public list needs no token", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodGet, "/api/posts", "", "")
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestServer_ProfileRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t, "user-1")

	t.Run("me before sync is 404", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodGet, "/api/me", token, "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error": "Profile not found"}`, rr.Body.String())
	})

	t.Run("sync then me", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodPost, "/api/me/sync", token,
			`{"full_name":"Ada Lovelace","avatar_url":"https://cdn.example.com/ada.png"}`)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(t, srv.Handler(), http.MethodGet, "/api/me", token, "")
		assert.Equal(t, http.StatusOK, rr.Code)

		var profile model.Profile
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&profile))
		assert.Equal(t, "user-1", profile.ID)
		assert.Equal(t, "Ada Lovelace", profile.FullName)
	})

	t.Run("repeat sync stays one row", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodPost, "/api/me/sync", token,
			`{"full_name":"Ada L."}`)
		require.Equal(t, http.StatusOK, rr.Code)

		rr = doJSON(t, srv.Handler(), http.MethodGet, "/api/me", token, "")
		var profile model.Profile
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&profile))
		assert.Equal(t, "Ada L.", profile.FullName)
	})
}

func TestServer_PostLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := bearerToken(t, "author-1")

	// The owner join is inner, so the author needs a profile row first.
	rr := doJSON(t, srv.Handler(), http.MethodPost, "/api/me/sync", token,
		`{"full_name":"Grace Hopper"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var created model.Post
	t.Run("create", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodPost, "/api/posts", token,
			`{"type":"project","title":"Compiler","tags":["go","parsing"],"github_link":"https://github.com/x/compiler"}`)
		require.Equal(t, http.StatusCreated, rr.Code)

		require.NoError(t, json.NewDecoder(rr.Body).Decode(&created))
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.Equal(t, "author-1", created.UserID)
	})

	t.Run("get by id includes the owner", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodGet, "/api/posts/"+created.ID, "", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var got model.PostWithOwner
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Compiler", got.Title)
		assert.Equal(t, "Grace Hopper", got.Owner.FullName)
	})

	t.Run("list includes the post", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodGet, "/api/posts?type=project", "", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var posts []model.PostWithOwner
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&posts))
		require.Len(t, posts, 1)
		assert.Equal(t, created.ID, posts[0].ID)
	})

	t.Run("create without token is rejected", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodPost, "/api/posts", "",
			`{"type":"blog","title":"X"}`)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error": "Missing or invalid Authorization header"}`, rr.Body.String())
	})

	t.Run("missing post id is 404", func(t *testing.T) {
		rr := doJSON(t, srv.Handler(), http.MethodGet, "/api/posts/no-such-id", "", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error": "Post not found"}`, rr.Body.String())
	})
}
