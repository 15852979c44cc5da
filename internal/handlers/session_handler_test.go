package handlers_test

import (
	"PassVault/internal/middleware"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Login(t *testing.T) {
	api := newTestAPI(t)

	t.Run("ok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"password":"open-sesame"}`))
		rr := httptest.NewRecorder()
		api.router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		hasCookie := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == middleware.CookieName {
				hasCookie = true
			}
		}
		assert.True(t, hasCookie, "Set-Cookie auth_token expected")

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))

		// токен из тела годится как Bearer
		req = httptest.NewRequest(http.MethodGet, "/api/records", nil)
		req.Header.Set("Authorization", "Bearer "+body.Token)
		rr = httptest.NewRecorder()
		api.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"password":"nope"}`))
		rr := httptest.NewRecorder()
		api.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, rr.Result().Cookies())
	})

	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{`))
		rr := httptest.NewRecorder()
		api.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		api := newTestAPI(t)
		api.cfg.APIPasswordHash = ""

		req := httptest.NewRequest(http.MethodPost, "/api/session", strings.NewReader(`{"password":"open-sesame"}`))
		rr := httptest.NewRecorder()
		api.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}

func TestRoutes_RequireSession(t *testing.T) {
	api := newTestAPI(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/records"},
		{http.MethodPost, "/api/records"},
		{http.MethodGet, "/api/records/1"},
		{http.MethodPut, "/api/records/1"},
		{http.MethodDelete, "/api/records/1"},
		{http.MethodGet, "/api/categories"},
		{http.MethodPost, "/api/categories"},
		{http.MethodGet, "/api/backup/state"},
		{http.MethodPost, "/api/backup/export"},
		{http.MethodPost, "/api/backup/import"},
	} {
		rr := httptest.NewRecorder()
		api.router.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
	}
}
