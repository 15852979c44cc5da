package handlers_test

import (
	"PassVault/internal/blobfs"
	"PassVault/internal/config"
	"PassVault/internal/crypto"
	"PassVault/internal/handlers"
	"PassVault/internal/middleware"
	"PassVault/internal/repo"
	"PassVault/internal/service"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "test-secret"
	testPassword = "open-sesame"
	testKey      = "backup-key"
)

type testAPI struct {
	router http.Handler
	store  *repo.RecordStore
	engine *service.Engine
	cfg    *config.Config
}

// newTestAPI поднимает роутер поверх настоящего SQLite-хранилища и движка резервного копирования.
func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	dir := t.TempDir()

	db, err := repo.OpenDB("", filepath.Join(dir, "passwords.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.CloseDB(db) })

	logger := zap.NewNop().Sugar()
	store := repo.NewRecordStore(db, logger)
	require.NoError(t, store.Init(context.Background()))

	c, err := crypto.NewCipher(testKey, crypto.WithCost(10))
	require.NoError(t, err)
	engine := service.NewEngine(store, c, blobfs.DirWriter{Dir: filepath.Join(dir, "backups")})

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := &config.Config{
		AuthSecret:      testSecret,
		APIPasswordHash: string(hash),
		DuplicatePolicy: "skip",
	}

	h := handlers.NewHandler(store, engine, logger, cfg)
	return testAPI{router: h.Router, store: store, engine: engine, cfg: cfg}
}

func addAuthCookie(t *testing.T, req *http.Request, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_, err := middleware.SetLoginCookie(rr, secret)
	require.NoError(t, err)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

// do выполняет авторизованный запрос.
func (a testAPI) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	addAuthCookie(t, req, a.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}
