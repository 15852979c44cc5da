package handlers_test

import (
	"PassVault/internal/model"
	"PassVault/internal/service"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackup_ExportThenImport(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	_, err := api.store.Create(ctx, model.Record{Title: "Mail", Username: "a@x.com", Secret: "p1"})
	require.NoError(t, err)
	_, err = api.store.Create(ctx, model.Record{Title: "Bank", Username: "bob", Secret: "p2", Category: "Finance"})
	require.NoError(t, err)

	rr := api.do(t, http.MethodPost, "/api/backup/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var exp service.ExportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &exp))
	assert.Equal(t, 2, exp.Count)
	assert.Regexp(t, `^passwords_\d+\.enc$`, exp.Name)

	token, err := os.ReadFile(exp.Location)
	require.NoError(t, err)

	// повторный импорт собственного экспорта ничего не добавляет
	rr = api.do(t, http.MethodPost, "/api/backup/import", string(token))
	require.Equal(t, http.StatusOK, rr.Code)
	var res model.MergeResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, model.MergeResult{Duplicates: 2}, res)

	rr = api.do(t, http.MethodGet, "/api/backup/state", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"state":"done"}`, rr.Body.String())
}

func TestBackup_ImportPolicyOverride(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	id, err := api.store.Create(ctx, model.Record{Title: "Mail", Username: "a@x.com", Secret: "old"})
	require.NoError(t, err)

	rr := api.do(t, http.MethodPost, "/api/backup/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var exp service.ExportResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &exp))
	token, err := os.ReadFile(exp.Location)
	require.NoError(t, err)

	// локально секрет меняется, импорт старого снимка с overwrite возвращает старое значение
	require.NoError(t, api.store.Update(ctx, model.Record{ID: id, Title: "Mail", Username: "a@x.com", Secret: "new"}))

	rr = api.do(t, http.MethodPost, "/api/backup/import?policy=bogus", string(token))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodPost, "/api/backup/import?policy=overwrite", string(token))
	require.Equal(t, http.StatusOK, rr.Code)
	var res model.MergeResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, model.MergeResult{Updated: 1}, res)

	rec, err := api.store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "old", rec.Secret)
}

func TestBackup_ImportRejectsBadTokens(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodPost, "/api/backup/import", "definitely not a token")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = api.do(t, http.MethodPost, "/api/backup/import", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	all, err := api.store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
