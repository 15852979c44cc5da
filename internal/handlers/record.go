package handlers

import (
	"PassVault/internal/model"
	"PassVault/internal/repo"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RecordHandler обслуживает CRUD записей и категорий.
type RecordHandler struct {
	Store  repo.RecordRepository
	Logger *zap.SugaredLogger
}

func NewRecordHandler(store repo.RecordRepository, logger *zap.SugaredLogger) *RecordHandler {
	return &RecordHandler{Store: store, Logger: logger}
}

// RecordDTO - запись в теле запросов и ответов API.
type RecordDTO struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Username string `json:"username"`
	Password string `json:"password"`
	Category string `json:"category"`
	Note     string `json:"note"`
}

func toDTO(r model.Record) RecordDTO {
	return RecordDTO{
		ID:       r.ID,
		Title:    r.Title,
		Username: r.Username,
		Password: r.Secret,
		Category: r.Category,
		Note:     r.Note,
	}
}

func (d RecordDTO) record() model.Record {
	return model.Record{
		ID:       d.ID,
		Title:    d.Title,
		Username: d.Username,
		Secret:   d.Password,
		Category: d.Category,
		Note:     d.Note,
	}
}

func toDTOs(recs []model.Record) []RecordDTO {
	out := make([]RecordDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, toDTO(r))
	}
	return out
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeRecord читает тело запроса; title обязателен.
func decodeRecord(r *http.Request) (RecordDTO, bool) {
	var dto RecordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return RecordDTO{}, false
	}
	if strings.TrimSpace(dto.Title) == "" {
		return RecordDTO{}, false
	}
	return dto, true
}

// List отдаёт записи; ?category= фильтрует по категории, ?q= ищет по названию.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := r.URL.Query().Get("category")
	q := r.URL.Query().Get("q")

	var (
		recs []model.Record
		err  error
	)
	switch {
	case q != "":
		recs, err = h.Store.Search(ctx, q)
		if err == nil && category != "" {
			recs = filterByCategory(recs, category)
		}
	case category != "":
		recs, err = h.Store.GetByCategory(ctx, category)
	default:
		recs, err = h.Store.GetAll(ctx)
	}
	if err != nil {
		h.Logger.Errorw("List: store error", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTOs(recs))
}

func filterByCategory(recs []model.Record, category string) []model.Record {
	want := model.NormalizeCategory(category)
	out := recs[:0]
	for _, r := range recs {
		if r.Category == want {
			out = append(out, r)
		}
	}
	return out
}

// Create создаёт запись и возвращает её id.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	dto, ok := decodeRecord(r)
	if !ok {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	id, err := h.Store.Create(r.Context(), dto.record())
	if err != nil {
		h.Logger.Errorw("Create: store error", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Get отдаёт одну запись.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	rec, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(rec))
}

// Update заменяет все поля записи, кроме id.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	dto, ok := decodeRecord(r)
	if !ok {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	// хранилище молча игнорирует обновление несуществующей записи, API отвечает 404
	if _, err := h.Store.GetByID(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	dto.ID = id
	if err := h.Store.Update(ctx, dto.record()); err != nil {
		h.Logger.Errorw("Update: store error", "id", id, "error", err)
		writeError(w, err)
		return
	}
	rec, err := h.Store.GetByID(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(rec))
}

// Delete удаляет запись. Удаление отсутствующей записи не ошибка.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Store.Delete(r.Context(), id); err != nil {
		h.Logger.Errorw("Delete: store error", "id", id, "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Categories отдаёт список категорий, категория по умолчанию первая.
func (h *RecordHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Store.ListCategories(r.Context())
	if err != nil {
		h.Logger.Errorw("Categories: store error", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

type categoryRequest struct {
	Name string `json:"name"`
}

// AddCategory регистрирует категорию без записей.
func (h *RecordHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Store.AddCategory(r.Context(), req.Name); err != nil {
		h.Logger.Errorw("AddCategory: store error", "error", err)
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
