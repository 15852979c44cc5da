package handlers

import (
	"PassVault/internal/config"
	"PassVault/internal/model"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// maxTokenBytes ограничивает размер загружаемого токена резервной копии.
const maxTokenBytes = 32 << 20

// BackupHandler запускает экспорт и импорт зашифрованных снимков.
type BackupHandler struct {
	Engine BackupEngine
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewBackupHandler(engine BackupEngine, logger *zap.SugaredLogger, cfg *config.Config) *BackupHandler {
	return &BackupHandler{Engine: engine, Logger: logger, Config: cfg}
}

// State отдаёт фазу текущей или последней операции.
func (h *BackupHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"state": h.Engine.State().String()})
}

// Export пишет снимок в каталог резервных копий и возвращает его имя и путь.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	res, err := h.Engine.Export(r.Context())
	if err != nil {
		h.Logger.Errorw("Export: engine error", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Import принимает токен в теле запроса. ?policy= перекрывает политику из конфигурации.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	policy := h.Config.Policy()
	if p := r.URL.Query().Get("policy"); p != "" {
		parsed, err := model.ParseDuplicatePolicy(p)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		policy = parsed
	}

	token, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxTokenBytes))
	if err != nil {
		h.Logger.Warnw("Import: read body failed", "error", err)
		http.Error(w, "payload too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	if len(token) == 0 {
		http.Error(w, "empty token", http.StatusBadRequest)
		return
	}

	res, err := h.Engine.ImportTokenWithPolicy(r.Context(), token, policy)
	if err != nil {
		h.Logger.Warnw("Import: engine error", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
