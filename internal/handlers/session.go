package handlers

import (
	"PassVault/internal/config"
	"PassVault/internal/middleware"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SessionHandler выдаёт токены сессии локального API.
type SessionHandler struct {
	Logger *zap.SugaredLogger
	Config *config.Config
}

func NewSessionHandler(logger *zap.SugaredLogger, cfg *config.Config) *SessionHandler {
	return &SessionHandler{Logger: logger, Config: cfg}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login сверяет пароль с bcrypt-хешем из конфигурации и выдаёт токен (cookie и тело ответа).
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Config.APIPasswordHash == "" {
		h.Logger.Warnw("Login: API password hash is not configured")
		http.Error(w, "api password is not configured", http.StatusServiceUnavailable)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.Config.APIPasswordHash), []byte(req.Password)); err != nil {
		h.Logger.Infow("Login: wrong password")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := middleware.SetLoginCookie(w, h.Config.AuthSecret)
	if err != nil {
		h.Logger.Errorw("Login: issue token failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
