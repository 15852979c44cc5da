package handlers

import (
	"PassVault/internal/crypto"
	"PassVault/internal/repo"
	"PassVault/internal/service"
	"encoding/json"
	"errors"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor сопоставляет ошибку ядра HTTP-статусу.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, crypto.ErrDecryptionFailed), errors.Is(err, service.ErrMalformedPayload):
		return http.StatusUnprocessableEntity
	case errors.Is(err, crypto.ErrEmptyKey), errors.Is(err, repo.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError отвечает статусом по ошибке. Текст внутренних ошибок наружу не отдаётся.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := http.StatusText(status)
	switch status {
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		msg = err.Error()
	}
	http.Error(w, msg, status)
}
