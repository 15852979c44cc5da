package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName - имя cookie с токеном сессии.
	CookieName = "auth_token"
	tokenTTL   = 12 * time.Hour
	subject    = "vault-owner"
)

type sessionKey struct{}

// Claims - содержимое токена сессии локального API.
type Claims struct {
	jwt.RegisteredClaims
}

// BuildToken выпускает подписанный HS256 токен сессии с уникальным jti.
func BuildToken(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("empty auth secret")
	}
	now := time.Now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken проверяет подпись и срок действия токена и возвращает id сессии.
func ParseToken(tokenString, secret string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject != subject || claims.ID == "" {
		return "", errors.New("invalid token")
	}
	return claims.ID, nil
}

// SetLoginCookie выпускает токен, кладёт его в cookie и возвращает его же.
func SetLoginCookie(w http.ResponseWriter, secret string) (string, error) {
	token, err := BuildToken(secret)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(tokenTTL),
	})
	return token, nil
}

// WithAuth кладёт id сессии в контекст, если запрос несёт валидный токен
// (cookie или Authorization: Bearer). Запросы без токена проходят анонимно.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			sid, err := ParseToken(raw, secret)
			if err != nil {
				log.Debugw("Auth: token rejected", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sid)))
		})
	}
}

// RequireSession отвечает 401, если WithAuth не нашёл валидную сессию.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext возвращает id сессии из контекста.
func GetSessionFromContext(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sessionKey{}).(string)
	return sid, ok && sid != ""
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
