package httpx

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"comment-service/internal/shared/apperr"
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Wrap renders a returned error as {"error": msg} with the status it carries.
func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			code := apperr.Status(err)
			msg := err.Error()
			if code == http.StatusInternalServerError {
				log.Printf("[http] %s %s: %v", r.Method, r.URL.Path, err)
				msg = "internal error"
			}
			WriteJSON(w, map[string]any{"error": msg}, code)
		}
	})
}

func Decode[T any](r *http.Request) (T, error) {
	var t T
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		return t, apperr.BadRequest("bad json")
	}
	return t, nil
}

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func PathUint(r *http.Request, name string) (uint64, error) {
	n, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || n == 0 {
		return 0, apperr.BadRequest("invalid " + name)
	}
	return n, nil
}

type ctxKey string

const userKey ctxKey = "username"

var ErrUnauthorized = apperr.Unauthorized("unauthorized")

// TokenParser resolves a bearer token to the username it was issued for.
type TokenParser interface {
	Parse(tok string) (string, error)
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func AuthMiddleware(p TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := BearerToken(r)
			if tok == "" {
				WriteJSON(w, map[string]string{"error": "missing token"}, http.StatusUnauthorized)
				return
			}
			username, err := p.Parse(tok)
			if err != nil || username == "" {
				WriteJSON(w, map[string]string{"error": "invalid token"}, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), username)))
		})
	}
}

func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey, username)
}

func UserFromCtx(r *http.Request) (string, error) {
	username, _ := r.Context().Value(userKey).(string)
	if username == "" {
		return "", ErrUnauthorized
	}
	return username, nil
}
