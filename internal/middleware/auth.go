package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/habinote/habinote-go/internal/crypto"
	"github.com/habinote/habinote-go/internal/model"
)

type contextKey string

const claimsKey contextKey = "claims"

const (
	msgTokenMissing = "Akses ditolak, token tidak ditemukan"
	msgTokenExpired = "Token sudah kedaluwarsa"
	msgTokenInvalid = "Token tidak valid"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*crypto.Claims, error)
}

// JWTAuth returns middleware that validates a Bearer token from the Authorization header.
func JWTAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, msgTokenMissing)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				msg := msgTokenInvalid
				if errors.Is(err, crypto.ErrExpiredToken) {
					msg = msgTokenExpired
				}
				writeJSONError(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified token claims stored by JWTAuth.
func ClaimsFromContext(ctx context.Context) (*crypto.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*crypto.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Success: false, Message: msg})
}
