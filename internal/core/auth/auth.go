// Package auth provides HMAC-based API key authentication for the HTTP API.
package auth

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// contextKey is a typed key for context values to avoid collisions.
type contextKey string

// keyNameKey is the context key for the authenticated key's name.
const keyNameKey = contextKey("api_key_name")

// Queries defines the database operations needed for authentication.
// Implemented by *db.Queries to allow query loading via LoadQueries().
type Queries interface {
	Get(name string, dest interface{}, args ...interface{}) error
	Exec(name string, args ...interface{}) (sql.Result, error)
}

// keyRow is the api_keys projection used during authentication.
type keyRow struct {
	APIKeyID   string         `db:"api_key_id"`
	Name       string         `db:"name"`
	RevokedAt  sql.NullString `db:"revoked_at"`
	LastUsedAt sql.NullString `db:"last_used_at"`
}

// Authenticator validates API keys using HMAC-SHA256 signatures.
// Holds an in-memory secret map for O(1) lookup and queries for key
// verification.
type Authenticator struct {
	secrets map[string][]byte
	queries Queries
}

// NewAuthenticator creates an authenticator with HMAC secrets and a query
// interface.
func NewAuthenticator(secrets map[string][]byte, queries Queries) *Authenticator {
	return &Authenticator{
		secrets: secrets,
		queries: queries,
	}
}

// Authenticate validates an API key and returns the key's name on success.
// Returns a specific error for each failure mode.
func (a *Authenticator) Authenticate(ctx context.Context, apiKey string) (string, error) {
	secretID, _, err := ParseAPIKey(apiKey)
	if err != nil {
		return "", err
	}

	// O(1) lookup of the HMAC secret using the secret_id from the key
	secret, ok := a.secrets[secretID]
	if !ok {
		return "", ErrUnknownKey
	}

	keyHash := hex.EncodeToString(ComputeHMAC(secret, apiKey))

	// The unique constraint on key_hash ensures a single result
	var row keyRow
	err = a.queries.Get("get-api-key-by-hash", &row, keyHash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidKey
	}
	if err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}

	if row.RevokedAt.Valid {
		return "", ErrKeyRevoked
	}

	// 1-minute throttle keeps last-used tracking from amplifying writes
	if shouldUpdateLastUsed(row.LastUsedAt) {
		_, _ = a.queries.Exec("update-last-used", time.Now().UTC().Format(time.RFC3339), row.APIKeyID)
	}

	return row.Name, nil
}

// shouldUpdateLastUsed implements the 1-minute last-used update throttle.
func shouldUpdateLastUsed(lastUsed sql.NullString) bool {
	if !lastUsed.Valid {
		return true
	}
	t, err := time.Parse(time.RFC3339, lastUsed.String)
	if err != nil {
		return true
	}
	return time.Since(t) > time.Minute
}

// Middleware authenticates requests via the X-Api-Key header.
// Missing or invalid keys get 401 (does not confirm key existence),
// revoked keys get 403 (confirms the key exists but is blocked), and
// database failures get 503.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-Api-Key")
		if apiKey == "" {
			writeAuthError(w, http.StatusUnauthorized, "unauthenticated", ErrMissingKey.Error())
			return
		}

		name, err := a.Authenticate(r.Context(), apiKey)
		if err != nil {
			switch {
			case errors.Is(err, ErrKeyRevoked):
				writeAuthError(w, http.StatusForbidden, "permission_denied", err.Error())
			case strings.Contains(err.Error(), "database error"):
				writeAuthError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
			default:
				writeAuthError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
			}
			return
		}

		ctx := context.WithValue(r.Context(), keyNameKey, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// KeyNameFromContext extracts the authenticated key's name from the context.
// Returns the empty string if not found.
func KeyNameFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(keyNameKey).(string); ok {
		return name
	}
	return ""
}

// writeAuthError writes the API's JSON error envelope. Duplicated from the
// api package so auth does not depend on it.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{"code": code, "message": message},
	})
}
