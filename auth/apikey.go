package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/youssefsiam38/meetpg"
)

const apiKeyPrefix = "meetpg_ak_"

// APIKey binds the SHA-256 hex hash of a key to the user it authenticates.
type APIKey struct {
	Hash   string `yaml:"hash"`
	UserID string `yaml:"user_id"`
	Name   string `yaml:"name"`
}

// APIKeyAuthenticator resolves "Authorization: Bearer <key>" against a fixed
// set of hashed keys.
type APIKeyAuthenticator struct {
	keys []APIKey
}

// NewAPIKeyAuthenticator returns an authenticator for keys. Hashes are
// compared case-insensitively.
func NewAPIKeyAuthenticator(keys []APIKey) (*APIKeyAuthenticator, error) {
	normalized := make([]APIKey, 0, len(keys))
	for i, k := range keys {
		k.Hash = strings.ToLower(strings.TrimSpace(k.Hash))
		if len(k.Hash) != sha256.Size*2 {
			return nil, fmt.Errorf("api key %d: hash must be %d hex characters", i, sha256.Size*2)
		}
		if _, err := hex.DecodeString(k.Hash); err != nil {
			return nil, fmt.Errorf("api key %d: invalid hash: %w", i, err)
		}
		if k.UserID == "" {
			return nil, fmt.Errorf("api key %d: user_id is required", i)
		}
		normalized = append(normalized, k)
	}
	return &APIKeyAuthenticator{keys: normalized}, nil
}

// Authenticate implements Authenticator.
func (a *APIKeyAuthenticator) Authenticate(r *http.Request) (meetpg.Session, error) {
	token := BearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return meetpg.Session{}, ErrNoCredentials
	}

	hash := HashAPIKey(token)
	var match *APIKey
	// Every key is compared in constant time.
	for i := range a.keys {
		if subtle.ConstantTimeCompare([]byte(hash), []byte(a.keys[i].Hash)) == 1 {
			match = &a.keys[i]
		}
	}
	if match == nil {
		return meetpg.Session{}, ErrInvalidCredentials
	}
	return meetpg.Session{UserID: match.UserID, Name: match.Name}, nil
}

// GenerateAPIKey returns a new random API key.
func GenerateAPIKey() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return apiKeyPrefix + hex.EncodeToString(raw), nil
}

// HashAPIKey returns the SHA-256 hex digest stored for apiKey.
func HashAPIKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(authHeader string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
}
