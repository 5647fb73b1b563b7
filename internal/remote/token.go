package remote

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenStore holds the bearer token obtained from login/register. It is
// shared by the client (which attaches the token) and the sync orchestrator
// (which checks expiry before a pass).
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

func NewTokenStore(token string) *TokenStore {
	return &TokenStore{token: token}
}

func (t *TokenStore) Set(token string) {
	t.mu.Lock()
	t.token = token
	t.mu.Unlock()
}

func (t *TokenStore) Get() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

func (t *TokenStore) Clear() {
	t.Set("")
}

// Valid reports whether a token is present and its exp claim has not passed.
// The parse is unverified: signature verification is the backend's job, this
// is only an early local check so an expired token does not burn a sync pass.
func (t *TokenStore) Valid() bool {
	token := t.Get()
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}
	return exp.Time.After(time.Now())
}
