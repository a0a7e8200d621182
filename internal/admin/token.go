// Package admin implements the access-token save flow from the business
// extension's admin panel.
package admin

import (
	"context"
	"log/slog"
	"time"

	"github.com/storelink/metabridge/internal/store"
)

const (
	keyAccessToken        = "fb/access_token"
	keyAccessTokenCreated = "fb/access_token_created_at"
)

// createdAtLayout is the UTC timestamp format persisted alongside the
// token, e.g. "2026-08-29 14:03:07".
const createdAtLayout = "2006-01-02 15:04:05"

// TokenResponse mirrors the admin AJAX contract: the token in effect after
// the call, and whether a save happened.
type TokenResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"accessToken"`
}

// TokenManager persists the Conversions API access token.
type TokenManager struct {
	kv  store.KV
	now func() time.Time
}

// NewTokenManager builds a TokenManager over the given store.
func NewTokenManager(kv store.KV) *TokenManager {
	return &TokenManager{kv: kv, now: time.Now}
}

// Save stores token and, when its value actually changed, a fresh UTC
// creation stamp. An empty token saves nothing and echoes the old value.
func (m *TokenManager) Save(ctx context.Context, token string) (TokenResponse, error) {
	old, _, err := m.kv.Get(ctx, keyAccessToken)
	if err != nil {
		return TokenResponse{}, err
	}
	resp := TokenResponse{Success: false, AccessToken: old}
	if token == "" {
		return resp, nil
	}

	if err := m.kv.Set(ctx, keyAccessToken, token); err != nil {
		return TokenResponse{}, err
	}
	resp.Success = true
	resp.AccessToken = token

	if old != token {
		slog.Info("access token updated")
		stamp := m.now().UTC().Format(createdAtLayout)
		if err := m.kv.Set(ctx, keyAccessTokenCreated, stamp); err != nil {
			return TokenResponse{}, err
		}
	}
	return resp, nil
}

// Token returns the stored access token, empty when none was saved.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	v, _, err := m.kv.Get(ctx, keyAccessToken)
	return v, err
}

// CreatedAt returns the stored creation stamp, empty when none exists.
func (m *TokenManager) CreatedAt(ctx context.Context) (string, error) {
	v, _, err := m.kv.Get(ctx, keyAccessTokenCreated)
	return v, err
}
