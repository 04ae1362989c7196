// Package session keeps the registry of opaque session tokens issued at
// login. A token maps to the Identity snapshot taken when it was created.
//
//	tok, _ := store.Create(ctx, session.Identity{UserID: 1, Role: "user"})
//	id, ok, _ := store.Resolve(ctx, tok)
//	_ = store.Revoke(ctx, tok)
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Identity is the snapshot of a user recorded at login.
type Identity struct {
	UserID uint   `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == "admin" }

// Resolver looks tokens up. The HTTP middleware only needs this half of
// Store.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, bool, error)
}

// Store is the session registry. Implementations are safe for concurrent use.
type Store interface {
	// Create issues a fresh token bound to id.
	Create(ctx context.Context, id Identity) (string, error)
	// Resolve looks up token. ok is false for unknown, revoked or expired
	// tokens.
	Resolve(ctx context.Context, token string) (Identity, bool, error)
	// Revoke removes token. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
}

// newToken returns 32 random bytes, hex encoded.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id. Called by the
// Authenticate middleware once the request token resolves.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
