package services

import (
	"context"
	"errors"
	"fmt"

	"bdcserver/model"
	"bdcserver/store"
)

var (
	// ErrUnauthenticated means no verifiable identity came with the request.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the identity is known but not allowed.
	ErrForbidden = errors.New("forbidden access")
)

// IdentityVerifier turns a bearer credential into the caller's email.
type IdentityVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// AuthorizeAdmin allows email only if a user with that email exists and has
// the admin role. Only the role field is read; the rest of the stored user
// has no bearing on the decision. A failed lookup is returned as-is.
func AuthorizeAdmin(ctx context.Context, st store.Store, email string) error {
	if email == "" {
		return ErrForbidden
	}
	doc, err := GetUserByEmail(ctx, st, email)
	if err != nil {
		return fmt.Errorf("authorize %s: %w", email, err)
	}
	if role, _ := doc["role"].(string); role != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
