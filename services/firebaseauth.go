package services

import (
	"context"
	"fmt"

	"firebase.google.com/go/auth"
)

// FirebaseVerifier verifies Firebase Authentication ID tokens and returns the
// email claim.
type FirebaseVerifier struct {
	Client *auth.Client
}

func (v FirebaseVerifier) VerifyToken(ctx context.Context, idToken string) (string, error) {
	token, err := v.Client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	email, _ := token.Claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("%w: token has no email claim", ErrUnauthenticated)
	}
	return email, nil
}
