package model

import "github.com/golang-jwt/jwt/v5"

// AccessClaims identifies the caller. Only Email is used for authorization;
// the role is always read from the Users collection.
type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
