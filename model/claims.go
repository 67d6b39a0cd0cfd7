package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the access token payload. Subject holds the decimal user id.
type AppClaims struct {
	jwt.RegisteredClaims
}
