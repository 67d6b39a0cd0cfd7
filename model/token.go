package model

import "time"

// AccessToken is an issued bearer token. It is not persisted.
type AccessToken struct {
	Value     string
	Subject   int64
	ExpiresAt time.Time
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func NewTokenResponse(t AccessToken) TokenResponse {
	return TokenResponse{AccessToken: t.Value, TokenType: "bearer"}
}
