package eventsapi

import "github.com/eventify/eventify-desk/internal/domain"

// LoginResult is the response of both /auth/login and /auth/register.
type LoginResult struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	User        domain.Identity `json:"user"`
}

// apiError matches the error body the remote API sends on 4xx responses.
type apiError struct {
	Detail string `json:"detail"`
}

// Upload is an optional image attached to event creation.
type Upload struct {
	FileName string
	Content  []byte
}
