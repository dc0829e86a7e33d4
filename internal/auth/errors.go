package auth

import "errors"

var (
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrNotFound           = errors.New("auth: not found")
	ErrUnauthorized       = errors.New("auth: unauthorized")
	ErrNoPortalAccess     = errors.New("auth: no portal access")
)
