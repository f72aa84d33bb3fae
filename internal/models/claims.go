package models

import "github.com/golang-jwt/jwt/v5"

// Claims are the JWT claims issued by the identity service.
type Claims struct {
	UserID uint64   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}
