package models

import "github.com/dgrijalva/jwt-go"

type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// ContextKey types the values the auth middleware stores on the request
// context.
type ContextKey string

const CtxUserID ContextKey = "user_id"
