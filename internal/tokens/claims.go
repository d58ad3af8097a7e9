package tokens

import "github.com/golang-jwt/jwt/v5"

// AccessClaims embeds the public profile fields so handlers can serve
// the caller's identity without another DB read.
type AccessClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
