package models

import "github.com/golang-jwt/jwt/v5"

type JwtCustomClaims struct {
	UserID int64 `json:"userID"`
	Role   Role  `json:"role"`
	jwt.RegisteredClaims
}
