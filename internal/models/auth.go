package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a member.
type LoginRequest struct {
	Matricula string `json:"matricula" validate:"required"`
	Password  string `json:"senha" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued token and member info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Student     Student   `json:"aluno"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	StudentID int64  `json:"aluno_id"`
	Matricula string `json:"matricula"`
	Role      Role   `json:"role"`
	Name      string `json:"nome"`
	jwt.RegisteredClaims
}
