package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// UserClaims carries the already-authenticated caller identity. The auth
// subsystem that issues these tokens lives outside this service; here we only
// validate and read them.
type UserClaims struct {
	Email string `json:"email"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

type TokenManager interface {
	GenerateAccessToken(email string, admin bool) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
}

type tokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
	}
}

func (m *tokenManager) GenerateAccessToken(email string, admin bool) (string, error) {
	claims := UserClaims{
		Email: email,
		Admin: admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(45 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "rentonomic",
			Audience:  jwt.ClaimStrings{"api-access"},
			ID:        generateJTI(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		if claims.Email == "" && claims.Subject != "" {
			claims.Email = claims.Subject
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Simple unique ID generator
func generateJTI() string {
	return strconv.FormatInt(time.Now().UnixNano(), 16)
}
