package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// minSecretLength is the minimum accepted HMAC secret size in bytes.
const minSecretLength = 32

// Claims represents the self-contained bearer token payload. A token
// encodes only the caller's identity and role; no session state is kept
// server-side.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService defines bearer token operations.
type JWTService interface {
	GenerateToken(userID int64, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
	GetExpiry() time.Duration
}

type jwtService struct {
	secret string
	expiry time.Duration
}

// NewJWTService creates a new JWTService instance. It returns nil if the
// secret is shorter than 32 bytes.
func NewJWTService(secret string, expiry time.Duration) JWTService {
	if len(secret) < minSecretLength {
		return nil
	}
	return &jwtService{
		secret: secret,
		expiry: expiry,
	}
}

func (s *jwtService) GenerateToken(userID int64, role string) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *jwtService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

func (s *jwtService) GetExpiry() time.Duration {
	return s.expiry
}
