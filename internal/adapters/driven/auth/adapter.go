package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ServiceClaims identifies an API caller. The core has no user accounts;
// tokens are minted out of band for the services driving it.
type ServiceClaims struct {
	// Subject names the calling service
	Subject string

	// IssuedAt and ExpiresAt are Unix timestamps
	IssuedAt  int64
	ExpiresAt int64
}

type jwtClaims struct {
	jwt.RegisteredClaims
}

// Adapter signs and validates service tokens using HS256.
type Adapter struct {
	secret []byte
	ttl    time.Duration
}

// NewAdapter creates an auth adapter with the given signing secret.
// Generated tokens expire after ttl; zero means 24 hours.
func NewAdapter(secret string, ttl time.Duration) *Adapter {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Adapter{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateToken creates a signed JWT for the named service.
func (a *Adapter) GenerateToken(subject string) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken validates a JWT and extracts the service claims.
func (a *Adapter) ParseToken(tokenString string) (*ServiceClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*jwtClaims); ok && token.Valid {
		return &ServiceClaims{
			Subject:   claims.Subject,
			IssuedAt:  claims.IssuedAt.Unix(),
			ExpiresAt: claims.ExpiresAt.Unix(),
		}, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}
