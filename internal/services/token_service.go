package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid preorder token")

// TokenService signs the bearer tokens that guard a preorder's wizard
// steps.
type TokenService struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

type preorderClaims struct {
	PreorderID string `json:"preorder_id"`
	jwt.RegisteredClaims
}

func (s TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue returns a signed token for preorderID.
func (s TokenService) Issue(preorderID string) (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("token secret not configured")
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	now := s.now()
	claims := preorderClaims{
		PreorderID: preorderID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   preorderID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("sign preorder token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the preorder id.
func (s TokenService) Verify(token string) (string, error) {
	var claims preorderClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.PreorderID == "" {
		return "", ErrInvalidToken
	}
	return claims.PreorderID, nil
}
