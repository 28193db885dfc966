package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventgate/internal/domain"
)

type shareCodeClaims struct {
	jwt.RegisteredClaims
}

type shareCodeCodec struct {
	secret []byte
}

// NewShareCodeCodec returns a ShareCodeCodec that signs share codes with
// HS256 using the given secret. The code's expiry mirrors the token's.
func NewShareCodeCodec(secret string) domain.ShareCodeCodec {
	return &shareCodeCodec{secret: []byte(secret)}
}

func (c *shareCodeCodec) Issue(tokenID string, expiresAt *time.Time) (string, error) {
	now := time.Now()
	claims := shareCodeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  tokenID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}
	code := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := code.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign share code: %w", err)
	}
	return signed, nil
}

func (c *shareCodeCodec) Verify(code string) (string, error) {
	parsed, err := jwt.ParseWithClaims(code, &shareCodeClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid share code: %w", err)
	}
	claims, ok := parsed.Claims.(*shareCodeClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid share code")
	}
	return claims.Subject, nil
}
