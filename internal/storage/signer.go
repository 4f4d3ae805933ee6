package storage

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("invalid or expired storage token")
	ErrTokenScope   = errors.New("storage token does not cover this object")
)

// Signer mints and verifies the capability tokens carried by signed
// URLs. A token grants read access to exactly one (container, path)
// until it expires.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) Sign(container, path string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"container": container,
		"path":      path,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the token signature, expiry, and that it was minted
// for the given object.
func (s *Signer) Verify(tokenString, container, path string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrTokenInvalid
	}

	tokenContainer, _ := claims["container"].(string)
	tokenPath, _ := claims["path"].(string)
	if tokenContainer != container || tokenPath != path {
		return ErrTokenScope
	}

	return nil
}
