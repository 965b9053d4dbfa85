package storage

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// URLSigner issues and verifies the short-lived tokens embedded in signed
// attachment URLs. Possession of a valid token is the only credential the
// download endpoint checks, which is what makes the URLs shareable within
// their lifetime.
type URLSigner struct {
	secret []byte
}

// NewURLSigner builds a signer.
func NewURLSigner(secret string) *URLSigner {
	return &URLSigner{secret: []byte(secret)}
}

type urlClaims struct {
	Path     string `json:"path"`
	FileName string `json:"file_name"`
	jwt.RegisteredClaims
}

// Sign issues a token granting access to one stored path until expiry.
func (s *URLSigner) Sign(filePath, fileName string, ttl time.Duration) (string, error) {
	claims := &urlClaims{
		Path:     filePath,
		FileName: fileName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates a token and returns the stored path and file name.
func (s *URLSigner) Verify(tokenStr string) (filePath, fileName string, err error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &urlClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := parsed.Claims.(*urlClaims)
	if !ok || !parsed.Valid {
		return "", "", errors.New("invalid token claims")
	}
	return claims.Path, claims.FileName, nil
}
