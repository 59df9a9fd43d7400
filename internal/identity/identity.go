// Package identity extracts the opaque caller identity from an inbound
// request. The session layer in front of this service issues HS256 tokens
// whose subject is the identity; trusted internal callers may instead pass
// the identity directly in the X-Identity header.
package identity

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingIdentity indicates the request carried no usable credential.
	ErrMissingIdentity = errors.New("missing caller identity")
	// ErrInvalidToken indicates the bearer token failed validation.
	ErrInvalidToken = errors.New("invalid identity token")
)

// Resolver validates inbound credentials and yields the caller identity.
type Resolver struct {
	secret []byte
}

// NewResolver constructs a Resolver using the given HMAC secret.
func NewResolver(secret string) *Resolver {
	return &Resolver{secret: []byte(secret)}
}

// FromRequest returns the caller identity for a request: the validated
// subject of a bearer token, or the X-Identity header when no token is
// present.
func (r *Resolver) FromRequest(req *http.Request) (string, error) {
	if auth := req.Header.Get("Authorization"); auth != "" {
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			return "", ErrInvalidToken
		}
		return r.Parse(token)
	}

	if id := req.Header.Get("X-Identity"); id != "" {
		return id, nil
	}

	return "", ErrMissingIdentity
}

// Parse validates an HS256 token and returns its subject.
func (r *Resolver) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return r.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
