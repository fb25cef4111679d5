// Package tokencodec extracts identity claims from the API's bearer tokens.
//
// Tokens are treated as opaque JWT-shaped strings: the payload segment is
// decoded for its sub and role claims, while the header and signature are
// neither interpreted nor verified. The API remains the authority on token
// validity and rejects bad tokens with 401.
package tokencodec

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	domainauth "github.com/eduevents/eduevents-hub/internal/domain/auth"
)

// ErrDecodeFailed is the single failure of Decode, whatever the cause.
var ErrDecodeFailed = errors.New("token decode failed")

// payload is the subset of the token payload we read. Other claims are
// ignored whatever their shape.
type payload struct {
	Sub  domainauth.ExternalID `json:"sub"`
	Role json.RawMessage       `json:"role"`
}

// Codec implements ports.TokenDecoder.
type Codec struct {
	parser *jwt.Parser
}

// New creates a Codec. Padded and unpadded base64url payloads are accepted.
func New() *Codec {
	return &Codec{parser: jwt.NewParser(jwt.WithPaddingAllowed())}
}

// Decode returns the subject and role carried by token.
func (c *Codec) Decode(token string) (domainauth.Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return domainauth.Claims{}, ErrDecodeFailed
	}

	raw, err := c.parser.DecodeSegment(parts[1])
	if err != nil {
		return domainauth.Claims{}, ErrDecodeFailed
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domainauth.Claims{}, ErrDecodeFailed
	}
	if p.Sub == "" {
		return domainauth.Claims{}, ErrDecodeFailed
	}
	var roleName string
	if err := json.Unmarshal(p.Role, &roleName); err != nil {
		return domainauth.Claims{}, ErrDecodeFailed
	}
	role, err := domainauth.ParseRole(roleName)
	if err != nil {
		return domainauth.Claims{}, ErrDecodeFailed
	}

	return domainauth.Claims{SubjectID: p.Sub.String(), Role: role}, nil
}
