package testutil

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// TokenBuilder provides a fluent interface for building unsigned bearer
// tokens in the three-segment header.payload.signature shape.
type TokenBuilder struct {
	claims map[string]any
}

// NewToken creates a TokenBuilder with a subject and role.
func NewToken(sub, role string) *TokenBuilder {
	return &TokenBuilder{claims: map[string]any{"sub": sub, "role": role}}
}

// WithClaim sets an arbitrary payload claim.
func (b *TokenBuilder) WithClaim(name string, value any) *TokenBuilder {
	b.claims[name] = value
	return b
}

// Without removes a payload claim.
func (b *TokenBuilder) Without(name string) *TokenBuilder {
	delete(b.claims, name)
	return b
}

// Build encodes the token. The signature segment is a fixed placeholder.
func (b *TokenBuilder) Build() string {
	payload, err := json.Marshal(b.claims)
	if err != nil {
		panic(err)
	}
	return EncodeSegments(`{"alg":"HS256","typ":"JWT"}`, string(payload), "signature")
}

// EncodeSegments base64url-encodes each part (unpadded) and joins them with dots.
func EncodeSegments(parts ...string) string {
	enc := make([]string, len(parts))
	for i, p := range parts {
		enc[i] = base64.RawURLEncoding.EncodeToString([]byte(p))
	}
	return strings.Join(enc, ".")
}
