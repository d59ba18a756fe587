package agentexec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "irconsole"

// ErrInvalidToken is returned for tokens that fail signature or claim checks.
var ErrInvalidToken = errors.New("invalid agent token")

// TokenClaims binds a registration token to one agent ID.
type TokenClaims struct {
	AgentID string `json:"agent_id"`
	jwt.RegisteredClaims
}

// Tokens issues and checks HS256 agent registration tokens.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

// NewTokens returns a token authority keyed by secret.
func NewTokens(secret string) (*Tokens, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("agent token secret must be at least 16 characters")
	}
	return &Tokens{secret: []byte(secret), now: time.Now}, nil
}

// Issue signs a token for agentID. A zero ttl never expires.
func (t *Tokens) Issue(agentID string, ttl time.Duration) (string, error) {
	if agentID == "" {
		return "", fmt.Errorf("agent id is required")
	}
	now := t.now()
	claims := TokenClaims{
		AgentID: agentID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   tokenIssuer,
			Subject:  agentID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies token and returns its claims.
func (t *Tokens) Parse(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Validate reports whether token was issued for agentID. It has the shape
// NewServer expects.
func (t *Tokens) Validate(token, agentID string) bool {
	claims, err := t.Parse(token)
	if err != nil {
		return false
	}
	return claims.AgentID == agentID
}
