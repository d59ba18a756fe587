package agentexec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens(t *testing.T) {
	_, err := NewTokens("short")
	require.Error(t, err)

	tokens, err := NewTokens(testSecret)
	require.NoError(t, err)

	tok, err := tokens.Issue("agent-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, tokens.Validate(tok, "agent-1"))
	assert.False(t, tokens.Validate(tok, "agent-2"), "token is bound to its agent")
	assert.False(t, tokens.Validate(tok+"x", "agent-1"))

	other, err := NewTokens("another-secret-value")
	require.NoError(t, err)
	assert.False(t, other.Validate(tok, "agent-1"))

	claims, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "agent-1", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)

	_, err = tokens.Issue("", time.Hour)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	tokens, err := NewTokens(testSecret)
	require.NoError(t, err)
	issued := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return issued }
	tok, err := tokens.Issue("agent-1", time.Hour)
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
