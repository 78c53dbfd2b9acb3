package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Retryable(t *testing.T) {
	testCases := []struct {
		kind      ErrorKind
		retryable bool
	}{
		{ErrValidation, false},
		{ErrNotFound, false},
		{ErrRateLimited, false},
		{ErrTimeout, true},
		{ErrNetwork, true},
		{ErrUpstream, true},
	}
	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			err := &Error{Kind: tc.kind, Message: "x"}
			assert.Equal(t, tc.retryable, err.Retryable())
			assert.Equal(t, tc.retryable, Retryable(err))
		})
	}
}

func TestRetryable_UnclassifiedError(t *testing.T) {
	assert.False(t, Retryable(errors.New("plain")))
	assert.False(t, Retryable(nil))
}

func TestKindOf_UnwrapsChains(t *testing.T) {
	inner := &Error{Kind: ErrRateLimited, Status: 403, Message: "API rate limit exhausted"}
	wrapped := fmt.Errorf("fetch profile for %q: %w", "octocat", inner)

	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrRateLimited, kind)

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestError_Message(t *testing.T) {
	withStatus := &Error{Kind: ErrUpstream, Status: 502, Message: "unexpected upstream response"}
	assert.Equal(t, "upstream (status 502): unexpected upstream response", withStatus.Error())

	wrappedOnly := &Error{Kind: ErrNetwork, Err: errors.New("connection reset")}
	assert.Equal(t, "network: connection reset", wrappedOnly.Error())
}

func TestSession_Supersedes(t *testing.T) {
	older := &Session{ID: 1}
	newer := &Session{ID: 2}

	assert.True(t, newer.Supersedes(older))
	assert.True(t, newer.Supersedes(nil))
	assert.False(t, older.Supersedes(newer))
}
