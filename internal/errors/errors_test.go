// internal/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError(t *testing.T) {
	t.Run("message without cause", func(t *testing.T) {
		err := &APIError{Message: "GitHub API request failed with status 404", Status: 404}
		assert.Equal(t, "GitHub API request failed with status 404", err.Error())
		assert.Nil(t, err.Unwrap())
	})

	t.Run("message with cause unwraps", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := &APIError{Message: "network request to GitHub API failed", Err: cause}
		assert.Equal(t, "network request to GitHub API failed: connection refused", err.Error())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("helpers see through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading user: %w", &APIError{Message: "rate limited", Status: 403, RateLimited: true})
		assert.True(t, IsRateLimited(err))
		assert.Equal(t, 403, StatusOf(err))
	})

	t.Run("helpers on foreign errors", func(t *testing.T) {
		err := stderrors.New("boom")
		assert.False(t, IsRateLimited(err))
		assert.Equal(t, 0, StatusOf(err))
	})
}

func TestErrInvalidRepoFormat(t *testing.T) {
	err := &ErrInvalidRepoFormat{Repo: "no-slash"}
	assert.Equal(t, `invalid repository format: "no-slash", expected 'owner/name'`, err.Error())
}
