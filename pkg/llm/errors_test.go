package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestIsRateLimit(t *testing.T) {
	assert.False(t, IsRateLimit(nil))
	assert.False(t, IsRateLimit(errors.New("connection reset")))

	assert.True(t, IsRateLimit(&googleapi.Error{Code: 429}))
	assert.False(t, IsRateLimit(&googleapi.Error{Code: 500}))

	// Wrapped errors still classify.
	wrapped := fmt.Errorf("gemini request failed: %w", &googleapi.Error{Code: 429})
	assert.True(t, IsRateLimit(wrapped))

	// gRPC transports surface the marker in the message instead.
	assert.True(t, IsRateLimit(errors.New("rpc error: code = ResourceExhausted desc = quota")))
	assert.True(t, IsRateLimit(errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")))
}
