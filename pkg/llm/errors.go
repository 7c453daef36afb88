package llm

import (
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
)

// IsRateLimit reports whether err is a quota/rate-limit rejection from the
// model service. Matches HTTP 429 on the REST transport and the
// RESOURCE_EXHAUSTED marker that surfaces through the gRPC transport.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 429 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "ResourceExhausted")
}
