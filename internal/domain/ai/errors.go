package ai

import "errors"

// ErrQuotaExceeded indicates the model provider returned a quota/limit
// error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrUnavailable indicates the provider could not be reached or did not
// answer within the configured timeout after all retries.
var ErrUnavailable = errors.New("ai service unavailable")
