package middleware

import "errors"

// ErrRetryExhausted is returned by [Retry] once every attempt failed. It
// wraps the last provider error as well.
var ErrRetryExhausted = errors.New("all retry attempts exhausted")
