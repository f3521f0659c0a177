package cache

import "errors"

// ErrBackendUnavailable reports that the cache or limiter storage could not be
// reached. Callers treat it as fatal to the batch.
var ErrBackendUnavailable = errors.New("cache backend unavailable")
