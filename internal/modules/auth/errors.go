package auth

import "errors"

// ErrStoreUnavailable wraps every credential-store failure that is not a
// plain "no such row". Handlers map it to a 500.
var ErrStoreUnavailable = errors.New("credential store unavailable")
