package client

import "errors"

var (
	// ErrAccessExpired means the server rejected the access token only because
	// it has expired. This is the one failure a renewal can fix.
	ErrAccessExpired = errors.New("access token expired")

	ErrUnauthenticated    = errors.New("not authenticated")
	ErrMissingCredential  = errors.New("missing or malformed credential")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRenewalRejected    = errors.New("renewal token rejected")

	// ErrLoginAgain is returned once the session cannot be recovered without
	// a fresh login.
	ErrLoginAgain = errors.New("login again")

	ErrUnavailable = errors.New("server unavailable")
	ErrServer      = errors.New("server error")
)
