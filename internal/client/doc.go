// Package client talks to the token service over HTTP and retries a
// protected call at most once after renewing an expired access token.
package client
