// Package secret compares a presented login secret with the stored one.
//
// SchemePlain keeps the stored value as-is and compares in constant time.
// SchemeBcrypt stores bcrypt hashes; Hash is used by seeding and registration
// tooling so stored values match the configured scheme.
package secret

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Scheme string

const (
	SchemePlain  Scheme = "plain"
	SchemeBcrypt Scheme = "bcrypt"
)

var ErrUnknownScheme = errors.New("unknown secret scheme")

type Matcher interface {
	Match(stored, presented string) bool
	Hash(raw string) (string, error)
}

func ParseScheme(v string) (Scheme, error) {
	switch s := Scheme(strings.ToLower(strings.TrimSpace(v))); s {
	case SchemePlain, SchemeBcrypt:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, v)
	}
}

func NewMatcher(scheme Scheme) (Matcher, error) {
	switch scheme {
	case SchemePlain:
		return plainMatcher{}, nil
	case SchemeBcrypt:
		return bcryptMatcher{cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

type plainMatcher struct{}

func (plainMatcher) Match(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

func (plainMatcher) Hash(raw string) (string, error) {
	return raw, nil
}

type bcryptMatcher struct {
	cost int
}

func (bcryptMatcher) Match(stored, presented string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
}

func (m bcryptMatcher) Hash(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), m.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
