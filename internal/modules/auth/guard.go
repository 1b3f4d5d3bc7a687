package auth

import (
	"errors"
	"strings"

	"tokenrelay/internal/pkg/jwt"
)

const bearerScheme = "Bearer"

// Guard decides whether a request's Authorization header admits it. It checks
// the access token's signature and expiry only; revocation is not consulted.
type Guard struct {
	tokens accessVerifier
}

func NewGuard(tokens accessVerifier) *Guard {
	return &Guard{tokens: tokens}
}

func (g *Guard) Check(authorization string) GuardResult {
	if strings.TrimSpace(authorization) == "" {
		return GuardResult{Outcome: GuardMissingCredential}
	}

	token, ok := bearerToken(authorization)
	if !ok {
		return GuardResult{Outcome: GuardMissingCredential, Malformed: true}
	}

	claims, err := g.tokens.VerifyAccess(token)
	switch {
	case err == nil:
		return GuardResult{Outcome: GuardAdmitted, User: claims.User}
	case errors.Is(err, jwt.ErrTokenExpired):
		return GuardResult{Outcome: GuardAccessExpired}
	default:
		return GuardResult{Outcome: GuardUnauthenticated}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
