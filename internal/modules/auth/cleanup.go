package auth

import (
	"context"
	"errors"
	"fmt"

	"tokenrelay/internal/domain"
	"tokenrelay/internal/pkg/jwt"
)

type CleanupStore interface {
	ListWithRenewalTokens(ctx context.Context) ([]domain.User, error)
	ClearRenewalTokenIf(ctx context.Context, userID int64, token string) (bool, error)
}

type renewalVerifier interface {
	VerifyRenewal(token string) (*jwt.RenewalClaims, error)
}

type CleanupReport struct {
	Scanned int
	Expired int
	Invalid int
	Cleared int
}

// CleanupRenewalTokens clears stored renewal tokens that have expired or no
// longer verify, for instance after the renewal secret was rotated. A token
// overwritten by a login while the sweep runs is left alone.
func CleanupRenewalTokens(ctx context.Context, store CleanupStore, tokens renewalVerifier) (CleanupReport, error) {
	var report CleanupReport

	users, err := store.ListWithRenewalTokens(ctx)
	if err != nil {
		return report, fmt.Errorf("list renewal tokens: %w", err)
	}

	for _, u := range users {
		if !u.HasRenewalToken() {
			continue
		}
		report.Scanned++

		token := *u.RenewalToken
		_, err := tokens.VerifyRenewal(token)
		switch {
		case err == nil:
			continue
		case errors.Is(err, jwt.ErrTokenExpired):
			report.Expired++
		default:
			report.Invalid++
		}

		cleared, err := store.ClearRenewalTokenIf(ctx, u.ID, token)
		if err != nil {
			return report, fmt.Errorf("clear renewal token for user %d: %w", u.ID, err)
		}
		if cleared {
			report.Cleared++
		}
	}
	return report, nil
}
