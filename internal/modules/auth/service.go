package auth

import (
	"context"
	"errors"
	"fmt"

	"tokenrelay/internal/logging"
	"tokenrelay/internal/pkg/secret"
	"tokenrelay/internal/repository"
)

// Service issues sessions and renews access tokens against the credential store.
type Service struct {
	users   UserRepositoryInterface
	tokens  tokenIssuer
	secrets secret.Matcher
	log     logging.Logger
}

func NewService(users UserRepositoryInterface, tokens tokenIssuer, secrets secret.Matcher, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{
		users:   users,
		tokens:  tokens,
		secrets: secrets,
		log:     log.With("component", "auth"),
	}
}

// Login checks the presented secret and, on a match, issues an access token
// and a renewal token. The renewal token replaces whatever was stored for the
// user, so earlier sessions can no longer renew.
func (s *Service) Login(ctx context.Context, email, presented string) (LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Info(ctx, "login rejected", "reason", "unknown_identity")
		return LoginResult{Outcome: LoginInvalidCredentials}, nil
	}
	if err != nil {
		return LoginResult{}, storeError("lookup user", err)
	}

	if !s.secrets.Match(user.Secret, presented) {
		s.log.Info(ctx, "login rejected", "reason", "secret_mismatch", "user_id", user.ID)
		return LoginResult{Outcome: LoginInvalidCredentials}, nil
	}

	snapshot := user.Snapshot()
	access, err := s.tokens.IssueAccess(snapshot)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue access token: %w", err)
	}
	renewal, err := s.tokens.IssueRenewal(user.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue renewal token: %w", err)
	}

	// no tokens leave the service unless the renewal token was persisted
	if err := s.users.SetRenewalToken(ctx, user.ID, &renewal); err != nil {
		return LoginResult{}, storeError("store renewal token", err)
	}

	s.log.Info(ctx, "login succeeded", "user_id", user.ID)
	return LoginResult{
		Outcome:      LoginSucceeded,
		User:         snapshot,
		AccessToken:  access,
		RenewalToken: renewal,
	}, nil
}

// Renew exchanges a stored renewal token for a fresh access token. The match
// is on the stored value alone and the renewal token is left in place.
func (s *Service) Renew(ctx context.Context, renewalToken string) (RenewalResult, error) {
	if renewalToken == "" {
		return RenewalResult{Outcome: RenewalMissing}, nil
	}

	user, err := s.users.GetByRenewalToken(ctx, renewalToken)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Info(ctx, "renewal rejected", "reason", "not_found")
		return RenewalResult{Outcome: RenewalNotFound}, nil
	}
	if err != nil {
		return RenewalResult{}, storeError("lookup renewal token", err)
	}

	access, err := s.tokens.IssueAccess(user.Snapshot())
	if err != nil {
		return RenewalResult{}, fmt.Errorf("issue access token: %w", err)
	}

	s.log.Debug(ctx, "access token renewed", "user_id", user.ID)
	return RenewalResult{Outcome: RenewalSucceeded, AccessToken: access}, nil
}

// Logout clears the stored renewal token. Access tokens already handed out
// stay valid until they expire. Logging out a user that no longer exists is
// not an error.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	err := s.users.SetRenewalToken(ctx, userID, nil)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storeError("clear renewal token", err)
	}
	s.log.Info(ctx, "logout", "user_id", userID)
	return nil
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
