package auth

import (
	"context"

	"tokenrelay/internal/domain"
	"tokenrelay/internal/pkg/jwt"
)

// UserRepositoryInterface — only the methods the auth service uses
type UserRepositoryInterface interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByRenewalToken(ctx context.Context, token string) (*domain.User, error)
	SetRenewalToken(ctx context.Context, userID int64, token *string) error
}

// tokenIssuer is the part of the jwt service used for logins and renewals.
type tokenIssuer interface {
	IssueAccess(user domain.UserSnapshot) (string, error)
	IssueRenewal(email string) (string, error)
}

// accessVerifier is all the guard needs. It never sees the store.
type accessVerifier interface {
	VerifyAccess(token string) (*jwt.AccessClaims, error)
}
