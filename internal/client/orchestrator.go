package client

import (
	"context"
	"errors"
	"fmt"

	"tokenrelay/internal/logging"
)

type State int

const (
	StateHaveAccess State = iota + 1
	StateNoAccess
	StateRenewing
	StateFailed
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateHaveAccess:
		return "have_access"
	case StateNoAccess:
		return "no_access"
	case StateRenewing:
		return "renewing"
	case StateFailed:
		return "failed"
	case StateSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// Operation is a protected call made with the given access token. It must
// return an error wrapping ErrAccessExpired when, and only when, the server
// reported an expired access token.
type Operation func(ctx context.Context, accessToken string) error

type Renewer interface {
	Renew(ctx context.Context, renewalToken string) (string, error)
}

// Attempt records what happened to one Orchestrator.Do call. Session is the
// session to keep for the next call; it carries any renewed access token.
type Attempt struct {
	State       State
	Session     Session
	Calls       int
	Renewals    int
	Transitions []State
}

func (a *Attempt) enter(s State) {
	a.State = s
	a.Transitions = append(a.Transitions, s)
}

// Orchestrator runs a protected operation and, when the access token has
// expired, renews it once and retries once. A second expiry is final.
type Orchestrator struct {
	renewer Renewer
	log     logging.Logger
}

func NewOrchestrator(renewer Renewer, log logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.Nop()
	}
	return &Orchestrator{renewer: renewer, log: log}
}

func (o *Orchestrator) Do(ctx context.Context, session Session, op Operation) (Attempt, error) {
	a := Attempt{Session: session}
	retried := false

	if session.HasAccess() {
		a.enter(StateHaveAccess)
	} else {
		a.enter(StateNoAccess)
		if err := o.renew(ctx, &a); err != nil {
			return a, err
		}
		// a session that starts without access has used its renewal
		retried = true
	}

	for {
		a.Calls++
		err := op(ctx, a.Session.AccessToken)
		switch {
		case err == nil:
			a.enter(StateSucceeded)
			return a, nil

		case errors.Is(err, ErrAccessExpired) && !retried:
			retried = true
			if err := o.renew(ctx, &a); err != nil {
				return a, err
			}

		case errors.Is(err, ErrAccessExpired),
			errors.Is(err, ErrUnauthenticated),
			errors.Is(err, ErrMissingCredential):
			a.enter(StateFailed)
			return a, fmt.Errorf("%w: %w", ErrLoginAgain, err)

		default:
			a.enter(StateFailed)
			return a, err
		}
	}
}

func (o *Orchestrator) renew(ctx context.Context, a *Attempt) error {
	a.enter(StateRenewing)
	if !a.Session.CanRenew() {
		a.enter(StateFailed)
		return fmt.Errorf("%w: no renewal token", ErrLoginAgain)
	}

	token, err := o.renewer.Renew(ctx, a.Session.RenewalToken)
	if err != nil {
		a.enter(StateFailed)
		o.log.Warn(ctx, "renewal failed", "error", err)
		if errors.Is(err, ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrLoginAgain, err)
	}

	a.Renewals++
	a.Session = a.Session.WithAccess(token)
	a.enter(StateHaveAccess)
	o.log.Debug(ctx, "access token renewed")
	return nil
}
