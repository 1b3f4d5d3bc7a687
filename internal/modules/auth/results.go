package auth

import "tokenrelay/internal/domain"

type LoginOutcome int

const (
	LoginSucceeded LoginOutcome = iota + 1
	LoginInvalidCredentials
)

func (o LoginOutcome) String() string {
	switch o {
	case LoginSucceeded:
		return "succeeded"
	case LoginInvalidCredentials:
		return "invalid_credentials"
	default:
		return "unknown"
	}
}

// LoginResult carries both tokens on success. Unknown identity and wrong
// secret produce the same LoginInvalidCredentials result.
type LoginResult struct {
	Outcome      LoginOutcome
	User         domain.UserSnapshot
	AccessToken  string
	RenewalToken string
}

type GuardOutcome int

const (
	GuardAdmitted GuardOutcome = iota + 1
	GuardMissingCredential
	GuardUnauthenticated
	GuardAccessExpired
)

func (o GuardOutcome) String() string {
	switch o {
	case GuardAdmitted:
		return "admitted"
	case GuardMissingCredential:
		return "missing_credential"
	case GuardUnauthenticated:
		return "unauthenticated"
	case GuardAccessExpired:
		return "access_expired"
	default:
		return "unknown"
	}
}

// GuardResult is the verdict for one protected request.
//
// Malformed is only meaningful for GuardMissingCredential: false means no
// Authorization header at all, true means a header that is not "Bearer <token>".
type GuardResult struct {
	Outcome   GuardOutcome
	User      domain.UserSnapshot
	Malformed bool
}

func (r GuardResult) Admitted() bool { return r.Outcome == GuardAdmitted }

type RenewalOutcome int

const (
	RenewalSucceeded RenewalOutcome = iota + 1
	RenewalMissing
	RenewalNotFound
)

func (o RenewalOutcome) String() string {
	switch o {
	case RenewalSucceeded:
		return "succeeded"
	case RenewalMissing:
		return "missing"
	case RenewalNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

type RenewalResult struct {
	Outcome     RenewalOutcome
	AccessToken string
}
