package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"tokenrelay/internal/domain"
)

var (
	// ErrTokenInvalid covers bad signatures, malformed tokens and wrong algorithms.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned only for tokens that are otherwise valid.
	ErrTokenExpired = errors.New("token expired")
)

// Kind selects the signing secret. Access and renewal tokens never share one.
type Kind int

const (
	KindAccess Kind = iota
	KindRenewal
)

func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindRenewal:
		return "renewal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Payload is a claims set the codec knows how to stamp with iat/exp.
type Payload interface {
	jwtlib.Claims
	registered() *jwtlib.RegisteredClaims
}

type AccessClaims struct {
	User domain.UserSnapshot `json:"user"`
	jwtlib.RegisteredClaims
}

func (c *AccessClaims) registered() *jwtlib.RegisteredClaims { return &c.RegisteredClaims }

type RenewalClaims struct {
	Email string `json:"email"`
	jwtlib.RegisteredClaims
}

func (c *RenewalClaims) registered() *jwtlib.RegisteredClaims { return &c.RegisteredClaims }

type Config struct {
	AccessSecret  string
	RenewalSecret string
	AccessTTL     time.Duration
	RenewalTTL    time.Duration
}

type Service struct {
	accessSecret  []byte
	renewalSecret []byte
	accessTTL     time.Duration
	renewalTTL    time.Duration
	now           func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(cfg Config, opts ...Option) (*Service, error) {
	access := strings.TrimSpace(cfg.AccessSecret)
	renewal := strings.TrimSpace(cfg.RenewalSecret)
	if access == "" || renewal == "" {
		return nil, errors.New("jwt: access and renewal secrets are required")
	}
	if access == renewal {
		return nil, errors.New("jwt: access and renewal secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RenewalTTL <= 0 {
		return nil, errors.New("jwt: token TTLs must be > 0")
	}

	s := &Service{
		accessSecret:  []byte(access),
		renewalSecret: []byte(renewal),
		accessTTL:     cfg.AccessTTL,
		renewalTTL:    cfg.RenewalTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) AccessTTL() time.Duration  { return s.accessTTL }
func (s *Service) RenewalTTL() time.Duration { return s.renewalTTL }

// Issue signs payload under the secret for kind with exp = now + ttl. Every
// token gets a fresh jti, so two tokens issued in the same second still differ.
func (s *Service) Issue(kind Kind, payload Payload, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("jwt: non-positive ttl for %s token", kind)
	}
	key, err := s.key(kind)
	if err != nil {
		return "", err
	}

	now := s.now()
	rc := payload.registered()
	rc.IssuedAt = jwtlib.NewNumericDate(now)
	rc.ExpiresAt = jwtlib.NewNumericDate(now.Add(ttl))
	rc.ID = uuid.NewString()

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, payload)
	return token.SignedString(key)
}

// Verify decodes tokenStr into into. The signature is checked before expiry,
// so a tampered expired token reports ErrTokenInvalid.
func (s *Service) Verify(tokenStr string, kind Kind, into Payload) error {
	key, err := s.key(kind)
	if err != nil {
		return err
	}

	token, err := jwtlib.ParseWithClaims(tokenStr, into, func(t *jwtlib.Token) (any, error) {
		return key, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

func (s *Service) IssueAccess(user domain.UserSnapshot) (string, error) {
	return s.Issue(KindAccess, &AccessClaims{User: user}, s.accessTTL)
}

func (s *Service) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.Verify(tokenStr, KindAccess, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) IssueRenewal(email string) (string, error) {
	return s.Issue(KindRenewal, &RenewalClaims{Email: email}, s.renewalTTL)
}

func (s *Service) VerifyRenewal(tokenStr string) (*RenewalClaims, error) {
	claims := &RenewalClaims{}
	if err := s.Verify(tokenStr, KindRenewal, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Service) key(kind Kind) ([]byte, error) {
	switch kind {
	case KindAccess:
		return s.accessSecret, nil
	case KindRenewal:
		return s.renewalSecret, nil
	default:
		return nil, fmt.Errorf("jwt: unknown token kind %s", kind)
	}
}
