package client

// Session is the pair of tokens a client holds after login. It is a value:
// methods return a modified copy.
type Session struct {
	AccessToken  string
	RenewalToken string
}

func (s Session) HasAccess() bool { return s.AccessToken != "" }
func (s Session) CanRenew() bool  { return s.RenewalToken != "" }
func (s Session) IsEmpty() bool   { return !s.HasAccess() && !s.CanRenew() }

func (s Session) WithAccess(token string) Session {
	s.AccessToken = token
	return s
}
