package models

// Credentials carry the LinkedIn account identity. They are handed to the
// session manager for the authentication call and nowhere else; no component
// logs or persists them.
type Credentials struct {
	Username string
	Password string
}

// SessionState tracks the login state machine. Transitions are monotonic
// except for the single retry path from ChallengeRequired back to Submitting.
type SessionState int

const (
	Unauthenticated SessionState = iota
	Submitting
	ChallengeRequired
	Authenticated
	SessionFailed
)

func (s SessionState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Submitting:
		return "submitting"
	case ChallengeRequired:
		return "challenge-required"
	case Authenticated:
		return "authenticated"
	case SessionFailed:
		return "failed"
	default:
		return "unknown"
	}
}
