package controller

// State is a controller state machine state
type State uint8

const (
	AwaitingCredential State = iota
	CredentialAccepted
	CredentialRejected
	LatchRelease
	LockdownEngage
	LockdownRelease
)

// String returns the state name
func (s State) String() string {
	switch s {
	case AwaitingCredential:
		return "AwaitingCredential"
	case CredentialAccepted:
		return "CredentialAccepted"
	case CredentialRejected:
		return "CredentialRejected"
	case LatchRelease:
		return "LatchRelease"
	case LockdownEngage:
		return "LockdownEngage"
	case LockdownRelease:
		return "LockdownRelease"
	default:
		return "Unknown"
	}
}
