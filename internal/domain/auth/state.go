package auth

// Phase is the lifecycle position of a browser's auth session manager.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitializing
	PhaseAnonymous
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitializing:
		return "initializing"
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Settled reports whether initialization has finished.
func (p Phase) Settled() bool {
	return p == PhaseAnonymous || p == PhaseAuthenticated
}

// State is an immutable snapshot of a manager's observable state.
type State struct {
	Phase   Phase
	Session *Session
	Loading bool
}

// IsAuthenticated is derived: a session is held and the phase agrees.
func (s State) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated && s.Session != nil
}
