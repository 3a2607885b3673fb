package gate

import "gym-backend/identity"

// State is what the gate publishes for its session. Role stays RoleNone
// while Loading and whenever Err is set.
type State struct {
	Identity *identity.Identity
	Role     Role
	Loading  bool
	Err      error
}

func (s State) UID() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.UID
}

// Settled reports whether no resolution is in flight.
func Settled(s State) bool {
	return !s.Loading
}

// SettledFor reports whether the state has settled on the given uid, or on
// signed out when uid is empty.
func SettledFor(uid string) func(State) bool {
	return func(s State) bool {
		return !s.Loading && s.UID() == uid
	}
}
