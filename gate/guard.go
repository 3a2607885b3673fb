package gate

import (
	"gym-backend/errs"
)

type Action int

const (
	Render Action = iota
	RedirectToLogin
	RedirectToOwnDashboard
	// Pending blocks the view: the identity is known but its role is not,
	// either because the lookup is in flight or because it failed.
	Pending
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case RedirectToLogin:
		return "redirectToLogin"
	case RedirectToOwnDashboard:
		return "redirectToOwnDashboard"
	case Pending:
		return "pending"
	}
	return "unknown"
}

// Decision is the outcome of guarding a view. Err classifies every outcome
// other than Render.
type Decision struct {
	Action Action
	Target string
	Err    error
}

type Paths struct {
	Login            string `toml:"login"`
	AdminDashboard   string `toml:"admin_dashboard"`
	StudentDashboard string `toml:"student_dashboard"`
}

var DefaultPaths = Paths{
	Login:            "/login",
	AdminDashboard:   "/admin/dashboard",
	StudentDashboard: "/student/dashboard",
}

func (p Paths) Dashboard(r Role) string {
	switch r {
	case RoleAdmin:
		return p.AdminDashboard
	case RoleStudent:
		return p.StudentDashboard
	}
	return p.Login
}

// Guard decides whether a view requiring the given role may render for s.
// It reads s only.
func (p Paths) Guard(required Role, s State) Decision {
	if s.Identity == nil {
		return Decision{Action: RedirectToLogin, Target: p.Login, Err: errs.ErrUnauthenticated}
	}

	if s.Role != RoleNone && s.Role != required {
		return Decision{Action: RedirectToOwnDashboard, Target: p.Dashboard(s.Role), Err: errs.ErrRoleMismatch}
	}

	if s.Role == RoleNone {
		err := s.Err
		if err == nil {
			err = errs.ErrRolePending
		}
		return Decision{Action: Pending, Err: err}
	}

	return Decision{Action: Render}
}

func Guard(required Role, s State) Decision {
	return DefaultPaths.Guard(required, s)
}
