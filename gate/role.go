package gate

import "fmt"

type Role string

const (
	RoleNone    Role = ""
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

func (r Role) String() string {
	if r == RoleNone {
		return "none"
	}
	return string(r)
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleNone, RoleAdmin, RoleStudent:
		return r, nil
	}

	return RoleNone, fmt.Errorf("unknown role %q", s)
}
