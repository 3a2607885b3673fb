package errs

import "errors"

var (
	ErrEmailRequired          = errors.New("E0001: email is required")
	ErrPasswordRequired       = errors.New("E0002: password is required")
	ErrInvalidEmailOrPassword = errors.New("E0003: invalid email or password")
	ErrDatabase               = errors.New("E0004: database error")
	ErrCryptographic          = errors.New("E0005: cryptographic failure")
	ErrJWT                    = errors.New("E0006: JWT failure")
	ErrNameRequired           = errors.New("E0007: name is required")
	ErrEmailAddressFormat     = errors.New("E0008: email address format incorrect")
	ErrAlreadyExists          = errors.New("E0010: user already registered")
	ErrTokenExpired           = errors.New("E0011: token expired")
	ErrNotFound               = errors.New("E0014: not found")
	ErrMail                   = errors.New("E0018: error sending email")
	ErrInvalidResetToken      = errors.New("E0019: reset token invalid")
	ErrQueue                  = errors.New("E0020: queue error")
	ErrIdentityLookupFailed   = errors.New("E0021: identity lookup failed")
	ErrUnauthenticated        = errors.New("E0022: unauthenticated")
	ErrRoleMismatch           = errors.New("E0023: role mismatch")
	ErrNoRole                 = errors.New("E0024: no role assigned")
	ErrRolePending            = errors.New("E0025: role not resolved yet")
	ErrInvalidOperator        = errors.New("E0026: invalid query operator")
	ErrSessionNotFound        = errors.New("E0027: session not found")
	ErrRateLimited            = errors.New("E0028: too many attempts")
	ErrUnknownDestination     = errors.New("E0029: unknown destination")
	ErrInvalidDate            = errors.New("E0030: invalid date")
)
