package gate

import "errors"

var (
	// ErrUnauthorized: no subject, or the subject has no profile.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden: the profile or a policy denies the action.
	ErrForbidden = errors.New("forbidden")
)
