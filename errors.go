package tableside

import "errors"

// ErrInvalidSession is returned when the backend rejects a credential, the
// validation response cannot be parsed, or the validation call fails on the
// wire. Callers treat every variant identically: the credential is discarded
// and the user is asked to authenticate again.
var ErrInvalidSession = errors.New("invalid session")

// ErrLoginRejected is returned when the login endpoint declines the supplied
// credentials. The session is left untouched; the caller surfaces a generic
// "invalid credentials" message.
var ErrLoginRejected = errors.New("login rejected")

// ErrSessionReplaced is returned to a caller whose in-flight validation was
// superseded by a later login or logout. The stale result is discarded and
// the newer session state stands.
var ErrSessionReplaced = errors.New("session replaced")

// IsInvalidSession checks for credential validation failures.
func IsInvalidSession(err error) bool {
	return errors.Is(err, ErrInvalidSession)
}

// IsLoginRejected checks for declined interactive logins.
func IsLoginRejected(err error) bool {
	return errors.Is(err, ErrLoginRejected)
}

// IsSessionReplaced checks whether a call lost the race against a newer
// session transition.
func IsSessionReplaced(err error) bool {
	return errors.Is(err, ErrSessionReplaced)
}
