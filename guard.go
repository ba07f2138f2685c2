package tableside

// GuardDecision is the outcome of a route guard predicate.
type GuardDecision int

const (
	// GuardPending means validation is still in flight: render nothing
	// (or a waiting indicator) and re-evaluate on the next snapshot.
	// Redirecting here would bounce a legitimate user whose stored
	// credential has not finished validating.
	GuardPending GuardDecision = iota
	// GuardAllow admits the navigation.
	GuardAllow
	// GuardRedirect sends the user to the public entry point.
	GuardRedirect
)

func (d GuardDecision) String() string {
	switch d {
	case GuardPending:
		return "pending"
	case GuardAllow:
		return "allow"
	case GuardRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// RequireAuth gates views that need any authenticated user. Token presence
// alone is sufficient; the identity may still be unverified.
func RequireAuth(s Session) GuardDecision {
	if s.Loading {
		return GuardPending
	}
	if s.IsAuthenticated() {
		return GuardAllow
	}
	return GuardRedirect
}

// RequireAdmin gates the admin dashboard. Unlike RequireAuth it demands a
// verified identity with the admin role; a missing credential and a
// present-but-wrong-role identity are both redirects, with no distinction
// surfaced to the caller.
func RequireAdmin(s Session) GuardDecision {
	if s.Loading {
		return GuardPending
	}
	if s.IsAdmin() {
		return GuardAllow
	}
	return GuardRedirect
}
