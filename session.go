package tableside

import "fmt"

// Session is the client's combined view of credential, verified identity,
// and the validation-in-flight flag. Values are snapshots: readers treat
// them as immutable for the duration of a render pass.
type Session struct {
	// Token is the opaque bearer credential, empty when unauthenticated.
	Token string
	// Identity is present if and only if the last validation of Token
	// succeeded. It may lag Token during the optimistic login window.
	Identity *Identity
	// Loading is true between a credential becoming available and the
	// validator's response (or the absence of a credential being
	// confirmed).
	Loading bool
}

// IsAuthenticated reports token presence. This is not identity-verified:
// consumers that need a verified identity must read Identity instead.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// IsVerified reports whether the backend has confirmed the credential.
func (s Session) IsVerified() bool {
	return s.Identity != nil
}

// IsAdmin reports whether the session carries a verified admin identity.
func (s Session) IsAdmin() bool {
	return s.Identity != nil && s.Identity.Role.IsAdmin()
}

func (s Session) String() string {
	user := "<none>"
	if s.Identity != nil {
		user = fmt.Sprintf("%d/%s/%s", s.Identity.ID, s.Identity.Username, s.Identity.Role)
	}
	return fmt.Sprintf("authenticated=%t identity=%s loading=%t", s.IsAuthenticated(), user, s.Loading)
}
