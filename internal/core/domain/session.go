package domain

import "time"

// Session is the decoded identity carried by a signed token. It is immutable
// once issued; a role change requires re-issuing the token.
type Session struct {
	Subject   string
	Email     string
	Role      Role
	// TherapistID is the therapist record linked to a therapist-role session.
	TherapistID string
	TokenID     string
	ExpiresAt   time.Time
}
