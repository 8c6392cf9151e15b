package domain

import "errors"

// Role identifies which panel namespace a principal may enter.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTherapist Role = "therapist"
	RoleClient    Role = "client"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseRole converts a raw claim value into a Role. Anything outside the
// three known roles is rejected so the gateway never reasons about a role
// it does not know.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTherapist, RoleClient:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// PanelRoot returns the panel namespace a role is redirected to when it
// requests a panel it may not enter.
func (r Role) PanelRoot() string {
	switch r {
	case RoleAdmin:
		return "/panel/admin"
	case RoleTherapist:
		return "/panel/therapist"
	case RoleClient:
		return "/panel/client"
	}
	return "/"
}
