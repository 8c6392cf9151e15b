// Package policy is the single source of truth for which role may enter
// which URL namespace. Both the gateway middleware and the per-page guard
// call Authorize, so the two enforcement points cannot drift apart.
package policy

import (
	"net/url"
	"strings"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

// SignInPath is where unauthenticated requests to protected paths are sent.
const SignInPath = "/auth/signin"

// RoleAny marks a rule that admits any authenticated session regardless of role.
const RoleAny domain.Role = "*"

// Rule binds a path prefix to the role required to enter it.
type Rule struct {
	Prefix  string
	Require domain.Role
}

// Decision is the outcome of an authorization check: either the request may
// proceed, or it must be redirected to Location.
type Decision struct {
	Allow    bool
	Location string
}

func allow() Decision              { return Decision{Allow: true} }
func redirect(loc string) Decision { return Decision{Location: loc} }

// Table is an ordered set of namespace rules plus the namespace root they
// all live under. Lookups use longest-prefix match; a protected path with no
// matching rule is denied, never allowed.
type Table struct {
	root  string
	rules []Rule
}

// NewTable builds a Table. root is the protected namespace prefix (e.g.
// "/panel"); every rule prefix must live under it.
func NewTable(root string, rules []Rule) *Table {
	return &Table{root: root, rules: rules}
}

// Default returns the clinic's namespace policy.
func Default() *Table {
	return NewTable("/panel", []Rule{
		{Prefix: "/panel/admin", Require: domain.RoleAdmin},
		{Prefix: "/panel/therapist", Require: domain.RoleTherapist},
		{Prefix: "/panel/client", Require: domain.RoleClient},
		{Prefix: "/panel", Require: RoleAny},
	})
}

// Protected reports whether path falls under the protected namespace.
func (t *Table) Protected(path string) bool {
	return hasPrefix(path, t.root)
}

// Authorize decides whether a session may enter path.
//
//   - Unprotected paths are always allowed, session or not.
//   - A protected path with no (or an undecodable) session redirects to
//     sign-in, carrying the original path so the flow can resume.
//   - A role mismatch redirects to the session's own panel root rather than
//     an error page, so the response discloses nothing about the namespace
//     that was refused.
//   - A protected path not covered by any rule is denied (fail-closed).
//
// Authorize never mutates anything and is safe for concurrent use.
func (t *Table) Authorize(path string, sess *domain.Session) Decision {
	if !t.Protected(path) {
		return allow()
	}

	if sess == nil {
		return redirect(SignInPath + "?next=" + url.QueryEscape(path))
	}

	rule, ok := t.match(path)
	if !ok {
		return redirect("/")
	}

	if rule.Require == RoleAny || rule.Require == sess.Role {
		return allow()
	}
	return redirect(sess.Role.PanelRoot())
}

// match returns the longest-prefix rule covering path.
func (t *Table) match(path string) (Rule, bool) {
	best := -1
	for i, r := range t.rules {
		if !hasPrefix(path, r.Prefix) {
			continue
		}
		if best == -1 || len(r.Prefix) > len(t.rules[best].Prefix) {
			best = i
		}
	}
	if best == -1 {
		return Rule{}, false
	}
	return t.rules[best], true
}

// hasPrefix matches whole path segments: "/panel/adminx" is not under "/panel/admin".
func hasPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
