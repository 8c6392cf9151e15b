package policy

import (
	"testing"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
)

func session(role domain.Role) *domain.Session {
	return &domain.Session{Subject: "u1", Email: "u1@example.com", Role: role}
}

func TestAuthorize_UnprotectedPath(t *testing.T) {
	table := Default()

	for _, path := range []string{"/", "/about", "/auth/signin", "/paneling"} {
		d := table.Authorize(path, nil)
		if !d.Allow {
			t.Fatalf("expected allow for %s, got redirect to %s", path, d.Location)
		}
	}
}

func TestAuthorize_NoSessionRedirectsToSignIn(t *testing.T) {
	table := Default()

	d := table.Authorize("/panel/admin", nil)
	if d.Allow {
		t.Fatalf("expected redirect, got allow")
	}
	if d.Location != "/auth/signin?next=%2Fpanel%2Fadmin" {
		t.Fatalf("unexpected redirect location: %s", d.Location)
	}
}

func TestAuthorize_MatchingRoleAllowed(t *testing.T) {
	table := Default()

	cases := []struct {
		path string
		role domain.Role
	}{
		{"/panel/admin", domain.RoleAdmin},
		{"/panel/admin/therapists", domain.RoleAdmin},
		{"/panel/therapist", domain.RoleTherapist},
		{"/panel/client", domain.RoleClient},
	}
	for _, tc := range cases {
		d := table.Authorize(tc.path, session(tc.role))
		if !d.Allow {
			t.Fatalf("%s as %s: expected allow, got redirect to %s", tc.path, tc.role, d.Location)
		}
	}
}

func TestAuthorize_WrongRoleRedirectsToOwnRoot(t *testing.T) {
	table := Default()

	d := table.Authorize("/panel/admin", session(domain.RoleClient))
	if d.Allow {
		t.Fatalf("expected redirect, got allow")
	}
	if d.Location != "/panel/client" {
		t.Fatalf("expected redirect to /panel/client, got %s", d.Location)
	}

	d = table.Authorize("/panel/client/bookings", session(domain.RoleTherapist))
	if d.Allow || d.Location != "/panel/therapist" {
		t.Fatalf("expected redirect to /panel/therapist, got allow=%v loc=%s", d.Allow, d.Location)
	}
}

func TestAuthorize_PanelRootAdmitsAnyAuthenticated(t *testing.T) {
	table := Default()

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleTherapist, domain.RoleClient} {
		d := table.Authorize("/panel", session(role))
		if !d.Allow {
			t.Fatalf("role %s: expected allow on /panel, got redirect to %s", role, d.Location)
		}
	}
}

func TestAuthorize_UncoveredProtectedPrefixFailsClosed(t *testing.T) {
	table := NewTable("/panel", []Rule{
		{Prefix: "/panel/admin", Require: domain.RoleAdmin},
	})

	d := table.Authorize("/panel/reports", session(domain.RoleAdmin))
	if d.Allow {
		t.Fatalf("expected deny for uncovered protected prefix")
	}
	if d.Location != "/" {
		t.Fatalf("expected redirect to /, got %s", d.Location)
	}
}

func TestAuthorize_PrefixMatchesWholeSegments(t *testing.T) {
	table := Default()

	// /panel/adminx is under /panel but not under /panel/admin: the /panel
	// any-authenticated rule governs, so a client session is admitted.
	d := table.Authorize("/panel/adminx", session(domain.RoleClient))
	if !d.Allow {
		t.Fatalf("expected /panel rule to govern, got redirect to %s", d.Location)
	}
}

// The gateway and the page guard both call Authorize, so their decisions are
// identical by construction. This pins determinism across repeated calls and
// every (path, session) pair the panels use.
func TestAuthorize_Deterministic(t *testing.T) {
	table := Default()

	paths := []string{"/", "/panel", "/panel/admin", "/panel/therapist", "/panel/client", "/panel/admin/settings"}
	sessions := []*domain.Session{nil, session(domain.RoleAdmin), session(domain.RoleTherapist), session(domain.RoleClient)}

	for _, p := range paths {
		for _, s := range sessions {
			first := table.Authorize(p, s)
			for i := 0; i < 3; i++ {
				if got := table.Authorize(p, s); got != first {
					t.Fatalf("non-deterministic decision for %s: %+v vs %+v", p, first, got)
				}
			}
		}
	}
}
