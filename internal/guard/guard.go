// Package guard decides whether the signed-in operator may enter a protected
// area. The decision is pure: it reads session state and performs no I/O.
package guard

import (
	"fmt"
	"strings"

	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/internal/session"
	"github.com/Helvino-Technologies-Limited/hospitalmanager-sub000/pkg/hms"
)

// Redirect targets.
const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

// Outcome is the result of a guard check.
type Outcome int

const (
	// Allow renders the protected content.
	Allow Outcome = iota
	// RedirectLogin sends an unauthenticated operator to sign in.
	RedirectLogin
	// RedirectLanding sends an operator whose role is not permitted to the
	// default authenticated page.
	RedirectLanding
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectLanding:
		return "redirect-landing"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision is the outcome of a check plus where to go when not allowed.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Allowed reports whether the protected content may be rendered.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Check evaluates st against the required roles. With no roles any
// authenticated session passes; an unauthenticated session is always sent
// to the login entry point, whatever the roles.
func Check(st session.State, roles ...hms.Role) Decision {
	if !st.Authenticated() {
		return Decision{Outcome: RedirectLogin, Target: LoginPath}
	}
	if len(roles) == 0 {
		return Decision{Outcome: Allow}
	}
	for _, r := range roles {
		if st.Role == r {
			return Decision{Outcome: Allow}
		}
	}
	return Decision{Outcome: RedirectLanding, Target: LandingPath}
}

// DeniedError is returned by Require when a decision is not Allow.
type DeniedError struct {
	Decision Decision
	Role     hms.Role
	Roles    []hms.Role
}

func (e *DeniedError) Error() string {
	switch e.Decision.Outcome {
	case RedirectLogin:
		return "not signed in: run `hmsctl login` first"
	case RedirectLanding:
		names := make([]string, len(e.Roles))
		for i, r := range e.Roles {
			names[i] = string(r)
		}
		return fmt.Sprintf("role %s may not use this command (requires one of %s); see `hmsctl dashboard`",
			e.Role, strings.Join(names, ", "))
	default:
		return "access denied"
	}
}

// Require returns nil when st may proceed and a *DeniedError otherwise.
func Require(st session.State, roles ...hms.Role) error {
	d := Check(st, roles...)
	if d.Allowed() {
		return nil
	}
	return &DeniedError{Decision: d, Role: st.Role, Roles: roles}
}

// Role sets used by protected command groups.
var (
	// Admins manage staff accounts.
	Admins = []hms.Role{hms.RoleSuperAdmin, hms.RoleHospitalAdmin}
	// Clinicians have a personal patient queue.
	Clinicians = []hms.Role{hms.RoleDoctor, hms.RoleNurse}
	// Finance may read financial and patient reports.
	Finance = []hms.Role{hms.RoleSuperAdmin, hms.RoleHospitalAdmin, hms.RoleAccountant}
)
