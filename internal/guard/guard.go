// Package guard gates dashboard views on the visitor's session and role.
//
// The guard is a convenience for the browser: it decides which page a visitor
// lands on. Authorization of data is enforced by the backends it fronts.
package guard

import (
	"log"
	"net/http"

	"booking/portal/internal/models"
	"booking/portal/internal/session"
)

type Action int

const (
	ActionRender Action = iota
	ActionRedirect
)

type Decision struct {
	Action   Action
	Location string
}

// Policy describes one protected surface. Roles are matched by exact equality.
type Policy struct {
	AllowedRoles []string
	LoginPath    string
	// Fallback picks where an authenticated visitor without access goes.
	// Nil sends everyone to "/".
	Fallback func(role string) string
}

var (
	AdminTier      = []string{models.RoleAdmin, models.RoleSuperAdmin}
	SuperAdminOnly = []string{models.RoleSuperAdmin}
)

// Evaluate decides what a visitor with the given session sees.
func Evaluate(current models.Session, policy Policy) Decision {
	if !current.Authenticated {
		return Decision{Action: ActionRedirect, Location: loginPath(policy)}
	}
	if !allowed(policy.AllowedRoles, current.Role()) {
		return Decision{Action: ActionRedirect, Location: fallbackPath(policy, current.Role())}
	}
	return Decision{Action: ActionRender}
}

func allowed(roles []string, role string) bool {
	if role == "" {
		return false
	}
	for _, item := range roles {
		if item == role {
			return true
		}
	}
	return false
}

func loginPath(policy Policy) string {
	if policy.LoginPath == "" {
		return "/login"
	}
	return policy.LoginPath
}

func fallbackPath(policy Policy, role string) string {
	if policy.Fallback == nil {
		return "/"
	}
	if path := policy.Fallback(role); path != "" {
		return path
	}
	return "/"
}

// RoleFallback sends each known role to its home page and everyone else to def.
func RoleFallback(homes map[string]string, def string) func(string) string {
	return func(role string) string {
		if path, ok := homes[role]; ok {
			return path
		}
		return def
	}
}

// Guard binds a session provider to policies.
type Guard struct {
	provider session.Provider
}

func New(provider session.Provider) *Guard {
	return &Guard{provider: provider}
}

// Require wraps next so that the session is resolved and evaluated on every
// request.
func (g *Guard) Require(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := session.Resolve(r.Context(), g.provider, session.TokenFromRequest(r))
			decision := Evaluate(current, policy)
			if decision.Action == ActionRedirect {
				log.Printf("guard redirect path=%s role=%q to=%s", r.URL.Path, current.Role(), decision.Location)
				http.Redirect(w, r, decision.Location, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), current)))
		})
	}
}
