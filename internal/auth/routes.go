package auth

import (
	"strings"

	"github.com/spec-kit/nutrition-service/internal/domain"
)

// PathClass buckets an incoming path for the route guard.
type PathClass int

const (
	// PathPublic is explicitly listed as reachable without a session.
	PathPublic PathClass = iota
	// PathOpen sits outside every protected prefix (static assets, marketing).
	PathOpen
	// PathProtected requires a valid session.
	PathProtected
)

// NavItem is a single navigation entry rendered for a role.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// RouteSet describes the path space a role may reach.
type RouteSet struct {
	Dashboard string
	Settings  string
	Prefixes  []string
	Nav       []NavItem
}

var publicPaths = map[string]struct{}{
	"/":          {},
	"/login":     {},
	"/forbidden": {},
}

var protectedPrefixes = []string{"/dashboard"}

// routingTable is the single source of truth for role-scoped paths. The route
// guard enforces it and the dashboard handlers render navigation from it.
var routingTable = map[domain.Role]RouteSet{
	domain.RoleAdmin: {
		Dashboard: "/dashboard/admin",
		Settings:  "/dashboard/admin/settings",
		Prefixes:  []string{"/dashboard/admin"},
		Nav: []NavItem{
			{Label: "Overview", Path: "/dashboard/admin"},
			{Label: "Users", Path: "/dashboard/admin/users"},
			{Label: "Settings", Path: "/dashboard/admin/settings"},
		},
	},
	domain.RoleClinician: {
		Dashboard: "/dashboard/clinician",
		Settings:  "/dashboard/clinician/settings",
		Prefixes:  []string{"/dashboard/clinician"},
		Nav: []NavItem{
			{Label: "Overview", Path: "/dashboard/clinician"},
			{Label: "Patients", Path: "/dashboard/clinician/patients"},
			{Label: "Plans", Path: "/dashboard/clinician/plans"},
			{Label: "Settings", Path: "/dashboard/clinician/settings"},
		},
	},
	domain.RolePatient: {
		Dashboard: "/dashboard/patient",
		Settings:  "/dashboard/patient/settings",
		Prefixes:  []string{"/dashboard/patient"},
		Nav: []NavItem{
			{Label: "Overview", Path: "/dashboard/patient"},
			{Label: "Progress", Path: "/dashboard/patient/progress"},
			{Label: "Plan", Path: "/dashboard/patient/plan"},
			{Label: "Settings", Path: "/dashboard/patient/settings"},
		},
	},
}

// RoutesFor returns the route set for a role. Unknown roles are an explicit
// error state, never a default set.
func RoutesFor(role domain.Role) (RouteSet, bool) {
	rs, ok := routingTable[role]
	return rs, ok
}

// Classify buckets a request path.
func Classify(path string) PathClass {
	if _, ok := publicPaths[path]; ok {
		return PathPublic
	}
	for _, prefix := range protectedPrefixes {
		if matchesPrefix(path, prefix) {
			return PathProtected
		}
	}
	return PathOpen
}

// Allowed reports whether the role may reach the path. Matching is by path
// segment, so /dashboard/patient/progress/details falls under
// /dashboard/patient but /dashboard/patientx does not.
func Allowed(role domain.Role, path string) bool {
	rs, ok := routingTable[role]
	if !ok {
		return false
	}
	for _, prefix := range rs.Prefixes {
		if matchesPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
