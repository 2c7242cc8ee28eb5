package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/nutrition-service/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want PathClass
	}{
		{"/", PathPublic},
		{"/login", PathPublic},
		{"/forbidden", PathPublic},
		{"/health/live", PathOpen},
		{"/auth/login", PathOpen},
		{"/static/logo.png", PathOpen},
		{"/dashboard", PathProtected},
		{"/dashboard/patient", PathProtected},
		{"/dashboard/admin/users", PathProtected},
		{"/dashboardx", PathOpen},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.path), "path %s", tt.path)
	}
}

func TestAllowedMatchesBySegment(t *testing.T) {
	assert.True(t, Allowed(domain.RolePatient, "/dashboard/patient"))
	assert.True(t, Allowed(domain.RolePatient, "/dashboard/patient/progress"))
	assert.True(t, Allowed(domain.RolePatient, "/dashboard/patient/progress/details"))

	// A shared prefix that is not a full segment does not match.
	assert.False(t, Allowed(domain.RolePatient, "/dashboard/patientx"))
	assert.False(t, Allowed(domain.RolePatient, "/dashboard/admin"))
	assert.False(t, Allowed(domain.RolePatient, "/dashboard"))
}

func TestAllowedUnknownRole(t *testing.T) {
	assert.False(t, Allowed(domain.Role("INTRUDER"), "/dashboard/admin"))

	_, ok := RoutesFor(domain.Role("INTRUDER"))
	assert.False(t, ok)
}

func TestRoutingTableCoversEveryRole(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleClinician, domain.RolePatient} {
		rs, ok := RoutesFor(role)
		require.True(t, ok, "role %s", role)
		assert.NotEmpty(t, rs.Dashboard)
		assert.NotEmpty(t, rs.Settings)
		assert.NotEmpty(t, rs.Prefixes)

		// The canonical destinations must sit inside the role's own prefix set.
		assert.True(t, Allowed(role, rs.Dashboard))
		assert.True(t, Allowed(role, rs.Settings))

		// Navigation entries and enforcement share the same table; every menu
		// item must be reachable by its own role.
		for _, item := range rs.Nav {
			assert.True(t, Allowed(role, item.Path), "nav %s for %s", item.Path, role)
		}
	}
}

func TestRolePrefixesAreDisjoint(t *testing.T) {
	roles := []domain.Role{domain.RoleAdmin, domain.RoleClinician, domain.RolePatient}
	for _, a := range roles {
		rsA, _ := RoutesFor(a)
		for _, b := range roles {
			if a == b {
				continue
			}
			assert.False(t, Allowed(b, rsA.Dashboard), "%s dashboard reachable by %s", a, b)
		}
	}
}
