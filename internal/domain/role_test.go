package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole_CaseInsensitive(t *testing.T) {
	for _, s := range []string{"seller", "Seller", "SELLER", " seller "} {
		role, err := ParseRole(s)
		require.NoError(t, err, "input %q", s)
		assert.Equal(t, RoleSeller, role)
	}
}

func TestParseRole_AllValid(t *testing.T) {
	for _, r := range ValidRoles() {
		parsed, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
}

func TestParseRole_UnknownRejected(t *testing.T) {
	for _, s := range []string{"", "admin", "root", "Seller2", "super admin"} {
		_, err := ParseRole(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestRoleIsAdmin(t *testing.T) {
	assert.True(t, RoleSuperAdmin.IsAdmin())
	assert.True(t, RoleContentAdmin.IsAdmin())
	assert.True(t, RoleDeliveryAdmin.IsAdmin())
	assert.False(t, RoleSeller.IsAdmin())
	assert.False(t, RoleCustomer.IsAdmin())
}
