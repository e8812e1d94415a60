package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleAdmin.Can(PermManageUsers))
	assert.True(t, RoleAdmin.Can(PermManageItems))
	assert.True(t, RoleAdmin.Can(PermCancelBill))

	assert.True(t, RoleStaff.Can(PermCreateBill))
	assert.True(t, RoleStaff.Can(PermManageCustomers))
	assert.False(t, RoleStaff.Can(PermManageUsers))
	assert.False(t, RoleStaff.Can(PermManageItems))
	assert.False(t, RoleStaff.Can(PermViewReports))

	assert.False(t, Role("ghost").Can(PermCreateBill), "unknown roles hold nothing")
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleStaff.Valid())
	assert.False(t, Role("manager").Valid())
}
