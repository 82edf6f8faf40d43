package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"streamline/internal/models"
)

func TestAllowedOwnerAdminAlwaysPass(t *testing.T) {
	assert.True(t, Allowed(models.RoleOwner, nil, models.CodeModKick))
	assert.True(t, Allowed(models.RoleAdmin, nil, models.CodeSuperRoles))
}

func TestAllowedHelpAlwaysPasses(t *testing.T) {
	assert.True(t, Allowed(models.RoleUser, nil, models.CodeHelp))
}

func TestAllowedLeafOrParentClosure(t *testing.T) {
	perms := map[models.Code]bool{models.CodeMod: true}
	assert.True(t, Allowed(models.RoleModerator, perms, models.CodeModKick), "holding the parent grants every leaf under it")
	assert.False(t, Allowed(models.RoleUser, perms, models.CodeModKick), "perms belong to the caller's own role set, not a different role's")

	perms2 := map[models.Code]bool{models.CodeModKick: true}
	assert.True(t, Allowed(models.RoleUser, perms2, models.CodeModKick))
	assert.False(t, Allowed(models.RoleUser, perms2, models.CodeModBan), "a granted leaf does not imply its siblings")
}

func TestRevokeLeavesOtherGrantsIntact(t *testing.T) {
	perms := map[models.Code]bool{models.CodeMod: true, models.CodeModKick: true}
	Revoke(perms, models.CodeMod)
	assert.False(t, perms[models.CodeMod])
	assert.True(t, perms[models.CodeModKick], "revoking the parent token does not touch an individually-granted leaf")
}

func TestCanAssignOwnerTransferOnlyByOwner(t *testing.T) {
	assert.Equal(t, AssignOK, CanAssign(models.RoleOwner, models.RoleOwner, false))
	assert.Equal(t, AssignDenied, CanAssign(models.RoleAdmin, models.RoleOwner, false))
}

func TestCanAssignOwnerProtectedFromDemotion(t *testing.T) {
	assert.Equal(t, AssignOwnerProtected, CanAssign(models.RoleAdmin, models.RoleAdmin, true))
}

func TestCanAssignModeratorNeverAssigns(t *testing.T) {
	assert.Equal(t, AssignDenied, CanAssign(models.RoleModerator, models.RoleUser, false))
}

func TestCanAssignAdminMayPromoteNonOwner(t *testing.T) {
	assert.Equal(t, AssignOK, CanAssign(models.RoleAdmin, models.RoleModerator, false))
}
