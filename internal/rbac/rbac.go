// Package rbac resolves whether a (role, permission code) pair is allowed
// in a room, and governs role-assignment restrictions. It holds no state of
// its own: callers pass in the room's role_permissions map (spec.md §4.4).
package rbac

import "streamline/internal/models"

// Allowed implements spec.md §4.4: Owner and Admin can always act; a
// Moderator or User may act iff the leaf code itself, or the leaf's parent
// group code, appears in perms. CodeHelp is always allowed regardless of
// role — it only ever lists what RBAC already permits (see SPEC_FULL.md
// supplemented features).
func Allowed(role models.Role, perms map[models.Code]bool, code models.Code) bool {
	if code == models.CodeHelp {
		return true
	}
	switch role {
	case models.RoleOwner, models.RoleAdmin:
		return true
	case models.RoleModerator, models.RoleUser:
		if perms[code] {
			return true
		}
		if parent, ok := code.Parent(); ok && perms[parent] {
			return true
		}
		return false
	default:
		return false
	}
}

// Add implements the "add" mutation: adding a parent stores the parent
// token (implicit closure over its leaves); adding a leaf stores just that
// leaf.
func Add(perms map[models.Code]bool, code models.Code) {
	perms[code] = true
}

// Revoke implements the "revoke" mutation: revoking a parent removes the
// parent token but leaves any individually-granted leaf tokens intact;
// revoking a leaf only affects that leaf.
func Revoke(perms map[models.Code]bool, code models.Code) {
	delete(perms, code)
}

// AssignOutcome is the result of checking whether an assigner may change a
// target's role.
type AssignOutcome int

const (
	AssignOK AssignOutcome = iota
	AssignDenied
	AssignOwnerProtected
)

// CanAssign implements spec.md §4.4's assign-role restrictions:
//
//	only Owner may assign Owner (an ownership transfer);
//	Admin may assign Admin/Moderator/User to any non-Owner target;
//	Moderator may not assign at all;
//	the current Owner cannot be demoted except via transfer.
func CanAssign(assigner models.Role, newRole models.Role, targetIsOwner bool) AssignOutcome {
	if newRole == models.RoleOwner {
		if assigner == models.RoleOwner {
			return AssignOK
		}
		return AssignDenied
	}
	if targetIsOwner {
		// Changing the current Owner's role to anything but Owner is a
		// demotion; only the transfer path (assign Owner elsewhere) may
		// do that, and it goes through a different dispatcher handler.
		return AssignOwnerProtected
	}
	switch assigner {
	case models.RoleOwner, models.RoleAdmin:
		return AssignOK
	default:
		return AssignDenied
	}
}
