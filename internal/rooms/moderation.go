package rooms

import (
	"streamline/internal/models"
	"streamline/internal/rbac"
	"streamline/internal/utils"
)

var (
	ErrOwnerProtected = utils.New("owner role cannot be changed this way")
	ErrAssignDenied   = utils.New("insufficient role to assign that role")
	ErrNotOwner       = utils.New("only the owner may do that")
	ErrTargetNotMember = utils.New("target is not a current member")
)

// AssignRole implements spec.md §4.4's assign-role restrictions via
// internal/rbac.CanAssign, plus the special-cased ownership transfer
// (assigning Owner demotes the previous Owner to Admin, spec.md §3 Room
// invariant: "Assigning Owner to another user demotes the previous Owner
// to Admin").
func AssignRole(room *models.Room, assigner, target string, newRole models.Role) error {
	assignerRole := RoleOf(room, assigner)
	targetIsOwner := target == room.Owner

	switch rbac.CanAssign(assignerRole, newRole, targetIsOwner) {
	case rbac.AssignOwnerProtected:
		return ErrOwnerProtected
	case rbac.AssignDenied:
		return ErrAssignDenied
	}

	if newRole == models.RoleOwner {
		if _, isMember := room.MembersOnline[target]; !isMember {
			return ErrTargetNotMember
		}
		room.Roles[room.Owner] = models.RoleAdmin
		room.Owner = target
	}
	room.Roles[target] = newRole
	return nil
}

// AddPermission / RevokePermission implement spec.md §4.4's add/revoke
// mutations for a room's role_permissions table.
func AddPermission(room *models.Room, role models.Role, code models.Code) {
	if room.RolePermissions[role] == nil {
		room.RolePermissions[role] = map[models.Code]bool{}
	}
	rbac.Add(room.RolePermissions[role], code)
}

func RevokePermission(room *models.Room, role models.Role, code models.Code) {
	if room.RolePermissions[role] == nil {
		return
	}
	rbac.Revoke(room.RolePermissions[role], code)
}

// Allowed resolves whether username may invoke code in room.
func Allowed(room *models.Room, username string, code models.Code) bool {
	role := RoleOf(room, username)
	return rbac.Allowed(role, room.RolePermissions[role], code)
}

// SetRateLimit / SetSessionTimeout implement "/super limit" (spec.md §4.5,
// §3). A nil value disables the corresponding check.
func SetRateLimit(room *models.Room, perFiveSeconds *int) {
	room.RateLimit = perFiveSeconds
}

func SetSessionTimeout(room *models.Room, seconds *int) {
	room.SessionTimeout = seconds
}

// WhitelistEnable / WhitelistDisable / WhitelistAdd / WhitelistRemove
// implement "/super whitelist" (spec.md §3).
func WhitelistEnable(room *models.Room)  { room.Whitelist.Enabled = true }
func WhitelistDisable(room *models.Room) { room.Whitelist.Enabled = false }

func WhitelistAdd(room *models.Room, username string) {
	if room.Whitelist.Members == nil {
		room.Whitelist.Members = map[string]bool{}
	}
	room.Whitelist.Members[username] = true
}

func WhitelistRemove(room *models.Room, username string) {
	delete(room.Whitelist.Members, username)
}
