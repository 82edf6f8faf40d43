package models

import "strings"

// Code is an RBAC permission token. Some codes are leaves with a parent
// ("mod.kick" has parent "mod"); some are bare top-level leaves with no
// parent ("afk"); the three group codes ("user", "mod", "super") are
// parents themselves and, held directly, grant every leaf beneath them.
type Code string

const (
	CodeAFK      Code = "afk"
	CodeMsg      Code = "msg"
	CodeMe       Code = "me"
	CodeSeen     Code = "seen"
	CodeAnnounce Code = "announce"
	CodeHelp     Code = "help"

	CodeUser         Code = "user"
	CodeUserList     Code = "user.list"
	CodeUserRename   Code = "user.rename"
	CodeUserRecolor  Code = "user.recolor"
	CodeUserHide     Code = "user.hide"

	CodeMod      Code = "mod"
	CodeModInfo  Code = "mod.info"
	CodeModKick  Code = "mod.kick"
	CodeModBan   Code = "mod.ban"
	CodeModMute  Code = "mod.mute"

	CodeSuper          Code = "super"
	CodeSuperUsers     Code = "super.users"
	CodeSuperRename    Code = "super.rename"
	CodeSuperExport    Code = "super.export"
	CodeSuperWhitelist Code = "super.whitelist"
	CodeSuperLimit     Code = "super.limit"
	CodeSuperRoles     Code = "super.roles"
)

// AllLeafCodes enumerates every leaf permission understood by the RBAC
// engine. CodeHelp is deliberately excluded: it is always allowed and is
// never stored in role_permissions (see internal/rbac).
var AllLeafCodes = []Code{
	CodeAFK, CodeMsg, CodeMe, CodeSeen, CodeAnnounce,
	CodeUserList, CodeUserRename, CodeUserRecolor, CodeUserHide,
	CodeModInfo, CodeModKick, CodeModBan, CodeModMute,
	CodeSuperUsers, CodeSuperRename, CodeSuperExport, CodeSuperWhitelist, CodeSuperLimit, CodeSuperRoles,
}

// GroupCodes enumerates the three parent tokens that can be added/revoked
// as a closure over their leaves.
var GroupCodes = []Code{CodeUser, CodeMod, CodeSuper}

// Parent returns the group code c belongs to and true, or "" and false if
// c is a bare leaf or already a group code.
func (c Code) Parent() (Code, bool) {
	i := strings.IndexByte(string(c), '.')
	if i < 0 {
		return "", false
	}
	return Code(c[:i]), true
}

// IsGroup reports whether c is one of the three parent tokens.
func (c Code) IsGroup() bool {
	switch c {
	case CodeUser, CodeMod, CodeSuper:
		return true
	}
	return false
}

// KnownCode reports whether c is a leaf or group code the RBAC engine
// recognizes (used to validate /super roles add|revoke arguments).
func KnownCode(c Code) bool {
	if c.IsGroup() {
		return true
	}
	for _, l := range AllLeafCodes {
		if l == c {
			return true
		}
	}
	return false
}

// DefaultPermissions returns the built-in permission set for Moderator and
// User per spec.md §3 invariant 5: User = {afk, msg, me, seen, user};
// Moderator = User ∪ {mod, super.users}.
func DefaultPermissions() map[Role]map[Code]bool {
	userSet := map[Code]bool{
		CodeAFK:  true,
		CodeMsg:  true,
		CodeMe:   true,
		CodeSeen: true,
		CodeUser: true,
	}
	modSet := map[Code]bool{}
	for k := range userSet {
		modSet[k] = true
	}
	modSet[CodeMod] = true
	modSet[CodeSuperUsers] = true

	return map[Role]map[Code]bool{
		RoleUser:      userSet,
		RoleModerator: modSet,
	}
}
