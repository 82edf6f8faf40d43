// Package command implements the StreamLine command grammar: tokenizing a
// line that starts with "/" into a typed Command value (spec.md §4.3). The
// parser is phase-agnostic — it only rejects malformed syntax, never an
// out-of-phase verb; phase and RBAC enforcement both happen in
// internal/dispatcher so every command has a uniform parse-error surface.
package command

import (
	"fmt"

	"streamline/internal/models"
)

// Kind tags which command was parsed and which Command fields are
// meaningful.
type Kind int

const (
	KindChat Kind = iota // not produced by Parse; internal/protocol routes non-"/" lines directly

	KindAccountRegister
	KindAccountLogin
	KindAccountEditUsername
	KindAccountEditPassword
	KindAccountDelete
	KindAccountImport
	KindAccountExport

	KindRoomCreate
	KindRoomJoin
	KindRoomDelete
	KindRoomList
	KindRoomInfo
	KindRoomImport

	KindQuit
	KindLogout
	KindAFK
	KindMsg
	KindMe
	KindSeen
	KindAnnounce
	KindPing
	KindHelp

	KindUserList
	KindUserRename
	KindUserRecolor
	KindUserHide
	KindUserWhoami
	KindUserIgnoreList
	KindUserIgnoreAdd
	KindUserIgnoreRemove

	KindModInfo
	KindModKick
	KindModBan
	KindModMute

	KindSuperUsers
	KindSuperRename
	KindSuperExport
	KindSuperWhitelist
	KindSuperLimit
	KindSuperRoles
)

// WhitelistOp enumerates /super whitelist sub-actions.
type WhitelistOp int

const (
	WhitelistEnable WhitelistOp = iota
	WhitelistDisable
	WhitelistAdd
	WhitelistRemove
)

// LimitKind enumerates /super limit sub-actions.
type LimitKind int

const (
	LimitRate LimitKind = iota
	LimitTimeout
)

// RolesOp enumerates /super roles sub-actions.
type RolesOp int

const (
	RolesAdd RolesOp = iota
	RolesRevoke
	RolesAssign
)

// Command is the parsed, typed result of a command line. Only the fields
// relevant to Kind are populated; the rest are zero.
type Command struct {
	Kind Kind

	// Generic string slots, reused across kinds.
	Target   string   // username or room name, verb-dependent
	Target2  string   // second username/room, e.g. rename old/new
	Targets  []string // multiple usernames, e.g. ignore add/remove
	Text     string // free-form tail: message body, reason, nickname
	Password string
	Confirm  string

	Room    string // explicit room argument (vs. caller's current room)
	Force   bool

	Duration    *Duration // nil means "not specified"; Permanent means '*'
	Hex         string    // validated 6-hex-digit color, no leading '#'

	Role models.Role
	Code models.Code

	WhitelistOp WhitelistOp
	LimitKind   LimitKind
	LimitValue  *int // nil means "off"

	RolesOp RolesOp
}

// ParseError carries a human-readable reason, per spec.md §4.3.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return e.Reason }

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}
