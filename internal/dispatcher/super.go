package dispatcher

import (
	"sort"
	"strings"

	"streamline/internal/command"
	"streamline/internal/models"
	"streamline/internal/protocol"
	"streamline/internal/rooms"
	"streamline/internal/session"
)

// cmdSuperUsers implements "/super users": unlike "/user list" it includes
// hidden members (spec.md §3 MemberState.hidden: "excluded from /user list
// but visible to /super users").
func (d *Dispatcher) cmdSuperUsers(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeSuperUsers)
	if derr != nil {
		return derr
	}
	names := make([]string, 0, len(room.MembersOnline))
	for name := range room.MembersOnline {
		names = append(names, name)
	}
	sort.Strings(names)
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: strings.Join(names, ", ")})
	return nil
}

// cmdSuperRename implements "/super rename <old> <new>": a superuser-level
// override of an arbitrary account's username, distinct from the
// self-service "/account edit username" (spec.md §4.2).
func (d *Dispatcher) cmdSuperRename(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	_, derr := d.requireRoom(sess, models.CodeSuperRename)
	if derr != nil {
		return derr
	}
	if err := d.dir.EditUsername(cmd.Target, cmd.Target2); err != nil {
		return mapDirectoryErr(err)
	}
	d.rooms.RenameEverywhere(cmd.Target, cmd.Target2)
	if s, ok := d.sessions[cmd.Target]; ok {
		delete(d.sessions, cmd.Target)
		s.Username = cmd.Target2
		d.sessions[cmd.Target2] = s
		s.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "renamed to " + cmd.Target2})
	}
	d.markDirty()
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: cmd.Target + " renamed to " + cmd.Target2})
	return nil
}

// cmdSuperExport implements "/super export <room>" (spec.md §4.1, §6),
// writing to data/vault/rooms/<name>.json. The argument may name the
// caller's current room or any other existing room; the parser rejects
// the command when it is missing.
func (d *Dispatcher) cmdSuperExport(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeSuperExport)
	if derr != nil {
		return derr
	}
	target := room
	if cmd.Room != "" && cmd.Room != room.Name {
		r, ok := d.rooms.Get(cmd.Room)
		if !ok {
			return protocol.NewError(protocol.ErrNotFound, "no such room")
		}
		target = r
	}
	if err := d.store.ExportRoom(target); err != nil {
		d.log.Error("room export failed", "room", target.Name, "error", err)
		return protocol.NewError(protocol.ErrInternal, "export failed")
	}
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "room exported: " + target.Name})
	return nil
}

func (d *Dispatcher) cmdSuperWhitelist(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeSuperWhitelist)
	if derr != nil {
		return derr
	}
	switch cmd.WhitelistOp {
	case command.WhitelistEnable:
		rooms.WhitelistEnable(room)
	case command.WhitelistDisable:
		rooms.WhitelistDisable(room)
	case command.WhitelistAdd:
		rooms.WhitelistAdd(room, cmd.Target)
	case command.WhitelistRemove:
		rooms.WhitelistRemove(room, cmd.Target)
	}
	d.markDirty()
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "whitelist updated"})
	return nil
}

func (d *Dispatcher) cmdSuperLimit(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeSuperLimit)
	if derr != nil {
		return derr
	}
	switch cmd.LimitKind {
	case command.LimitRate:
		rooms.SetRateLimit(room, cmd.LimitValue)
	case command.LimitTimeout:
		rooms.SetSessionTimeout(room, cmd.LimitValue)
	}
	d.markDirty()
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "limit updated"})
	return nil
}

// cmdSuperRoles implements "/super roles add|revoke|assign" (spec.md
// §4.4): add/revoke mutate role_permissions; assign changes a member's
// role, including the Owner-transfer special case (rooms.AssignRole).
func (d *Dispatcher) cmdSuperRoles(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeSuperRoles)
	if derr != nil {
		return derr
	}
	switch cmd.RolesOp {
	case command.RolesAdd:
		rooms.AddPermission(room, cmd.Role, cmd.Code)
	case command.RolesRevoke:
		rooms.RevokePermission(room, cmd.Role, cmd.Code)
	case command.RolesAssign:
		wasOwner := sess.Username == room.Owner
		if err := rooms.AssignRole(room, sess.Username, cmd.Target, cmd.Role); err != nil {
			return mapRoomsErr(err)
		}
		if cmd.Role == models.RoleOwner && wasOwner {
			if s, ok := d.sessions[cmd.Target]; ok {
				s.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "you are now the room owner"})
			}
			sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "ownership transferred to " + cmd.Target})
		}
	}
	d.markDirty()
	if cmd.RolesOp != command.RolesAssign {
		sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "roles updated"})
	}
	return nil
}
