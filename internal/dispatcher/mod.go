package dispatcher

import (
	"fmt"
	"time"

	"streamline/internal/command"
	"streamline/internal/models"
	"streamline/internal/protocol"
	"streamline/internal/rooms"
	"streamline/internal/session"
)

// cmdModInfo is a supplemented feature (SPEC_FULL.md): reports a member's
// role, presence, and sanction state, gating the mod.info leaf code.
func (d *Dispatcher) cmdModInfo(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeModInfo)
	if derr != nil {
		return derr
	}
	role := rooms.RoleOf(room, cmd.Target)
	ms, present := room.MembersOnline[cmd.Target]
	text := fmt.Sprintf("role=%s present=%v", role, present)
	if present {
		text += fmt.Sprintf(" afk=%v last_seen=%s", ms.AFK, ms.LastSeen.Format(time.RFC3339))
	}
	now := time.Now()
	if ban, ok := room.Bans[cmd.Target]; ok && ban.Active(now) {
		text += " banned=true"
		if ban.Until != nil {
			text += " ban_until=" + ban.Until.Format(time.RFC3339)
		} else {
			text += " ban_until=permanent"
		}
	}
	if mute, ok := room.Mutes[cmd.Target]; ok && mute.Active(now) {
		text += " muted=true"
		if mute.Until != nil {
			text += " mute_until=" + mute.Until.Format(time.RFC3339)
		} else {
			text += " mute_until=permanent"
		}
	}
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, User: cmd.Target, Text: text})
	return nil
}

// cmdModKick implements spec.md §4.5 "/mod kick": not applicable to
// Owner; Admins may not kick Admins/Owner; Moderators may not kick
// Admins/Moderators/Owner.
func (d *Dispatcher) cmdModKick(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeModKick)
	if derr != nil {
		return derr
	}
	if cmd.Target == room.Owner {
		return protocol.NewError(protocol.ErrOwnerProtected, "cannot kick the owner")
	}
	if !canModerate(rooms.RoleOf(room, sess.Username), rooms.RoleOf(room, cmd.Target)) {
		return protocol.NewError(protocol.ErrPermissionDenied, "insufficient role to kick this user")
	}
	if _, present := room.MembersOnline[cmd.Target]; !present {
		return protocol.NewError(protocol.ErrNotFound, "user not in this room")
	}
	d.evict(room, cmd.Target, protocol.KindKicked, cmd.Text, nil)
	return nil
}

// cmdModBan implements spec.md §4.5 "/mod ban": kick (if present) plus an
// entry in bans with the computed until.
func (d *Dispatcher) cmdModBan(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeModBan)
	if derr != nil {
		return derr
	}
	if cmd.Target == room.Owner {
		return protocol.NewError(protocol.ErrOwnerProtected, "cannot ban the owner")
	}
	if !canModerate(rooms.RoleOf(room, sess.Username), rooms.RoleOf(room, cmd.Target)) {
		return protocol.NewError(protocol.ErrPermissionDenied, "insufficient role to ban this user")
	}
	until := cmd.Duration.Until(time.Now())
	rooms.Ban(room, cmd.Target, until, cmd.Text, sess.Username)
	if _, present := room.MembersOnline[cmd.Target]; present {
		d.evict(room, cmd.Target, protocol.KindBanned, cmd.Text, until)
	} else if s, ok := d.sessions[cmd.Target]; ok {
		s.Send(protocol.Frame{Kind: protocol.KindBanned, Room: room.Name, Reason: cmd.Text, Until: until})
	}
	d.markDirty()
	return nil
}

// cmdModMute implements spec.md §4.5 "/mod mute": muted users keep their
// MemberState but their chat/me/msg/announce is rejected with Muted.
func (d *Dispatcher) cmdModMute(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeModMute)
	if derr != nil {
		return derr
	}
	if cmd.Target == room.Owner {
		return protocol.NewError(protocol.ErrOwnerProtected, "cannot mute the owner")
	}
	if !canModerate(rooms.RoleOf(room, sess.Username), rooms.RoleOf(room, cmd.Target)) {
		return protocol.NewError(protocol.ErrPermissionDenied, "insufficient role to mute this user")
	}
	until := cmd.Duration.Until(time.Now())
	rooms.Mute(room, cmd.Target, until, cmd.Text, sess.Username)
	if s, ok := d.sessions[cmd.Target]; ok {
		s.Send(protocol.Frame{Kind: protocol.KindMuted, Room: room.Name, Reason: cmd.Text, Until: until})
	}
	d.markDirty()
	return nil
}
