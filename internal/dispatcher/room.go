package dispatcher

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"streamline/internal/command"
	"streamline/internal/protocol"
	"streamline/internal/rooms"
	"streamline/internal/session"
)

// cmdRoomCreate implements spec.md §3 Room creation: the caller becomes
// sole Owner. A fresh room picks up the server's configured default rate
// limit and session timeout unless they are zero (disabled).
func (d *Dispatcher) cmdRoomCreate(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	if sess.Phase == session.PhaseInRoom {
		return protocol.NewError(protocol.ErrAlreadyInRoom, "leave your current room first")
	}
	room, err := d.rooms.Create(cmd.Room, sess.Username)
	if err != nil {
		return mapRoomsErr(err)
	}
	if d.cfg != nil {
		if d.cfg.DefaultRateLimit > 0 {
			n := d.cfg.DefaultRateLimit
			rooms.SetRateLimit(room, &n)
		}
		if d.cfg.DefaultSessionTimeout > 0 {
			n := d.cfg.DefaultSessionTimeout
			rooms.SetSessionTimeout(room, &n)
		}
	}
	d.enterRoom(sess, room)
	d.markDirty()
	return nil
}

// cmdRoomJoin implements spec.md §4.5 join-time checks: ban then whitelist
// (invariants 3 and the Owner-always-whitelisted open-question decision).
// MembersOnline is excluded from the persisted room shape (spec.md §6),
// but a first-time joiner is also given a stored User role, so the join
// marks the persisted state dirty.
func (d *Dispatcher) cmdRoomJoin(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	if sess.Phase == session.PhaseInRoom {
		return protocol.NewError(protocol.ErrAlreadyInRoom, "leave your current room first")
	}
	room, ok := d.rooms.Get(cmd.Room)
	if !ok {
		return protocol.NewError(protocol.ErrNotFound, "no such room")
	}
	if err := rooms.CheckJoin(room, sess.Username, time.Now()); err != nil {
		return mapRoomsErr(err)
	}
	d.enterRoom(sess, room)
	d.markDirty()
	return nil
}

// cmdRoomDelete implements the Open Question resolution recorded in
// DESIGN.md: room defaults to the caller's current room when omitted, and
// "force" may appear in either position. Owner-only; refuses if any other
// member is present unless force is set (spec.md §4.5).
func (d *Dispatcher) cmdRoomDelete(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	name := cmd.Room
	if name == "" {
		if sess.Phase != session.PhaseInRoom {
			return protocol.NewError(protocol.ErrNotInRoom, "no room specified and not currently in one")
		}
		name = sess.Room
	}
	room, ok := d.rooms.Get(name)
	if !ok {
		return protocol.NewError(protocol.ErrNotFound, "no such room")
	}
	if room.Owner != sess.Username {
		return protocol.NewError(protocol.ErrNotOwner, "only the owner may delete this room")
	}

	var others []string
	for u := range room.MembersOnline {
		if u != sess.Username {
			others = append(others, u)
		}
	}
	if len(others) > 0 && !cmd.Force {
		return protocol.NewError(protocol.ErrInvalidArgument, "other members are present; use force")
	}

	d.rooms.Delete(name)
	for _, u := range others {
		if s, ok := d.sessions[u]; ok {
			s.Phase = session.PhaseLoggedIn
			s.Room = ""
			s.Send(protocol.Frame{Kind: protocol.KindSystem, Room: name, Text: "room deleted by owner"})
		}
	}
	if sess.Room == name {
		sess.Phase = session.PhaseLoggedIn
		sess.Room = ""
		sess.Send(protocol.Frame{Kind: protocol.KindState, Phase: sess.Phase.String()})
	}
	d.markDirty()
	return nil
}

func (d *Dispatcher) cmdRoomList(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	rs := d.rooms.List()
	names := make([]string, 0, len(rs))
	for _, r := range rs {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: strings.Join(names, ", ")})
	return nil
}

func (d *Dispatcher) cmdRoomInfo(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	name := cmd.Room
	if name == "" {
		if sess.Phase != session.PhaseInRoom {
			return protocol.NewError(protocol.ErrInvalidArgument, "usage: /room info <room>")
		}
		name = sess.Room
	}
	room, ok := d.rooms.Get(name)
	if !ok {
		return protocol.NewError(protocol.ErrNotFound, "no such room")
	}
	sess.Send(protocol.Frame{
		Kind: protocol.KindSystem,
		Room: name,
		User: room.Owner,
		Text: fmt.Sprintf("owner=%s members=%d whitelist=%v rate_limit=%s session_timeout=%s",
			room.Owner, len(room.MembersOnline), room.Whitelist.Enabled, intPtrOrOff(room.RateLimit), intPtrOrOff(room.SessionTimeout)),
	})
	return nil
}

// cmdRoomImport implements spec.md §4.1's "/room import": load a
// previously-exported room from data/vault/rooms/<name>.json, failing
// AlreadyExists if a live room of that name already exists.
func (d *Dispatcher) cmdRoomImport(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	room, err := d.store.ImportRoom(cmd.Target)
	if err != nil {
		return protocol.NewError(protocol.ErrNotFound, "no such vault room")
	}
	if err := d.rooms.Import(room); err != nil {
		return mapRoomsErr(err)
	}
	d.markDirty()
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "room imported: " + room.Name})
	return nil
}

func intPtrOrOff(n *int) string {
	if n == nil {
		return "off"
	}
	return fmt.Sprintf("%d", *n)
}
