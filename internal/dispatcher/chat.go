package dispatcher

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"streamline/internal/command"
	"streamline/internal/models"
	"streamline/internal/protocol"
	"streamline/internal/rooms"
	"streamline/internal/session"
)

func (d *Dispatcher) cmdAFK(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeAFK)
	if derr != nil {
		return derr
	}
	ms := room.MembersOnline[sess.Username]
	ms.AFK = !ms.AFK
	ms.LastSeen = time.Now()
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: fmt.Sprintf("afk: %v", ms.AFK)})
	return nil
}

// cmdMsg implements spec.md §4.5 "/msg <user> <body>": the message body is
// the client's pre-encrypted ciphertext, carried opaquely in the Text
// field the parser captured, and rendered on the CT field of the outbound
// Frame to match the JSON chat-frame wire shape (spec.md §6).
func (d *Dispatcher) cmdMsg(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeMsg)
	if derr != nil {
		return derr
	}
	if rooms.IsMuted(room, sess.Username, time.Now()) {
		return protocol.NewError(protocol.ErrMuted, "you are muted")
	}
	if _, present := room.MembersOnline[cmd.Target]; !present {
		return protocol.NewError(protocol.ErrNotFound, "user not in this room")
	}
	if !d.checkRate(room, sess.Username) {
		sess.Send(protocol.Frame{Kind: protocol.KindRateLimited})
		return nil
	}
	frame := protocol.Frame{Kind: protocol.KindChat, From: sess.Username, To: cmd.Target, CT: cmd.Text}
	sess.Send(frame)
	if target, ok := d.sessions[cmd.Target]; ok && !target.Ignores(sess.Username) {
		target.Send(frame)
	}
	return nil
}

func (d *Dispatcher) cmdMe(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeMe)
	if derr != nil {
		return derr
	}
	if rooms.IsMuted(room, sess.Username, time.Now()) {
		return protocol.NewError(protocol.ErrMuted, "you are muted")
	}
	if !d.checkRate(room, sess.Username) {
		sess.Send(protocol.Frame{Kind: protocol.KindRateLimited})
		return nil
	}
	d.fanOut(room, protocol.Frame{Kind: protocol.KindMe, From: sess.Username, Room: room.Name, CT: cmd.Text}, sess.Username, false)
	return nil
}

// cmdAnnounce implements spec.md §4.5 "/announce": bypasses ignore lists.
// Not in the default Moderator or User permission sets (DESIGN.md
// open-question decision); those roles need it added via "/super roles
// add". Owner and Admin hold it like every other code.
func (d *Dispatcher) cmdAnnounce(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeAnnounce)
	if derr != nil {
		return derr
	}
	if rooms.IsMuted(room, sess.Username, time.Now()) {
		return protocol.NewError(protocol.ErrMuted, "you are muted")
	}
	if !d.checkRate(room, sess.Username) {
		sess.Send(protocol.Frame{Kind: protocol.KindRateLimited})
		return nil
	}
	d.fanOut(room, protocol.Frame{Kind: protocol.KindAnnounce, From: sess.Username, Room: room.Name, CT: cmd.Text}, sess.Username, true)
	return nil
}

func (d *Dispatcher) cmdSeen(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeSeen)
	if derr != nil {
		return derr
	}
	ms, ok := room.MembersOnline[cmd.Target]
	if !ok {
		return protocol.NewError(protocol.ErrNotFound, "user not in this room")
	}
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, User: cmd.Target, Text: ms.LastSeen.Format(time.RFC3339)})
	return nil
}

// cmdUserList implements "/user list", which excludes hidden members
// (spec.md §3 MemberState.hidden); "/super users" (super.go) shows
// everyone, hidden or not.
func (d *Dispatcher) cmdUserList(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeUserList)
	if derr != nil {
		return derr
	}
	var names []string
	for name, ms := range room.MembersOnline {
		if ms.Hidden {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: strings.Join(names, ", ")})
	return nil
}

func (d *Dispatcher) cmdUserRename(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeUserRename)
	if derr != nil {
		return derr
	}
	room.MembersOnline[sess.Username].Nickname = cmd.Text
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "nickname set to " + cmd.Text})
	return nil
}

func (d *Dispatcher) cmdUserRecolor(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeUserRecolor)
	if derr != nil {
		return derr
	}
	room.MembersOnline[sess.Username].Color = cmd.Hex
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "color set to #" + cmd.Hex})
	return nil
}

func (d *Dispatcher) cmdUserHide(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	room, derr := d.requireRoom(sess, models.CodeUserHide)
	if derr != nil {
		return derr
	}
	ms := room.MembersOnline[sess.Username]
	ms.Hidden = !ms.Hidden
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: fmt.Sprintf("hidden: %v", ms.Hidden)})
	return nil
}

// cmdUserWhoami has no RBAC gate: it carries no leaf code (supplemented
// feature, see SPEC_FULL.md), just a self-lookup of phase/room/username.
func (d *Dispatcher) cmdUserWhoami(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, User: sess.Username, Phase: sess.Phase.String(), Room: sess.Room})
	return nil
}

// cmdUserIgnoreList implements the supplemented "/user ignore list"
// command, recovered from original_source's ignore.rs. Unlike the
// original, the ignore set lives on the session (spec.md §3 ignore_set)
// rather than being persisted to the account, so it resets on reconnect;
// that deviation is recorded in DESIGN.md.
func (d *Dispatcher) cmdUserIgnoreList(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	if len(sess.IgnoreSet) == 0 {
		sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "you do not currently have anyone ignored"})
		return nil
	}
	names := make([]string, 0, len(sess.IgnoreSet))
	for name := range sess.IgnoreSet {
		names = append(names, name)
	}
	sort.Strings(names)
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "currently ignoring: " + strings.Join(names, ", ")})
	return nil
}

// cmdUserIgnoreAdd implements "/user ignore add <user...>": skips the
// caller's own username and anyone already ignored, per ignore.rs's
// handle_ignore_add.
func (d *Dispatcher) cmdUserIgnoreAdd(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	var added, already []string
	for _, name := range cmd.Targets {
		if name == "" || name == sess.Username {
			continue
		}
		if sess.IgnoreSet[name] {
			already = append(already, name)
			continue
		}
		sess.IgnoreSet[name] = true
		added = append(added, name)
	}
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: ignoreSummary("added", added, "already ignored", already)})
	return nil
}

// cmdUserIgnoreRemove implements "/user ignore remove <user...>", the
// counterpart to cmdUserIgnoreAdd (ignore.rs's handle_ignore_remove).
func (d *Dispatcher) cmdUserIgnoreRemove(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	var removed, missing []string
	for _, name := range cmd.Targets {
		if !sess.IgnoreSet[name] {
			missing = append(missing, name)
			continue
		}
		delete(sess.IgnoreSet, name)
		removed = append(removed, name)
	}
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: ignoreSummary("removed", removed, "not ignored", missing)})
	return nil
}

func ignoreSummary(doneLabel string, done []string, skipLabel string, skipped []string) string {
	var parts []string
	if len(done) > 0 {
		parts = append(parts, doneLabel+": "+strings.Join(done, ", "))
	}
	if len(skipped) > 0 {
		parts = append(parts, skipLabel+": "+strings.Join(skipped, ", "))
	}
	if len(parts) == 0 {
		return "no users given"
	}
	return strings.Join(parts, "; ")
}
