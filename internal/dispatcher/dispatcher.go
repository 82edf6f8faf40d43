// Package dispatcher implements the Dispatcher (spec.md §4.5): the sole
// mutator of the User Directory and Room Registry. Every inbound line from
// a connection is routed through HandleLine under a single process-wide
// lock (spec.md §5's "locked-client, single-threaded command processing"
// model), matching the switch-on-envelope-kind shape of Hillside's
// internal/hub.Hub.handleRPC, generalized from a libp2p RPC envelope to
// StreamLine's command/chat-frame split.
package dispatcher

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"streamline/internal/command"
	"streamline/internal/config"
	"streamline/internal/directory"
	"streamline/internal/models"
	"streamline/internal/persistence"
	"streamline/internal/protocol"
	"streamline/internal/ratelimit"
	"streamline/internal/rooms"
	"streamline/internal/session"
)

// Dispatcher holds the single global lock spec.md §5 describes. dir and
// rooms are mutated only while mu is held, by either a dispatched command
// or the housekeeper's Tick.
type Dispatcher struct {
	mu sync.Mutex

	dir   *directory.Directory
	rooms *rooms.Registry
	store *persistence.Store
	cfg   *config.Config
	log   *slog.Logger

	// sessions indexes every session currently at phase >= LoggedIn by
	// username, so handlers can route frames to a peer without scanning
	// the room registry.
	sessions map[string]*session.Session

	// dirty is set by a handler that mutated durable state (spec.md
	// §4.5 step 5). dispatchLocked, Disconnect and Tick read and clear it
	// while still holding mu; the snapshot itself is requested after mu
	// is released.
	dirty bool
}

func New(dir *directory.Directory, roomReg *rooms.Registry, store *persistence.Store, cfg *config.Config, log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		dir:      dir,
		rooms:    roomReg,
		store:    store,
		cfg:      cfg,
		log:      log,
		sessions: map[string]*session.Session{},
	}
}

// HandleLine is the connection handler's entry point for one inbound line:
// either a command (leading '/') or a chat frame (spec.md §4.3, §6).
func (d *Dispatcher) HandleLine(sess *session.Session, line string) {
	dirty := d.dispatchLocked(sess, line)
	if dirty {
		d.Snapshot()
	}
}

func (d *Dispatcher) dispatchLocked(sess *session.Session, line string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	sess.LastActivity = time.Now()

	if command.IsCommand(line) {
		d.handleCommand(sess, line)
	} else {
		d.handleChatFrame(sess, line)
	}

	dirty := d.dirty
	d.dirty = false
	return dirty
}

func (d *Dispatcher) handleCommand(sess *session.Session, line string) {
	cmd, err := command.Parse(line)
	if err != nil {
		sess.Send(protocol.NewError(protocol.ErrParseError, err.Error()).Frame())
		return
	}
	if derr := d.dispatch(sess, cmd); derr != nil {
		sess.Send(derr.Frame())
	}
}

func (d *Dispatcher) handleChatFrame(sess *session.Session, line string) {
	if sess.Phase != session.PhaseInRoom {
		sess.Send(protocol.NewError(protocol.ErrNotInRoom, "join a room first").Frame())
		return
	}
	cf, err := protocol.DecodeChatFrame([]byte(line))
	if err != nil {
		sess.Send(protocol.NewError(protocol.ErrParseError, "malformed chat frame").Frame())
		return
	}
	room, ok := d.rooms.Get(sess.Room)
	if !ok {
		sess.Send(protocol.NewError(protocol.ErrInternal, "room vanished").Frame())
		return
	}
	if rooms.IsMuted(room, sess.Username, time.Now()) {
		sess.Send(protocol.NewError(protocol.ErrMuted, "you are muted").Frame())
		return
	}
	if !d.checkRate(room, sess.Username) {
		sess.Send(protocol.Frame{Kind: protocol.KindRateLimited})
		return
	}
	if ms, ok := room.MembersOnline[sess.Username]; ok {
		ms.LastSeen = time.Now()
	}

	if cf.To == "*" {
		d.fanOut(room, protocol.Frame{Kind: protocol.KindChat, From: sess.Username, To: "*", CT: cf.CT}, sess.Username, false)
		return
	}

	if _, present := room.MembersOnline[cf.To]; !present {
		sess.Send(protocol.NewError(protocol.ErrNotFound, "recipient not in this room").Frame())
		return
	}
	frame := protocol.Frame{Kind: protocol.KindChat, From: sess.Username, To: cf.To, CT: cf.CT}
	sess.Send(frame)
	if target, ok := d.sessions[cf.To]; ok && !target.Ignores(sess.Username) {
		target.Send(frame)
	}
}

// dispatch routes a parsed command to its handler. Handlers perform their
// own phase/RBAC gating via requireLoggedIn/requireRoom so every command
// reports a uniform error surface regardless of where in the phase machine
// it was rejected (spec.md §4.3).
func (d *Dispatcher) dispatch(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	switch cmd.Kind {
	case command.KindHelp:
		return d.cmdHelp(sess, cmd)
	case command.KindPing:
		return d.cmdPing(sess, cmd)
	case command.KindQuit:
		return d.cmdQuit(sess, cmd)
	case command.KindLogout:
		return d.cmdLogout(sess, cmd)

	case command.KindAccountRegister:
		return d.cmdAccountRegister(sess, cmd)
	case command.KindAccountLogin:
		return d.cmdAccountLogin(sess, cmd)
	case command.KindAccountEditUsername:
		return d.cmdAccountEditUsername(sess, cmd)
	case command.KindAccountEditPassword:
		return d.cmdAccountEditPassword(sess, cmd)
	case command.KindAccountDelete:
		return d.cmdAccountDelete(sess, cmd)
	case command.KindAccountImport:
		return d.cmdAccountImport(sess, cmd)
	case command.KindAccountExport:
		return d.cmdAccountExport(sess, cmd)

	case command.KindRoomCreate:
		return d.cmdRoomCreate(sess, cmd)
	case command.KindRoomJoin:
		return d.cmdRoomJoin(sess, cmd)
	case command.KindRoomDelete:
		return d.cmdRoomDelete(sess, cmd)
	case command.KindRoomList:
		return d.cmdRoomList(sess, cmd)
	case command.KindRoomInfo:
		return d.cmdRoomInfo(sess, cmd)
	case command.KindRoomImport:
		return d.cmdRoomImport(sess, cmd)

	case command.KindAFK:
		return d.cmdAFK(sess, cmd)
	case command.KindMsg:
		return d.cmdMsg(sess, cmd)
	case command.KindMe:
		return d.cmdMe(sess, cmd)
	case command.KindSeen:
		return d.cmdSeen(sess, cmd)
	case command.KindAnnounce:
		return d.cmdAnnounce(sess, cmd)

	case command.KindUserList:
		return d.cmdUserList(sess, cmd)
	case command.KindUserRename:
		return d.cmdUserRename(sess, cmd)
	case command.KindUserRecolor:
		return d.cmdUserRecolor(sess, cmd)
	case command.KindUserHide:
		return d.cmdUserHide(sess, cmd)
	case command.KindUserWhoami:
		return d.cmdUserWhoami(sess, cmd)
	case command.KindUserIgnoreList:
		return d.cmdUserIgnoreList(sess, cmd)
	case command.KindUserIgnoreAdd:
		return d.cmdUserIgnoreAdd(sess, cmd)
	case command.KindUserIgnoreRemove:
		return d.cmdUserIgnoreRemove(sess, cmd)

	case command.KindModInfo:
		return d.cmdModInfo(sess, cmd)
	case command.KindModKick:
		return d.cmdModKick(sess, cmd)
	case command.KindModBan:
		return d.cmdModBan(sess, cmd)
	case command.KindModMute:
		return d.cmdModMute(sess, cmd)

	case command.KindSuperUsers:
		return d.cmdSuperUsers(sess, cmd)
	case command.KindSuperRename:
		return d.cmdSuperRename(sess, cmd)
	case command.KindSuperExport:
		return d.cmdSuperExport(sess, cmd)
	case command.KindSuperWhitelist:
		return d.cmdSuperWhitelist(sess, cmd)
	case command.KindSuperLimit:
		return d.cmdSuperLimit(sess, cmd)
	case command.KindSuperRoles:
		return d.cmdSuperRoles(sess, cmd)
	}
	return protocol.NewError(protocol.ErrInternal, "unhandled command")
}

func (d *Dispatcher) cmdHelp(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	lines := []string{
		"/account register|login|edit|delete|import|export ...",
		"/room create|join|delete|list|info|import ...",
		"/msg <user> <text>  /me <text>  /afk  /seen <user>  /announce <text>",
		"/user list|rename|recolor|hide|whoami",
		"/mod info|kick|ban|mute <user> ...",
		"/super users|rename|export|whitelist|limit|roles ...",
		"/ping  /quit  /logout  /help",
	}
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: strings.Join(lines, "\n")})
	return nil
}

func (d *Dispatcher) cmdPing(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	sess.Send(protocol.Frame{Kind: protocol.KindPong, Token: time.Now().UnixNano()})
	return nil
}

func (d *Dispatcher) cmdQuit(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	d.disconnectLocked(sess)
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "bye"})
	sess.Close()
	return nil
}

func (d *Dispatcher) cmdLogout(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	d.leaveRoomSilently(sess)
	delete(d.sessions, sess.Username)
	sess.Username = ""
	sess.Phase = session.PhaseGuest
	sess.Send(protocol.Frame{Kind: protocol.KindState, Phase: sess.Phase.String()})
	return nil
}

// Disconnect is called by the connection handler when a socket half-closes
// (spec.md §4.6): the session's room presence and login are torn down
// immediately rather than waiting for the housekeeper's next tick, one of
// the two options spec.md §4.7 step 3 explicitly allows.
func (d *Dispatcher) Disconnect(sess *session.Session) {
	d.mu.Lock()
	d.disconnectLocked(sess)
	dirty := d.dirty
	d.dirty = false
	d.mu.Unlock()

	sess.Close()
	if dirty {
		d.Snapshot()
	}
}

func (d *Dispatcher) disconnectLocked(sess *session.Session) {
	d.leaveRoomSilently(sess)
	if sess.Username != "" {
		delete(d.sessions, sess.Username)
	}
}

// leaveRoomSilently removes sess from its current room's membership and
// notifies other members, without sending sess itself any frame beyond the
// implicit state change — callers that need to tell sess why (kicked,
// banned, timed out, logged out) send that frame themselves.
func (d *Dispatcher) leaveRoomSilently(sess *session.Session) {
	if sess.Phase != session.PhaseInRoom {
		return
	}
	if room, ok := d.rooms.Get(sess.Room); ok {
		rooms.Leave(room, sess.Username)
		d.fanOut(room, protocol.Frame{Kind: protocol.KindMemberLeave, User: sess.Username, Room: room.Name}, sess.Username, true)
	}
	sess.Phase = session.PhaseLoggedIn
	sess.Room = ""
}

// evict removes username's MemberState, notifies the room, transitions
// their session back to LoggedIn, and tells them why (spec.md §4.5 mod
// kick/ban, §4.7 housekeeper timeout).
func (d *Dispatcher) evict(room *models.Room, username string, kind protocol.Kind, reason string, until *time.Time) {
	rooms.Leave(room, username)
	d.fanOut(room, protocol.Frame{Kind: protocol.KindMemberLeave, User: username, Room: room.Name}, username, true)
	if s, ok := d.sessions[username]; ok {
		s.Phase = session.PhaseLoggedIn
		s.Room = ""
		s.Send(protocol.Frame{Kind: kind, Room: room.Name, Reason: reason, Until: until})
	}
}

// enterRoom implements the join-side half of spec.md §4.5 "/room
// create"/"/room join": it assumes the caller has already run the
// relevant create/CheckJoin validation.
func (d *Dispatcher) enterRoom(sess *session.Session, room *models.Room) {
	rooms.Join(room, sess.Username, time.Now())
	sess.Phase = session.PhaseInRoom
	sess.Room = room.Name
	sess.Send(protocol.Frame{Kind: protocol.KindState, Phase: sess.Phase.String(), Room: room.Name})
	d.fanOut(room, protocol.Frame{Kind: protocol.KindMemberJoin, User: sess.Username, Room: room.Name}, sess.Username, true)
}

// fanOut enqueues f to every online member of room with a live session,
// skipping members ignoring from unless bypassIgnore is set (spec.md §4.5:
// /announce bypasses ignore lists; member_join/member_leave are presence
// events, not "broadcasts", so they bypass too).
func (d *Dispatcher) fanOut(room *models.Room, f protocol.Frame, from string, bypassIgnore bool) {
	for username := range room.MembersOnline {
		sess, ok := d.sessions[username]
		if !ok {
			continue
		}
		if !bypassIgnore && sess.Ignores(from) {
			continue
		}
		sess.Send(f)
	}
}

func (d *Dispatcher) checkRate(room *models.Room, username string) bool {
	ms, ok := room.MembersOnline[username]
	if !ok {
		return true
	}
	return ratelimit.Default.Allow(ms, room.RateLimit, time.Now())
}

func (d *Dispatcher) markDirty() {
	d.dirty = true
}

func (d *Dispatcher) requireLoggedIn(sess *session.Session) *protocol.DispatchError {
	if sess.Phase == session.PhaseGuest {
		return protocol.NewError(protocol.ErrNotLoggedIn, "log in first")
	}
	return nil
}

func (d *Dispatcher) requireInRoom(sess *session.Session) *protocol.DispatchError {
	if sess.Phase != session.PhaseInRoom {
		return protocol.NewError(protocol.ErrNotInRoom, "join a room first")
	}
	return nil
}

// requireRoom combines the InRoom phase check, room lookup, and RBAC gate
// (spec.md §4.5 steps 2-3) that nearly every in-room command needs.
func (d *Dispatcher) requireRoom(sess *session.Session, code models.Code) (*models.Room, *protocol.DispatchError) {
	if err := d.requireInRoom(sess); err != nil {
		return nil, err
	}
	room, ok := d.rooms.Get(sess.Room)
	if !ok {
		return nil, protocol.NewError(protocol.ErrInternal, "room vanished")
	}
	if !rooms.Allowed(room, sess.Username, code) {
		return nil, protocol.NewError(protocol.ErrPermissionDenied, "missing permission "+string(code))
	}
	return room, nil
}

// Snapshot copies both registries and hands them to the persistence layer.
// It takes no dispatcher lock of its own beyond what Directory.Snapshot and
// Registry.Snapshot briefly hold internally, matching spec.md §5's "does
// not run under the dispatcher lock" requirement.
func (d *Dispatcher) Snapshot() {
	d.store.SaveUsers(d.dir.Snapshot())
	d.store.SaveRooms(d.rooms.Snapshot())
}

// Tick runs the housekeeper's sweep (spec.md §4.7) under the global lock:
// it evicts idle members and expires past bans and mutes. It does not look
// for closed sessions; Disconnect removes those when their socket closes.
// It then snapshots unconditionally, every tick, whether or not anything
// changed.
func (d *Dispatcher) Tick(now time.Time) {
	d.mu.Lock()
	idle := d.rooms.IdleMembers(now)
	for _, m := range idle {
		if room, ok := d.rooms.Get(m.Room); ok {
			d.evict(room, m.User, protocol.KindTimeout, "", nil)
		}
	}
	d.rooms.ExpireSanctions(now)
	d.dirty = false
	d.mu.Unlock()

	d.Snapshot()
}
