package dispatcher

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamline/internal/command"
	"streamline/internal/config"
	"streamline/internal/directory"
	"streamline/internal/models"
	"streamline/internal/persistence"
	"streamline/internal/protocol"
	"streamline/internal/rooms"
	"streamline/internal/session"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := persistence.Open(t.TempDir(), log)
	t.Cleanup(store.Close)
	return New(directory.New(), rooms.New(), store, config.Default(), log)
}

// loginAndJoin registers username, drives its session to PhaseInRoom in
// room, and returns the session. The owner of a fresh room is whatever
// username creates it first.
func loginAndJoin(t *testing.T, d *Dispatcher, username, room string, create bool) *session.Session {
	sess := session.New("test:" + username)
	d.HandleLine(sess, "/account register "+username+" pw pw")
	require.Equal(t, session.PhaseLoggedIn, sess.Phase)

	if create {
		d.HandleLine(sess, "/room create "+room)
	} else {
		d.HandleLine(sess, "/room join "+room)
	}
	require.Equal(t, session.PhaseInRoom, sess.Phase)
	return sess
}

func drain(sess *session.Session) []protocol.Frame {
	var out []protocol.Frame
	for {
		select {
		case f := <-sess.Outbound():
			out = append(out, f)
		default:
			return out
		}
	}
}

func TestHandleLineRegisterThenCreateRoomMarksOwner(t *testing.T) {
	d := newTestDispatcher(t)
	sess := loginAndJoin(t, d, "alice", "lobby", true)

	room, ok := d.rooms.Get("lobby")
	require.True(t, ok)
	assert.Equal(t, models.RoleOwner, room.Roles["alice"])
	assert.Equal(t, "alice", sess.Username)
}

func TestModBanPreventsRejoinAndModInfoReportsIt(t *testing.T) {
	d := newTestDispatcher(t)
	owner := loginAndJoin(t, d, "alice", "lobby", true)
	bob := loginAndJoin(t, d, "bob", "lobby", false)
	drain(owner)
	drain(bob)

	d.HandleLine(owner, "/mod ban bob * spamming")
	ownerFrames := drain(owner)
	require.NotEmpty(t, ownerFrames)
	assert.Equal(t, protocol.KindMemberLeave, ownerFrames[len(ownerFrames)-1].Kind)

	bobFrames := drain(bob)
	require.NotEmpty(t, bobFrames)
	assert.Equal(t, protocol.KindBanned, bobFrames[len(bobFrames)-1].Kind)
	assert.Equal(t, session.PhaseLoggedIn, bob.Phase, "a ban evicts the target back out of the room")

	rejoin := session.New("test:bob")
	rejoin.Phase = session.PhaseLoggedIn
	rejoin.Username = "bob"
	d.HandleLine(rejoin, "/room join lobby")
	errFrames := drain(rejoin)
	require.NotEmpty(t, errFrames)
	assert.Equal(t, protocol.ErrBanned, errFrames[0].Code)

	d.HandleLine(owner, "/mod info bob")
	infoFrames := drain(owner)
	require.NotEmpty(t, infoFrames)
	assert.Contains(t, infoFrames[0].Text, "banned=true")
}

func TestModInfoDeniedWithoutPermission(t *testing.T) {
	d := newTestDispatcher(t)
	_ = loginAndJoin(t, d, "alice", "lobby", true)
	bob := loginAndJoin(t, d, "bob", "lobby", false)
	drain(bob)

	d.HandleLine(bob, "/mod info alice")
	frames := drain(bob)
	require.NotEmpty(t, frames)
	assert.Equal(t, protocol.ErrPermissionDenied, frames[0].Code, "plain users don't carry mod.info by default")
}

func TestCmdUserIgnoreAddThenListThenRemove(t *testing.T) {
	d := newTestDispatcher(t)
	sess := loginAndJoin(t, d, "alice", "lobby", true)
	drain(sess)

	cmd, err := command.Parse("/user ignore add bob carol")
	require.NoError(t, err)
	derr := d.dispatch(sess, cmd)
	assert.Nil(t, derr)
	assert.True(t, sess.Ignores("bob"))
	assert.True(t, sess.Ignores("carol"))

	drain(sess)
	cmd, _ = command.Parse("/user ignore list")
	d.dispatch(sess, cmd)
	listFrames := drain(sess)
	require.Len(t, listFrames, 1)
	assert.Equal(t, "currently ignoring: bob, carol", listFrames[0].Text)

	cmd, _ = command.Parse("/user ignore remove bob")
	d.dispatch(sess, cmd)
	assert.False(t, sess.Ignores("bob"))
	assert.True(t, sess.Ignores("carol"))
}
