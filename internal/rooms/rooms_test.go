package rooms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamline/internal/models"
)

func TestCreateAndGet(t *testing.T) {
	r := New()
	room, err := r.Create("lobby", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", room.Owner)
	assert.Equal(t, models.RoleOwner, room.Roles["alice"])

	_, err = r.Create("lobby", "bob")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = r.Create("bad name!", "bob")
	assert.ErrorIs(t, err, ErrInvalidName)

	got, ok := r.Get("lobby")
	require.True(t, ok)
	assert.Same(t, room, got)
}

func TestJoinLeaveAndCheckJoin(t *testing.T) {
	r := New()
	room, err := r.Create("lobby", "alice")
	require.NoError(t, err)
	now := time.Now()

	require.NoError(t, CheckJoin(room, "bob", now))
	ms := Join(room, "bob", now)
	assert.Equal(t, models.RoleUser, RoleOf(room, "bob"))
	assert.Same(t, ms, room.MembersOnline["bob"])

	Leave(room, "bob")
	_, present := room.MembersOnline["bob"]
	assert.False(t, present)
	assert.Equal(t, models.RoleUser, RoleOf(room, "bob"), "role survives a leave, only presence is removed")
}

func TestCheckJoinBanTakesPriorityOverWhitelist(t *testing.T) {
	r := New()
	room, err := r.Create("lobby", "alice")
	require.NoError(t, err)
	now := time.Now()

	WhitelistEnable(room)
	Ban(room, "bob", nil, "spam", "alice")

	err = CheckJoin(room, "bob", now)
	assert.ErrorIs(t, err, ErrBanned)
}

func TestCheckJoinWhitelistBlocksNonMembers(t *testing.T) {
	r := New()
	room, err := r.Create("lobby", "alice")
	require.NoError(t, err)
	now := time.Now()

	WhitelistEnable(room)
	err = CheckJoin(room, "bob", now)
	assert.ErrorIs(t, err, ErrWhitelistBlocked)

	assert.NoError(t, CheckJoin(room, "alice", now), "the owner is always implicitly whitelisted")

	WhitelistAdd(room, "bob")
	assert.NoError(t, CheckJoin(room, "bob", now))
}

func TestBanAndMuteExpiry(t *testing.T) {
	r := New()
	room, err := r.Create("lobby", "alice")
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	Ban(room, "bob", &past, "spam", "alice")
	Mute(room, "carol", &past, "noise", "alice")

	dirty := r.ExpireSanctions(time.Now())
	assert.True(t, dirty)
	_, banned := room.Bans["bob"]
	_, muted := room.Mutes["carol"]
	assert.False(t, banned)
	assert.False(t, muted)
}

func TestIdleMembersRespectsPerRoomTimeout(t *testing.T) {
	r := New()
	room, err := r.Create("lobby", "alice")
	require.NoError(t, err)
	now := time.Now()
	Join(room, "bob", now.Add(-time.Hour))

	assert.Empty(t, r.IdleMembers(now), "no timeout configured means nobody is ever idle")

	timeout := 60
	SetSessionTimeout(room, &timeout)
	idle := r.IdleMembers(now)
	require.Len(t, idle, 1)
	assert.Equal(t, "bob", idle[0].User)
}

func TestAssignRoleOwnershipTransfer(t *testing.T) {
	r := New()
	room, err := r.Create("lobby", "alice")
	require.NoError(t, err)
	Join(room, "bob", time.Now())

	require.NoError(t, AssignRole(room, "alice", "bob", models.RoleOwner))
	assert.Equal(t, "bob", room.Owner)
	assert.Equal(t, models.RoleAdmin, room.Roles["alice"], "the previous owner is demoted to admin, not stripped")
}

func TestAssignRoleOwnerMustBePresent(t *testing.T) {
	r := New()
	room, err := r.Create("lobby", "alice")
	require.NoError(t, err)

	err = AssignRole(room, "alice", "ghost", models.RoleOwner)
	assert.ErrorIs(t, err, ErrTargetNotMember)
}

func TestCascadeDeleteDestroysOwnedRoomsAndEvictsOthers(t *testing.T) {
	r := New()
	room, err := r.Create("lobby", "alice")
	require.NoError(t, err)
	Join(room, "bob", time.Now())
	Join(room, "alice", time.Now())

	_, err = r.Create("other", "carol")
	require.NoError(t, err)
	Join(mustGet(t, r, "other"), "alice", time.Now())

	res := r.CascadeDelete("alice")
	assert.Contains(t, res.DestroyedRooms, "lobby")
	assert.ElementsMatch(t, res.EvictedMembers["lobby"], []string{"bob"})

	_, stillExists := r.Get("lobby")
	assert.False(t, stillExists)

	other, ok := r.Get("other")
	require.True(t, ok)
	_, alicePresent := other.MembersOnline["alice"]
	assert.False(t, alicePresent, "cascade removes the deleted account's presence from rooms it doesn't own too")
}

func mustGet(t *testing.T, r *Registry, name string) *models.Room {
	room, ok := r.Get(name)
	require.True(t, ok)
	return room
}

func TestRenameEverywhere(t *testing.T) {
	r := New()
	room, err := r.Create("lobby", "alice")
	require.NoError(t, err)
	Join(room, "alice", time.Now())

	r.RenameEverywhere("alice", "alicia")
	assert.Equal(t, "alicia", room.Owner)
	assert.Equal(t, models.RoleOwner, room.Roles["alicia"])
	_, oldPresent := room.MembersOnline["alice"]
	assert.False(t, oldPresent)
	_, newPresent := room.MembersOnline["alicia"]
	assert.True(t, newPresent)
}

func TestImportRejectsLiveRoom(t *testing.T) {
	r := New()
	_, err := r.Create("lobby", "alice")
	require.NoError(t, err)

	err = r.Import(&models.Room{Name: "lobby", Owner: "bob"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}
