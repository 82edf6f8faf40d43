package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("alice_01"))
	assert.True(t, ValidName("a"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("has a space"))
	assert.False(t, ValidName("way-too-long-a-name-for-the-thirty-two-char-cap"))
}

func TestCodeParent(t *testing.T) {
	parent, ok := CodeModKick.Parent()
	assert.True(t, ok)
	assert.Equal(t, CodeMod, parent)

	_, ok = CodeAFK.Parent()
	assert.False(t, ok, "a bare leaf has no parent")

	_, ok = CodeMod.Parent()
	assert.False(t, ok, "a group code is not its own parent")
}

func TestCodeIsGroup(t *testing.T) {
	assert.True(t, CodeUser.IsGroup())
	assert.True(t, CodeMod.IsGroup())
	assert.True(t, CodeSuper.IsGroup())
	assert.False(t, CodeModKick.IsGroup())
}

func TestKnownCode(t *testing.T) {
	assert.True(t, KnownCode(CodeMod))
	assert.True(t, KnownCode(CodeModBan))
	assert.False(t, KnownCode(Code("not.a.real.code")))
}

func TestDefaultPermissions(t *testing.T) {
	perms := DefaultPermissions()
	assert.True(t, perms[RoleUser][CodeMsg])
	assert.False(t, perms[RoleUser][CodeMod], "plain users never get the mod group code")
	assert.True(t, perms[RoleModerator][CodeMsg], "moderator permissions are a superset of user's")
	assert.True(t, perms[RoleModerator][CodeMod])
	assert.True(t, perms[RoleModerator][CodeSuperUsers])
}

func TestRoleValidAndRank(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.False(t, Role("bogus").Valid())

	assert.Less(t, RoleUser.Rank(), RoleModerator.Rank())
	assert.Less(t, RoleModerator.Rank(), RoleAdmin.Rank())
	assert.Less(t, RoleAdmin.Rank(), RoleOwner.Rank())
}

func TestExpiryActive(t *testing.T) {
	var permanent Expiry
	assert.True(t, permanent.Active(time.Now()))

	past := time.Now().Add(-time.Hour)
	expired := Expiry{Until: &past}
	assert.False(t, expired.Active(time.Now()))

	future := time.Now().Add(time.Hour)
	live := Expiry{Until: &future}
	assert.True(t, live.Active(time.Now()))
}

func TestSanctionActive(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	s := Sanction{Until: &past, Reason: "spam"}
	assert.False(t, s.Active(time.Now()))

	permanent := Sanction{Reason: "abuse"}
	assert.True(t, permanent.Active(time.Now()))
}

func TestNewRoomDefaults(t *testing.T) {
	r := NewRoom("lobby", "alice")
	assert.Equal(t, RoleOwner, r.Roles["alice"])
	assert.NotNil(t, r.MembersOnline)
	assert.False(t, r.Whitelist.Enabled)
	assert.NotEmpty(t, r.RoleColors[RoleOwner])
}

func TestRoomCanJoin(t *testing.T) {
	r := NewRoom("lobby", "alice")
	assert.True(t, r.CanJoin("bob"), "no whitelist means anyone can join")

	r.Whitelist.Enabled = true
	assert.False(t, r.CanJoin("bob"))
	assert.True(t, r.CanJoin("alice"), "the owner is always implicitly whitelisted")

	r.Whitelist.Members["bob"] = true
	assert.True(t, r.CanJoin("bob"))
}
