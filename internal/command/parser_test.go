package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamline/internal/models"
)

func TestIsCommand(t *testing.T) {
	assert.True(t, IsCommand("/help"))
	assert.False(t, IsCommand("hello there"))
}

func TestParseAccountRegister(t *testing.T) {
	cmd, err := Parse("/account register alice secret secret")
	require.NoError(t, err)
	assert.Equal(t, KindAccountRegister, cmd.Kind)
	assert.Equal(t, "alice", cmd.Target)
	assert.Equal(t, "secret", cmd.Password)
	assert.Equal(t, "secret", cmd.Confirm)
}

func TestParseUsesVerbAliases(t *testing.T) {
	cmd, err := Parse("/a login alice secret")
	require.NoError(t, err)
	assert.Equal(t, KindAccountLogin, cmd.Kind)
}

func TestParseRoomDeleteEitherArgumentOrder(t *testing.T) {
	cmd, err := Parse("/room delete lobby force")
	require.NoError(t, err)
	assert.Equal(t, "lobby", cmd.Room)
	assert.True(t, cmd.Force)

	cmd, err = Parse("/room delete force lobby")
	require.NoError(t, err)
	assert.Equal(t, "lobby", cmd.Room)
	assert.True(t, cmd.Force)

	cmd, err = Parse("/room delete")
	require.NoError(t, err)
	assert.Equal(t, "", cmd.Room)
	assert.False(t, cmd.Force)
}

func TestParseRoomDeleteRejectsTwoRoomNames(t *testing.T) {
	_, err := Parse("/room delete lobby otherroom")
	assert.Error(t, err)
}

func TestParseMsgRequiresBody(t *testing.T) {
	_, err := Parse("/msg alice")
	assert.Error(t, err)

	cmd, err := Parse("/msg alice hello there")
	require.NoError(t, err)
	assert.Equal(t, "alice", cmd.Target)
	assert.Equal(t, "hello there", cmd.Text)
}

func TestParseUserRecolorValidatesHex(t *testing.T) {
	cmd, err := Parse("/user recolor #AABBCC")
	require.NoError(t, err)
	assert.Equal(t, "aabbcc", cmd.Hex)

	_, err = Parse("/user recolor not-a-color")
	assert.Error(t, err)
}

func TestParseUserIgnoreAddFiltersNothingButSplitsOnSpace(t *testing.T) {
	cmd, err := Parse("/user ignore add bob carol")
	require.NoError(t, err)
	assert.Equal(t, KindUserIgnoreAdd, cmd.Kind)
	assert.Equal(t, []string{"bob", "carol"}, cmd.Targets)

	_, err = Parse("/user ignore add")
	assert.Error(t, err)
}

func TestParseUserIgnoreList(t *testing.T) {
	cmd, err := Parse("/user ignore list")
	require.NoError(t, err)
	assert.Equal(t, KindUserIgnoreList, cmd.Kind)
}

func TestParseModBanDuration(t *testing.T) {
	cmd, err := Parse("/mod ban bob 1h30m spamming")
	require.NoError(t, err)
	assert.Equal(t, KindModBan, cmd.Kind)
	assert.Equal(t, "bob", cmd.Target)
	assert.Equal(t, "spamming", cmd.Text)
	assert.Equal(t, 90*time.Minute, cmd.Duration.Value)
	assert.False(t, cmd.Duration.Permanent)
}

func TestParseModBanPermanent(t *testing.T) {
	cmd, err := Parse("/mod ban bob *")
	require.NoError(t, err)
	until := cmd.Duration.Until(time.Now())
	assert.Nil(t, until)
}

func TestParseSuperLimitOffAndBounds(t *testing.T) {
	cmd, err := Parse("/super limit rate off")
	require.NoError(t, err)
	assert.Nil(t, cmd.LimitValue)

	_, err = Parse("/super limit rate 0")
	assert.Error(t, err, "rate limit must be 1..255")

	cmd, err = Parse("/super limit rate 10")
	require.NoError(t, err)
	require.NotNil(t, cmd.LimitValue)
	assert.Equal(t, 10, *cmd.LimitValue)
}

func TestParseSuperRolesAddValidatesCode(t *testing.T) {
	cmd, err := Parse("/super roles add moderator mod.kick")
	require.NoError(t, err)
	assert.Equal(t, RolesAdd, cmd.RolesOp)
	assert.Equal(t, models.RoleModerator, cmd.Role)
	assert.Equal(t, models.CodeModKick, cmd.Code)

	_, err = Parse("/super roles add moderator not.a.code")
	assert.Error(t, err)
}

func TestParseSuperRolesAssign(t *testing.T) {
	cmd, err := Parse("/super roles assign owner bob")
	require.NoError(t, err)
	assert.Equal(t, RolesAssign, cmd.RolesOp)
	assert.Equal(t, models.RoleOwner, cmd.Role)
	assert.Equal(t, "bob", cmd.Target)
}

func TestParseUnknownVerb(t *testing.T) {
	_, err := Parse("/bogus")
	assert.Error(t, err)
}

func TestParseDurationSumsComponentsRegardlessOfOrder(t *testing.T) {
	a, err := ParseDuration("1h30m")
	require.NoError(t, err)
	b, err := ParseDuration("30m1h")
	require.NoError(t, err)
	assert.Equal(t, a.Value, b.Value)
}

func TestParseDurationRejectsZero(t *testing.T) {
	_, err := ParseDuration("0s")
	assert.Error(t, err)
}
