package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	d := New()
	acc, err := d.Register("alice", "secret", "secret", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
	assert.NotEmpty(t, acc.PasswordHash)

	got, err := d.Login("alice", "secret", []byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("key"), got.PublicKey, "login overwrites the stored public key")
}

func TestRegisterRejectsMismatchAndDuplicate(t *testing.T) {
	d := New()
	_, err := d.Register("bob", "one", "two", nil)
	assert.ErrorIs(t, err, ErrMismatch)

	_, err = d.Register("bob", "pw", "pw", nil)
	require.NoError(t, err)
	_, err = d.Register("bob", "pw", "pw", nil)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegisterRejectsInvalidName(t *testing.T) {
	d := New()
	_, err := d.Register("has a space", "pw", "pw", nil)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestLoginBadCredentials(t *testing.T) {
	d := New()
	_, err := d.Register("carol", "right", "right", nil)
	require.NoError(t, err)

	_, err = d.Login("carol", "wrong", nil)
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = d.Login("nobody", "x", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEditUsernameRejectsTakenName(t *testing.T) {
	d := New()
	_, err := d.Register("dave", "pw", "pw", nil)
	require.NoError(t, err)
	_, err = d.Register("erin", "pw", "pw", nil)
	require.NoError(t, err)

	err = d.EditUsername("dave", "erin")
	assert.ErrorIs(t, err, ErrAlreadyExists)

	err = d.EditUsername("dave", "dave2")
	require.NoError(t, err)
	assert.False(t, d.Exists("dave"))
	assert.True(t, d.Exists("dave2"))
}

func TestImportRejectsExistingAccount(t *testing.T) {
	d := New()
	acc, err := d.Register("frank", "pw", "pw", nil)
	require.NoError(t, err)

	err = d.Import(acc)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestSnapshotIsIndependentOfLiveState(t *testing.T) {
	d := New()
	_, err := d.Register("gina", "pw", "pw", nil)
	require.NoError(t, err)

	snap := d.Snapshot()
	require.NoError(t, d.EditPassword("gina", "new", "new"))

	live, _ := d.Lookup("gina")
	assert.NotEqual(t, snap["gina"].PasswordHash, live.PasswordHash, "snapshot holds a copy, not a live pointer into the directory")
}
