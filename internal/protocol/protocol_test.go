package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChatFrame(t *testing.T) {
	cf, err := DecodeChatFrame([]byte(`{"to":"bob","ct":"Y2lwaGVy"}`))
	require.NoError(t, err)
	assert.Equal(t, "bob", cf.To)
	assert.Equal(t, "Y2lwaGVy", cf.CT)
}

func TestDecodeChatFrameRejectsEmptyRecipient(t *testing.T) {
	_, err := DecodeChatFrame([]byte(`{"to":"","ct":"x"}`))
	assert.Error(t, err)
}

func TestDecodeChatFrameRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeChatFrame([]byte(`not json`))
	assert.Error(t, err)
}

func TestEncodeAppendsNewlineAndOmitsEmptyFields(t *testing.T) {
	b, err := Encode(Frame{Kind: KindSystem, Text: "hi"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(b), "\n"))
	assert.Contains(t, string(b), `"kind":"system"`)
	assert.Contains(t, string(b), `"text":"hi"`)
	assert.NotContains(t, string(b), "from")
}

func TestDispatchErrorFrame(t *testing.T) {
	err := NewError(ErrNotLoggedIn, "log in first")
	f := err.Frame()
	assert.Equal(t, KindError, f.Kind)
	assert.Equal(t, ErrNotLoggedIn, f.Code)
	assert.Equal(t, "log in first", f.Msg)
	assert.Equal(t, "NotLoggedIn: log in first", err.Error())
}
