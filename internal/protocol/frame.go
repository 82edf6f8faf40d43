// Package protocol implements the StreamLine wire format (spec.md §6):
// newline-delimited UTF-8 frames over plain TCP. Client-to-server frames
// are either a command line (leading '/') or a chat frame (JSON object);
// server-to-client frames are always a JSON object tagged by "kind".
package protocol

import (
	"encoding/json"
	"time"
)

// MaxFrameBytes is the largest single frame the connection handler will
// accept, per spec.md §4.6.
const MaxFrameBytes = 64 * 1024

// ChatFrame is the client-to-server JSON chat message (spec.md §6). To may
// be a username or "*" for a room broadcast. CT is opaque base64
// ciphertext the server never inspects.
type ChatFrame struct {
	To string `json:"to"`
	CT string `json:"ct"`
}

// DecodeChatFrame parses a client-to-server chat frame. Callers should
// only try this once IsCommand has ruled out a command line.
func DecodeChatFrame(line []byte) (*ChatFrame, error) {
	var cf ChatFrame
	if err := json.Unmarshal(line, &cf); err != nil {
		return nil, err
	}
	if cf.To == "" {
		return nil, errEmptyRecipient
	}
	return &cf, nil
}

var errEmptyRecipient = jsonErr("chat frame missing \"to\"")

type jsonErr string

func (e jsonErr) Error() string { return string(e) }

// Kind tags a server-to-client frame's event type (spec.md §6).
type Kind string

const (
	KindChat        Kind = "chat"
	KindMe          Kind = "me"
	KindAnnounce    Kind = "announce"
	KindSystem      Kind = "system"
	KindError       Kind = "error"
	KindPong        Kind = "pong"
	KindState       Kind = "state"
	KindMemberJoin  Kind = "member_join"
	KindMemberLeave Kind = "member_leave"
	KindKicked      Kind = "kicked"
	KindBanned      Kind = "banned"
	KindMuted       Kind = "muted"
	KindRateLimited Kind = "rate_limited"
	KindTimeout     Kind = "timeout"
)

// Frame is the single server-to-client message shape; only the fields
// relevant to Kind are populated on the wire (all others carry omitempty).
type Frame struct {
	Kind Kind `json:"kind"`

	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	CT   string `json:"ct,omitempty"`

	Text string `json:"text,omitempty"`

	Code ErrorCode `json:"code,omitempty"`
	Msg  string    `json:"msg,omitempty"`

	Token int64 `json:"token,omitempty"`

	Phase string `json:"phase,omitempty"`
	Room  string `json:"room,omitempty"`
	User  string `json:"user,omitempty"`

	Reason string     `json:"reason,omitempty"`
	Until  *time.Time `json:"until,omitempty"`
}

// Encode serializes f as a single newline-terminated JSON line.
func Encode(f Frame) ([]byte, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
