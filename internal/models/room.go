package models

import "time"

// Expiry is an optional deadline: nil means permanent/disabled depending on
// context (bans/mutes that never expire, or a rate limit/timeout that is
// simply off).
type Expiry struct {
	Until *time.Time `json:"until,omitempty"`
}

// Active reports whether the expiry has not yet passed. A nil Until means
// permanent. Per spec.md §3 invariant 4, callers must treat an entry as
// authoritative only when Until is nil or in the future; the housekeeper
// removes expired entries lazily.
func (e Expiry) Active(now time.Time) bool {
	return e.Until == nil || e.Until.After(now)
}

// Sanction is the shared shape of a ban or a mute.
type Sanction struct {
	Until  *time.Time `json:"until,omitempty"`
	Reason string     `json:"reason,omitempty"`
	By     string     `json:"by,omitempty"`
}

func (s Sanction) Active(now time.Time) bool {
	return s.Until == nil || s.Until.After(now)
}

// Whitelist restricts room membership to an explicit member list when
// enabled. The Owner is always implicitly permitted regardless of whether
// their name appears in Members (spec.md §9 open question).
type Whitelist struct {
	Enabled bool            `json:"enabled"`
	Members map[string]bool `json:"members,omitempty"`
}

// MemberState is the per-room state attached to an account while it is
// present in the room (spec.md §3).
type MemberState struct {
	Nickname    string    `json:"nickname,omitempty"`
	Color       string    `json:"color,omitempty"`
	Hidden      bool      `json:"hidden,omitempty"`
	AFK         bool      `json:"afk,omitempty"`
	LastSeen    time.Time `json:"last_seen"`
	RecentSends int       `json:"-"`
	WindowStart time.Time `json:"-"`
}

// Room is the persisted, mutable state of a single chat room (spec.md §3).
// Room does not hold the live member-socket mapping (that lives in
// internal/session/internal/rooms at runtime); MembersOnline here is the
// authoritative presence map invariant §8.2 refers to.
type Room struct {
	Name            string                  `json:"name"`
	Owner           string                  `json:"owner"`
	Roles           map[string]Role         `json:"roles"`
	RolePermissions map[Role]map[Code]bool  `json:"role_permissions"`
	RoleColors      map[Role]string         `json:"role_colors"`
	Whitelist       Whitelist               `json:"whitelist"`
	Bans            map[string]Sanction     `json:"bans,omitempty"`
	Mutes           map[string]Sanction     `json:"mutes,omitempty"`
	RateLimit       *int                    `json:"rate_limit,omitempty"`
	SessionTimeout  *int                    `json:"session_timeout,omitempty"`
	MembersOnline   map[string]*MemberState `json:"-"`
}

// NewRoom creates a room with a single Owner and the default role
// permissions (spec.md §3 invariant 5).
func NewRoom(name, owner string) *Room {
	return &Room{
		Name: name,
		Owner: owner,
		Roles: map[string]Role{
			owner: RoleOwner,
		},
		RolePermissions: DefaultPermissions(),
		RoleColors: map[Role]string{
			RoleOwner:     "ffd700",
			RoleAdmin:     "ff4d4d",
			RoleModerator: "4da6ff",
			RoleUser:      "cccccc",
		},
		Whitelist:     Whitelist{Members: map[string]bool{}},
		Bans:          map[string]Sanction{},
		Mutes:         map[string]Sanction{},
		MembersOnline: map[string]*MemberState{},
	}
}

// CanJoin reports whether username may join given the whitelist state. The
// Owner is always implicitly whitelisted.
func (r *Room) CanJoin(username string) bool {
	if !r.Whitelist.Enabled {
		return true
	}
	if username == r.Owner {
		return true
	}
	return r.Whitelist.Members[username]
}
