package rooms

import (
	"time"

	"streamline/internal/models"
	"streamline/internal/utils"
)

var (
	ErrBanned           = utils.New("user is banned")
	ErrWhitelistBlocked = utils.New("room is whitelist-only")
	ErrAlreadyMember    = utils.New("already a member of this room")
	ErrNotMember        = utils.New("not a member of this room")
)

// CheckJoin implements spec.md §4.5 join-time checks: ban (invariant 3) and
// whitelist. It does not mutate anything; callers call Join afterward.
func CheckJoin(room *models.Room, username string, now time.Time) error {
	if ban, ok := room.Bans[username]; ok && ban.Active(now) {
		return ErrBanned
	}
	if !room.CanJoin(username) {
		return ErrWhitelistBlocked
	}
	return nil
}

// Join adds username to the room's online membership (spec.md §3
// MemberState). Role defaults to User unless the room already has a
// stored role for this username (e.g. Owner, or a role survives across
// rejoins).
func Join(room *models.Room, username string, now time.Time) *models.MemberState {
	if _, ok := room.Roles[username]; !ok {
		room.Roles[username] = models.RoleUser
	}
	ms := &models.MemberState{LastSeen: now}
	room.MembersOnline[username] = ms
	return ms
}

// Leave removes username's MemberState (spec.md §4.5 kick/leave/timeout).
// It does not remove the stored Role — a user who leaves and rejoins keeps
// whatever role they held.
func Leave(room *models.Room, username string) {
	delete(room.MembersOnline, username)
}

// RoleOf returns username's role in room, defaulting to User if they hold
// none (e.g. never assigned explicitly).
func RoleOf(room *models.Room, username string) models.Role {
	if role, ok := room.Roles[username]; ok {
		return role
	}
	return models.RoleUser
}

// Ban implements spec.md §4.5 "/mod ban": add to bans with the computed
// until. Does not itself kick; the dispatcher calls Leave separately so the
// kicked/banned event framing stays in the handler.
func Ban(room *models.Room, username string, until *time.Time, reason, by string) {
	room.Bans[username] = models.Sanction{Until: until, Reason: reason, By: by}
}

func Unban(room *models.Room, username string) {
	delete(room.Bans, username)
}

func Mute(room *models.Room, username string, until *time.Time, reason, by string) {
	room.Mutes[username] = models.Sanction{Until: until, Reason: reason, By: by}
}

func Unmute(room *models.Room, username string) {
	delete(room.Mutes, username)
}

// IsMuted reports whether username currently has an active mute.
func IsMuted(room *models.Room, username string, now time.Time) bool {
	mute, ok := room.Mutes[username]
	return ok && mute.Active(now)
}
