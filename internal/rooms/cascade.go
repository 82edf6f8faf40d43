package rooms

// RenameEverywhere implements spec.md §4.2 edit_username's room-side
// effect: "rewrites all references in every room's
// roles/whitelist/bans/mutes" (and, for a currently-present member, its
// live MemberState and Owner field too).
func (r *Registry) RenameEverywhere(oldName, newName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, room := range r.rooms {
		if room.Owner == oldName {
			room.Owner = newName
		}
		if role, ok := room.Roles[oldName]; ok {
			delete(room.Roles, oldName)
			room.Roles[newName] = role
		}
		if room.Whitelist.Members[oldName] {
			delete(room.Whitelist.Members, oldName)
			room.Whitelist.Members[newName] = true
		}
		if ban, ok := room.Bans[oldName]; ok {
			delete(room.Bans, oldName)
			room.Bans[newName] = ban
		}
		if mute, ok := room.Mutes[oldName]; ok {
			delete(room.Mutes, oldName)
			room.Mutes[newName] = mute
		}
		if ms, ok := room.MembersOnline[oldName]; ok {
			delete(room.MembersOnline, oldName)
			room.MembersOnline[newName] = ms
		}
	}
}

// CascadeResult describes the room-level fallout of deleting an account,
// per spec.md §4.2 delete: "cascades to all rooms; if the user owns a
// room, the room is destroyed and its members evicted with reason
// 'owner deleted account'".
type CascadeResult struct {
	DestroyedRooms []string
	// EvictedMembers maps a destroyed room name to the usernames that were
	// present when it was destroyed (excluding the deleted owner itself),
	// so the dispatcher can notify and transition their sessions.
	EvictedMembers map[string][]string
}

// CascadeDelete removes username from every room's roles/whitelist/bans
// /mutes/membership, destroying any room they owned outright.
func (r *Registry) CascadeDelete(username string) CascadeResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := CascadeResult{EvictedMembers: map[string][]string{}}
	for name, room := range r.rooms {
		if room.Owner == username {
			var present []string
			for member := range room.MembersOnline {
				if member != username {
					present = append(present, member)
				}
			}
			res.DestroyedRooms = append(res.DestroyedRooms, name)
			res.EvictedMembers[name] = present
			delete(r.rooms, name)
			continue
		}
		delete(room.Roles, username)
		delete(room.Whitelist.Members, username)
		delete(room.Bans, username)
		delete(room.Mutes, username)
		delete(room.MembersOnline, username)
	}
	return res
}

// RoomsOf returns the names of rooms where username currently has a
// MemberState, i.e. is actively present. No command handler calls it; the
// single-active-room invariant is enforced by the Session phase, not by
// scanning rooms.
func (r *Registry) RoomsOf(username string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for name, room := range r.rooms {
		if _, ok := room.MembersOnline[username]; ok {
			out = append(out, name)
		}
	}
	return out
}
