package persistence

import (
	"log/slog"
	"os"
	"path/filepath"

	"streamline/internal/models"
)

// Store is the top-level persistence handle: one fileWriter per top-level
// snapshot file (users.json, rooms.json), plus plain synchronous helpers for
// the vault import/export commands, which spec.md §6 treats as one-shot
// file operations rather than coalesced background writes.
type Store struct {
	dir   string
	log   *slog.Logger
	users *fileWriter
	rooms *fileWriter
}

// Open roots a Store at dir (spec.md §4.1's data directory), starting the
// two background writer tasks. dir and its vault/logs subdirectories are
// created lazily by writeJSONAtomic on first write.
func Open(dir string, log *slog.Logger) *Store {
	return &Store{
		dir:   dir,
		log:   log,
		users: newFileWriter(filepath.Join(dir, "users.json"), log),
		rooms: newFileWriter(filepath.Join(dir, "rooms.json"), log),
	}
}

// Close stops both background writer tasks, blocking until each has
// written any snapshot still queued for it.
func (s *Store) Close() {
	s.users.Close()
	s.rooms.Close()
}

// LoadUsers reads users.json at startup. A missing file yields an empty map
// and no error, since a first run has nothing to load (spec.md §4.1).
func (s *Store) LoadUsers() (map[string]*models.Account, error) {
	var out map[string]*models.Account
	err := readJSON(filepath.Join(s.dir, "users.json"), &out)
	if os.IsNotExist(err) {
		return map[string]*models.Account{}, nil
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]*models.Account{}
	}
	return out, nil
}

// LoadRooms reads rooms.json at startup, the rooms.Registry.Restore
// counterpart to LoadUsers.
func (s *Store) LoadRooms() (map[string]*models.Room, error) {
	var out map[string]*models.Room
	err := readJSON(filepath.Join(s.dir, "rooms.json"), &out)
	if os.IsNotExist(err) {
		return map[string]*models.Room{}, nil
	}
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]*models.Room{}
	}
	return out, nil
}

// SaveUsers submits the directory snapshot to the background writer. It
// returns immediately; the write happens asynchronously and is coalesced
// with any write already pending (spec.md §4.1, §4.7 step 4).
func (s *Store) SaveUsers(snapshot map[string]*models.Account) {
	s.users.Submit(snapshot)
}

// SaveRooms submits the room registry snapshot to the background writer.
func (s *Store) SaveRooms(snapshot map[string]*models.Room) {
	s.rooms.Submit(snapshot)
}

// ExportAccount implements "/account export" (spec.md §6): writes acc to
// data/vault/users/<name>.json, synchronously, since the command is
// expected to succeed-or-error immediately rather than be coalesced like a
// background snapshot. name is the command's own argument, which need not
// match acc.Username; ImportAccount reads back from the same path.
func (s *Store) ExportAccount(name string, acc *models.Account) error {
	path := filepath.Join(s.dir, "vault", "users", name+".json")
	return writeJSONAtomic(path, acc)
}

// ImportAccount implements "/account import": reads a previously exported
// account from data/vault/users/<name>.json.
func (s *Store) ImportAccount(username string) (*models.Account, error) {
	path := filepath.Join(s.dir, "vault", "users", username+".json")
	var acc models.Account
	if err := readJSON(path, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// ExportRoom implements "/super export" (spec.md §4.5, §6): writes a room's
// persisted shape to data/vault/rooms/<name>.json, the same path "/room
// import" reads back from, since spec.md §4.1 describes the two commands as
// "structurally identical to the persisted shapes".
func (s *Store) ExportRoom(room *models.Room) error {
	path := filepath.Join(s.dir, "vault", "rooms", room.Name+".json")
	cp := *room
	cp.MembersOnline = nil
	return writeJSONAtomic(path, &cp)
}

// ImportRoom implements "/room import": reads a previously exported room
// from data/vault/rooms/<name>.json. The caller (dispatcher) is responsible
// for rejecting the import if a room of that name already exists and for
// re-initializing the runtime-only membership map, mirroring
// rooms.Registry.Restore.
func (s *Store) ImportRoom(name string) (*models.Room, error) {
	path := filepath.Join(s.dir, "vault", "rooms", name+".json")
	var room models.Room
	if err := readJSON(path, &room); err != nil {
		return nil, err
	}
	if room.MembersOnline == nil {
		room.MembersOnline = map[string]*models.MemberState{}
	}
	if room.Bans == nil {
		room.Bans = map[string]models.Sanction{}
	}
	if room.Mutes == nil {
		room.Mutes = map[string]models.Sanction{}
	}
	if room.Whitelist.Members == nil {
		room.Whitelist.Members = map[string]bool{}
	}
	return &room, nil
}
