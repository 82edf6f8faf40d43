package models

import (
	"regexp"
)

// nameRe matches the shared charset/length rule for usernames and room
// names: ASCII alphanumerics plus "_"/"-", 1..32 characters.
var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// ValidName reports whether name satisfies the username/room-name charset
// and length rule shared by accounts and rooms (spec.md §3).
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// Account is a registered StreamLine user, keyed by username in the User
// Directory (internal/directory).
type Account struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	PublicKey    []byte `json:"public_key"`
}
