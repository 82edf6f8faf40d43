package command

// verbAliases maps a short alias to its canonical top-level verb, per
// spec.md §4.3 ("Each top-level verb has a short alias enumerated in a
// static table"). Canonical verbs are also accepted unabbreviated.
var verbAliases = map[string]string{
	"a":   "account",
	"rm":  "room",
	"m":   "msg",
	"se":  "seen",
	"ann": "announce",
	"u":   "user",
	"mo":  "mod",
	"su":  "super",
	"q":   "quit",
	"lo":  "logout",
	"h":   "help",
	"pi":  "ping",
}

// canonicalVerb resolves an alias to its canonical form, or returns the
// input unchanged if it is not a known alias (it may still be a canonical
// verb, or unknown entirely — Parse rejects that case).
func canonicalVerb(v string) string {
	if c, ok := verbAliases[v]; ok {
		return c
	}
	return v
}
