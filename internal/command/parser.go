package command

import (
	"strconv"
	"strings"

	"streamline/internal/models"
)

// IsCommand reports whether line should be parsed as a command rather than
// routed as opaque chat (spec.md §4.3: "a message is a command iff it
// begins with '/'").
func IsCommand(line string) bool {
	return strings.HasPrefix(line, "/")
}

// Parse tokenizes and validates a command line into a typed Command. It
// performs no phase or RBAC checks — see internal/dispatcher.
func Parse(line string) (*Command, error) {
	if !IsCommand(line) {
		return nil, parseErrorf("not a command")
	}
	t := tokenize(line[1:])
	verbTok, ok := t.at(0)
	if !ok {
		return nil, parseErrorf("empty command")
	}
	verb := canonicalVerb(strings.ToLower(verbTok))

	switch verb {
	case "account":
		return parseAccount(t)
	case "room":
		return parseRoom(t)
	case "quit":
		return &Command{Kind: KindQuit}, nil
	case "logout":
		return &Command{Kind: KindLogout}, nil
	case "afk":
		return &Command{Kind: KindAFK}, nil
	case "ping":
		return &Command{Kind: KindPing}, nil
	case "help":
		return &Command{Kind: KindHelp}, nil
	case "msg":
		return parseMsg(t)
	case "me":
		return &Command{Kind: KindMe, Text: t.tailFrom(1)}, nil
	case "seen":
		target, ok := t.at(1)
		if !ok {
			return nil, parseErrorf("usage: /seen <user>")
		}
		return &Command{Kind: KindSeen, Target: target}, nil
	case "announce":
		body := t.tailFrom(1)
		if body == "" {
			return nil, parseErrorf("usage: /announce <message>")
		}
		return &Command{Kind: KindAnnounce, Text: body}, nil
	case "user":
		return parseUser(t)
	case "mod":
		return parseMod(t)
	case "super":
		return parseSuper(t)
	}

	return nil, parseErrorf("unknown command %q", verbTok)
}

func parseAccount(t tokens) (*Command, error) {
	sub, ok := t.at(1)
	if !ok {
		return nil, parseErrorf("usage: /account <register|login|edit|delete|import|export> ...")
	}
	switch strings.ToLower(sub) {
	case "register":
		user, _ := t.at(2)
		pass, _ := t.at(3)
		confirm, _ := t.at(4)
		if user == "" || pass == "" || confirm == "" {
			return nil, parseErrorf("usage: /account register <username> <password> <confirm>")
		}
		return &Command{Kind: KindAccountRegister, Target: user, Password: pass, Confirm: confirm}, nil
	case "login":
		user, _ := t.at(2)
		pass, _ := t.at(3)
		if user == "" || pass == "" {
			return nil, parseErrorf("usage: /account login <username> <password>")
		}
		return &Command{Kind: KindAccountLogin, Target: user, Password: pass}, nil
	case "edit":
		what, _ := t.at(2)
		switch strings.ToLower(what) {
		case "username":
			newName, _ := t.at(3)
			if newName == "" {
				return nil, parseErrorf("usage: /account edit username <new-name>")
			}
			return &Command{Kind: KindAccountEditUsername, Target: newName}, nil
		case "password":
			newPass, _ := t.at(3)
			confirm, _ := t.at(4)
			if newPass == "" || confirm == "" {
				return nil, parseErrorf("usage: /account edit password <new-password> <confirm>")
			}
			return &Command{Kind: KindAccountEditPassword, Password: newPass, Confirm: confirm}, nil
		}
		return nil, parseErrorf("usage: /account edit <username|password> ...")
	case "delete":
		return &Command{Kind: KindAccountDelete}, nil
	case "import":
		name, _ := t.at(2)
		if name == "" {
			return nil, parseErrorf("usage: /account import <name>")
		}
		return &Command{Kind: KindAccountImport, Target: name}, nil
	case "export":
		name, _ := t.at(2)
		if name == "" {
			return nil, parseErrorf("usage: /account export <name>")
		}
		return &Command{Kind: KindAccountExport, Target: name}, nil
	}
	return nil, parseErrorf("unknown /account subcommand %q", sub)
}

func parseRoom(t tokens) (*Command, error) {
	sub, ok := t.at(1)
	if !ok {
		return nil, parseErrorf("usage: /room <create|join|delete|list|info|import> ...")
	}
	switch strings.ToLower(sub) {
	case "create":
		name, _ := t.at(2)
		if name == "" || !models.ValidName(name) {
			return nil, parseErrorf("usage: /room create <room>")
		}
		return &Command{Kind: KindRoomCreate, Room: name}, nil
	case "join":
		name, _ := t.at(2)
		if name == "" {
			return nil, parseErrorf("usage: /room join <room>")
		}
		return &Command{Kind: KindRoomJoin, Room: name}, nil
	case "delete":
		return parseRoomDelete(t)
	case "list":
		return &Command{Kind: KindRoomList}, nil
	case "info":
		name, _ := t.at(2)
		return &Command{Kind: KindRoomInfo, Room: name}, nil
	case "import":
		name, _ := t.at(2)
		if name == "" {
			return nil, parseErrorf("usage: /room import <name>")
		}
		return &Command{Kind: KindRoomImport, Target: name}, nil
	}
	return nil, parseErrorf("unknown /room subcommand %q", sub)
}

// parseRoomDelete resolves the documented ambiguity in room-delete argument
// order (spec.md §9 open question): accept "[room] [force]" in either
// order by scanning the remaining tokens for the literal "force" and
// treating the other (at most one) token as the room name. Two room-name
// candidates is a parse error rather than a silently-guessed parse.
func parseRoomDelete(t tokens) (*Command, error) {
	cmd := &Command{Kind: KindRoomDelete}
	roomSeen := false
	for i := 2; ; i++ {
		tok, ok := t.at(i)
		if !ok {
			break
		}
		if strings.EqualFold(tok, "force") {
			cmd.Force = true
			continue
		}
		if roomSeen {
			return nil, parseErrorf("usage: /room delete [room] [force]: two room names given")
		}
		cmd.Room = tok
		roomSeen = true
	}
	return cmd, nil
}

func parseMsg(t tokens) (*Command, error) {
	target, ok := t.at(1)
	if !ok {
		return nil, parseErrorf("usage: /msg <user> <message>")
	}
	body := t.tailFrom(2)
	if body == "" {
		return nil, parseErrorf("usage: /msg <user> <message>")
	}
	return &Command{Kind: KindMsg, Target: target, Text: body}, nil
}

func parseUser(t tokens) (*Command, error) {
	sub, ok := t.at(1)
	if !ok {
		return nil, parseErrorf("usage: /user <list|rename|recolor|hide|whoami>")
	}
	switch strings.ToLower(sub) {
	case "list":
		return &Command{Kind: KindUserList}, nil
	case "rename":
		nick := t.tailFrom(2)
		if nick == "" {
			return nil, parseErrorf("usage: /user rename <nickname>")
		}
		return &Command{Kind: KindUserRename, Text: nick}, nil
	case "recolor":
		hexArg, _ := t.at(2)
		hex, err := ParseHexColor(hexArg)
		if err != nil {
			return nil, err
		}
		return &Command{Kind: KindUserRecolor, Hex: hex}, nil
	case "hide":
		return &Command{Kind: KindUserHide}, nil
	case "whoami":
		return &Command{Kind: KindUserWhoami}, nil
	case "ignore":
		return parseUserIgnore(t)
	}
	return nil, parseErrorf("unknown /user subcommand %q", sub)
}

// parseUserIgnore implements the supplemented "/user ignore
// list|add|remove [user...]" grammar, recovered from original_source's
// ignore.rs: add/remove take one or more space-separated usernames.
func parseUserIgnore(t tokens) (*Command, error) {
	op, _ := t.at(2)
	switch strings.ToLower(op) {
	case "list":
		return &Command{Kind: KindUserIgnoreList}, nil
	case "add":
		users := strings.Fields(t.tailFrom(3))
		if len(users) == 0 {
			return nil, parseErrorf("usage: /user ignore add <user...>")
		}
		return &Command{Kind: KindUserIgnoreAdd, Targets: users}, nil
	case "remove":
		users := strings.Fields(t.tailFrom(3))
		if len(users) == 0 {
			return nil, parseErrorf("usage: /user ignore remove <user...>")
		}
		return &Command{Kind: KindUserIgnoreRemove, Targets: users}, nil
	}
	return nil, parseErrorf("usage: /user ignore <list|add|remove> [user...]")
}

func parseMod(t tokens) (*Command, error) {
	sub, ok := t.at(1)
	if !ok {
		return nil, parseErrorf("usage: /mod <info|kick|ban|mute> <user> ...")
	}
	target, hasTarget := t.at(2)
	switch strings.ToLower(sub) {
	case "info":
		if !hasTarget {
			return nil, parseErrorf("usage: /mod info <user>")
		}
		return &Command{Kind: KindModInfo, Target: target}, nil
	case "kick":
		if !hasTarget {
			return nil, parseErrorf("usage: /mod kick <user> [reason]")
		}
		return &Command{Kind: KindModKick, Target: target, Text: t.tailFrom(3)}, nil
	case "ban":
		durTok, hasDur := t.at(3)
		if !hasTarget || !hasDur {
			return nil, parseErrorf("usage: /mod ban <user> <duration> [reason]")
		}
		dur, err := ParseDuration(durTok)
		if err != nil {
			return nil, err
		}
		return &Command{Kind: KindModBan, Target: target, Duration: dur, Text: t.tailFrom(4)}, nil
	case "mute":
		durTok, hasDur := t.at(3)
		if !hasTarget || !hasDur {
			return nil, parseErrorf("usage: /mod mute <user> <duration> [reason]")
		}
		dur, err := ParseDuration(durTok)
		if err != nil {
			return nil, err
		}
		return &Command{Kind: KindModMute, Target: target, Duration: dur, Text: t.tailFrom(4)}, nil
	}
	return nil, parseErrorf("unknown /mod subcommand %q", sub)
}

func parseSuper(t tokens) (*Command, error) {
	sub, ok := t.at(1)
	if !ok {
		return nil, parseErrorf("usage: /super <users|rename|export|whitelist|limit|roles> ...")
	}
	switch strings.ToLower(sub) {
	case "users":
		return &Command{Kind: KindSuperUsers}, nil
	case "rename":
		oldName, _ := t.at(2)
		newName, _ := t.at(3)
		if oldName == "" || newName == "" {
			return nil, parseErrorf("usage: /super rename <old> <new>")
		}
		return &Command{Kind: KindSuperRename, Target: oldName, Target2: newName}, nil
	case "export":
		room, _ := t.at(2)
		if room == "" {
			return nil, parseErrorf("usage: /super export <room>")
		}
		return &Command{Kind: KindSuperExport, Room: room}, nil
	case "whitelist":
		return parseSuperWhitelist(t)
	case "limit":
		return parseSuperLimit(t)
	case "roles":
		return parseSuperRoles(t)
	}
	return nil, parseErrorf("unknown /super subcommand %q", sub)
}

func parseSuperWhitelist(t tokens) (*Command, error) {
	op, _ := t.at(2)
	cmd := &Command{Kind: KindSuperWhitelist}
	switch strings.ToLower(op) {
	case "enable":
		cmd.WhitelistOp = WhitelistEnable
	case "disable":
		cmd.WhitelistOp = WhitelistDisable
	case "add":
		cmd.WhitelistOp = WhitelistAdd
		target, ok := t.at(3)
		if !ok {
			return nil, parseErrorf("usage: /super whitelist add <user>")
		}
		cmd.Target = target
	case "remove":
		cmd.WhitelistOp = WhitelistRemove
		target, ok := t.at(3)
		if !ok {
			return nil, parseErrorf("usage: /super whitelist remove <user>")
		}
		cmd.Target = target
	default:
		return nil, parseErrorf("usage: /super whitelist <enable|disable|add|remove> [user]")
	}
	return cmd, nil
}

func parseSuperLimit(t tokens) (*Command, error) {
	kind, _ := t.at(2)
	valTok, hasVal := t.at(3)
	if !hasVal {
		return nil, parseErrorf("usage: /super limit <rate|timeout> <n|off>")
	}
	cmd := &Command{Kind: KindSuperLimit}
	switch strings.ToLower(kind) {
	case "rate":
		cmd.LimitKind = LimitRate
	case "timeout":
		cmd.LimitKind = LimitTimeout
	default:
		return nil, parseErrorf("usage: /super limit <rate|timeout> <n|off>")
	}
	if strings.EqualFold(valTok, "off") {
		cmd.LimitValue = nil
		return cmd, nil
	}
	n, err := strconv.Atoi(valTok)
	if err != nil {
		return nil, parseErrorf("invalid limit value %q", valTok)
	}
	if cmd.LimitKind == LimitRate && (n < 1 || n > 255) {
		return nil, parseErrorf("rate limit must be 1..255, got %d", n)
	}
	if cmd.LimitKind == LimitTimeout && n < 1 {
		return nil, parseErrorf("session timeout must be positive, got %d", n)
	}
	cmd.LimitValue = &n
	return cmd, nil
}

func parseSuperRoles(t tokens) (*Command, error) {
	op, _ := t.at(2)
	cmd := &Command{Kind: KindSuperRoles}
	switch strings.ToLower(op) {
	case "add", "revoke":
		if strings.ToLower(op) == "add" {
			cmd.RolesOp = RolesAdd
		} else {
			cmd.RolesOp = RolesRevoke
		}
		roleTok, _ := t.at(3)
		codeTok, hasCode := t.at(4)
		role, ok := parseRole(roleTok)
		if !ok || !hasCode {
			return nil, parseErrorf("usage: /super roles %s <moderator|user> <code>", strings.ToLower(op))
		}
		code := models.Code(strings.ToLower(codeTok))
		if !models.KnownCode(code) {
			return nil, parseErrorf("unknown permission code %q", codeTok)
		}
		cmd.Role = role
		cmd.Code = code
		return cmd, nil
	case "assign":
		cmd.RolesOp = RolesAssign
		roleTok, _ := t.at(3)
		target, hasTarget := t.at(4)
		role, ok := parseRole(roleTok)
		if !ok || !hasTarget {
			return nil, parseErrorf("usage: /super roles assign <owner|admin|moderator|user> <user>")
		}
		cmd.Role = role
		cmd.Target = target
		return cmd, nil
	}
	return nil, parseErrorf("usage: /super roles <add|revoke|assign> ...")
}

func parseRole(s string) (models.Role, bool) {
	r := models.Role(strings.ToLower(s))
	if !r.Valid() {
		return "", false
	}
	return r, true
}
