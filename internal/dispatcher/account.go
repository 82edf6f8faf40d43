package dispatcher

import (
	"streamline/internal/command"
	"streamline/internal/protocol"
	"streamline/internal/session"
)

// cmdAccountRegister implements spec.md §4.2 register. Public-key
// exchange is an external collaborator's concern (spec.md §1): the
// command grammar carries no key argument, so a freshly registered
// account starts with none and picks one up on first login.
func (d *Dispatcher) cmdAccountRegister(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if sess.Phase != session.PhaseGuest {
		return protocol.NewError(protocol.ErrAlreadyLoggedIn, "already logged in")
	}
	acc, err := d.dir.Register(cmd.Target, cmd.Password, cmd.Confirm, nil)
	if err != nil {
		return mapDirectoryErr(err)
	}
	d.loginSession(sess, acc.Username)
	d.markDirty()
	return nil
}

func (d *Dispatcher) cmdAccountLogin(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if sess.Phase != session.PhaseGuest {
		return protocol.NewError(protocol.ErrAlreadyLoggedIn, "already logged in")
	}
	acc, err := d.dir.Login(cmd.Target, cmd.Password, nil)
	if err != nil {
		return mapDirectoryErr(err)
	}
	if _, already := d.sessions[acc.Username]; already {
		return protocol.NewError(protocol.ErrAlreadyLoggedIn, "already logged in from another connection")
	}
	d.loginSession(sess, acc.Username)
	return nil
}

func (d *Dispatcher) loginSession(sess *session.Session, username string) {
	sess.Phase = session.PhaseLoggedIn
	sess.Username = username
	d.sessions[username] = sess
	sess.Send(protocol.Frame{Kind: protocol.KindState, Phase: sess.Phase.String()})
}

// cmdAccountEditUsername implements spec.md §4.2 edit_username, rewriting
// every room reference via rooms.Registry.RenameEverywhere and re-keying
// the live session index.
func (d *Dispatcher) cmdAccountEditUsername(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	oldName := sess.Username
	if err := d.dir.EditUsername(oldName, cmd.Target); err != nil {
		return mapDirectoryErr(err)
	}
	d.rooms.RenameEverywhere(oldName, cmd.Target)
	delete(d.sessions, oldName)
	sess.Username = cmd.Target
	d.sessions[cmd.Target] = sess
	d.markDirty()
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "username changed to " + cmd.Target})
	return nil
}

func (d *Dispatcher) cmdAccountEditPassword(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	if err := d.dir.EditPassword(sess.Username, cmd.Password, cmd.Confirm); err != nil {
		return mapDirectoryErr(err)
	}
	d.markDirty()
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "password changed"})
	return nil
}

// cmdAccountDelete implements spec.md §4.2 delete: cascades to every room,
// destroying any room the caller owned and evicting its members with
// reason "owner deleted account" (spec.md §4.5), then closes the socket.
func (d *Dispatcher) cmdAccountDelete(sess *session.Session, _ *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	username := sess.Username
	if err := d.dir.Delete(username); err != nil {
		return mapDirectoryErr(err)
	}
	result := d.rooms.CascadeDelete(username)
	for room, evicted := range result.EvictedMembers {
		for _, u := range evicted {
			if s, ok := d.sessions[u]; ok {
				s.Phase = session.PhaseLoggedIn
				s.Room = ""
				s.Send(protocol.Frame{Kind: protocol.KindKicked, Room: room, Reason: "owner deleted account"})
			}
		}
	}
	delete(d.sessions, username)
	d.markDirty()
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "account deleted"})
	sess.Close()
	return nil
}

func (d *Dispatcher) cmdAccountImport(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if sess.Phase != session.PhaseGuest {
		return protocol.NewError(protocol.ErrAlreadyLoggedIn, "log out before importing an account")
	}
	acc, err := d.store.ImportAccount(cmd.Target)
	if err != nil {
		return protocol.NewError(protocol.ErrNotFound, "no such vault account")
	}
	if err := d.dir.Import(acc); err != nil {
		return mapDirectoryErr(err)
	}
	d.markDirty()
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "account imported; you may now log in"})
	return nil
}

// cmdAccountExport implements "/account export": writes the caller's
// account to data/vault/users/<name>.json, the path "/account import"
// reads back from.
func (d *Dispatcher) cmdAccountExport(sess *session.Session, cmd *command.Command) *protocol.DispatchError {
	if err := d.requireLoggedIn(sess); err != nil {
		return err
	}
	acc, ok := d.dir.Lookup(sess.Username)
	if !ok {
		return protocol.NewError(protocol.ErrInternal, "account vanished")
	}
	name := cmd.Target
	if name == "" {
		name = sess.Username
	}
	if err := d.store.ExportAccount(name, acc); err != nil {
		d.log.Error("account export failed", "user", sess.Username, "error", err)
		return protocol.NewError(protocol.ErrInternal, "export failed")
	}
	sess.Send(protocol.Frame{Kind: protocol.KindSystem, Text: "account exported"})
	return nil
}
