package dispatcher

import (
	"streamline/internal/directory"
	"streamline/internal/models"
	"streamline/internal/protocol"
	"streamline/internal/rooms"
)

// mapDirectoryErr translates internal/directory's sentinel errors to the
// wire-level ErrorCode taxonomy (spec.md §7).
func mapDirectoryErr(err error) *protocol.DispatchError {
	switch err {
	case directory.ErrAlreadyExists:
		return protocol.NewError(protocol.ErrAlreadyExists, err.Error())
	case directory.ErrInvalidName:
		return protocol.NewError(protocol.ErrInvalidArgument, err.Error())
	case directory.ErrMismatch:
		return protocol.NewError(protocol.ErrMismatch, err.Error())
	case directory.ErrNotFound:
		return protocol.NewError(protocol.ErrNotFound, err.Error())
	case directory.ErrBadCredentials:
		return protocol.NewError(protocol.ErrBadCredentials, err.Error())
	default:
		return protocol.NewError(protocol.ErrInternal, err.Error())
	}
}

// mapRoomsErr translates internal/rooms' sentinel errors (registry,
// membership, and moderation alike) to the wire-level ErrorCode taxonomy.
func mapRoomsErr(err error) *protocol.DispatchError {
	switch err {
	case rooms.ErrAlreadyExists:
		return protocol.NewError(protocol.ErrAlreadyExists, err.Error())
	case rooms.ErrInvalidName:
		return protocol.NewError(protocol.ErrInvalidArgument, err.Error())
	case rooms.ErrNotFound:
		return protocol.NewError(protocol.ErrNotFound, err.Error())
	case rooms.ErrBanned:
		return protocol.NewError(protocol.ErrBanned, err.Error())
	case rooms.ErrWhitelistBlocked:
		return protocol.NewError(protocol.ErrWhitelistBlocked, err.Error())
	case rooms.ErrAlreadyMember:
		return protocol.NewError(protocol.ErrAlreadyInRoom, err.Error())
	case rooms.ErrNotMember:
		return protocol.NewError(protocol.ErrNotInRoom, err.Error())
	case rooms.ErrOwnerProtected:
		return protocol.NewError(protocol.ErrOwnerProtected, err.Error())
	case rooms.ErrAssignDenied:
		return protocol.NewError(protocol.ErrPermissionDenied, err.Error())
	case rooms.ErrNotOwner:
		return protocol.NewError(protocol.ErrNotOwner, err.Error())
	case rooms.ErrTargetNotMember:
		return protocol.NewError(protocol.ErrNotFound, err.Error())
	default:
		return protocol.NewError(protocol.ErrInternal, err.Error())
	}
}

// canModerate implements the rank-based moderation restriction table from
// spec.md §4.5: Admins may not act on Admins/Owner; Moderators may not act
// on Moderators/Admins/Owner; Owner may act on anyone.
func canModerate(caller, target models.Role) bool {
	switch caller {
	case models.RoleOwner:
		return true
	case models.RoleAdmin:
		return target.Rank() < models.RoleAdmin.Rank()
	case models.RoleModerator:
		return target.Rank() < models.RoleModerator.Rank()
	default:
		return false
	}
}
