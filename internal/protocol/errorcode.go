package protocol

// ErrorCode enumerates the wire-level error taxonomy from spec.md §7.
type ErrorCode string

const (
	ErrParseError       ErrorCode = "ParseError"
	ErrInvalidArgument  ErrorCode = "InvalidArgument"
	ErrPermissionDenied ErrorCode = "PermissionDenied"
	ErrNotLoggedIn      ErrorCode = "NotLoggedIn"
	ErrAlreadyLoggedIn  ErrorCode = "AlreadyLoggedIn"
	ErrNotInRoom        ErrorCode = "NotInRoom"
	ErrAlreadyInRoom    ErrorCode = "AlreadyInRoom"
	ErrNotFound         ErrorCode = "NotFound"
	ErrAlreadyExists    ErrorCode = "AlreadyExists"
	ErrBadCredentials   ErrorCode = "BadCredentials"
	ErrMismatch         ErrorCode = "Mismatch"
	ErrMuted            ErrorCode = "Muted"
	ErrBanned           ErrorCode = "Banned"
	ErrWhitelistBlocked ErrorCode = "WhitelistBlocked"
	ErrRateLimited      ErrorCode = "RateLimited"
	ErrOwnerProtected   ErrorCode = "OwnerProtected"
	ErrNotOwner         ErrorCode = "NotOwner"
	ErrBackpressure     ErrorCode = "Backpressure"
	ErrInternal         ErrorCode = "Internal"
)

// DispatchError pairs a wire ErrorCode with a human-readable message. It is
// the error type every dispatcher handler returns on failure; the
// connection handler never sees anything else generated by command
// processing.
type DispatchError struct {
	Code ErrorCode
	Msg  string
}

func (e *DispatchError) Error() string { return string(e.Code) + ": " + e.Msg }

func NewError(code ErrorCode, msg string) *DispatchError {
	return &DispatchError{Code: code, Msg: msg}
}

// Frame renders the error as a wire frame.
func (e *DispatchError) Frame() Frame {
	return Frame{Kind: KindError, Code: e.Code, Msg: e.Msg}
}
