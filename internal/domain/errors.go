package domain

import (
	"errors"
	"fmt"
)

// ErrorKind is one of the error kinds named by the error handling design:
// each maps to a fixed propagation and logging policy, not to a concrete
// Go type.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindOutOfOrder   ErrorKind = "out_of_order"
	KindConflict     ErrorKind = "conflict"
	KindUnauthorized ErrorKind = "unauthorized"
	KindUpstream     ErrorKind = "upstream"
	KindPersistence  ErrorKind = "persistence"
)

// Error is a typed failure carrying the short tag REST responses echo back
// as {success:false, error:"<tag>"}.
type Error struct {
	Kind ErrorKind
	Tag  string
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Is lets errors.Is match a wrapped copy (see Wrap) against its original
// sentinel by Tag rather than pointer identity.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Tag == t.Tag
}

// Wrap attaches an underlying cause to a copy of the error, for log lines
// that want the original error alongside the typed tag.
func (e *Error) Wrap(cause error) *Error {
	n := *e
	n.err = cause
	return &n
}

func newErr(kind ErrorKind, tag, msg string) *Error {
	return &Error{Kind: kind, Tag: tag, msg: msg}
}

// Sentinel errors for the conditions named in the error handling design.
// Handlers compare with errors.Is; the REST layer maps Kind to status and
// Tag to the response body.
var (
	ErrMatchNotFound   = newErr(KindNotFound, "MATCH_NOT_FOUND", "match not found")
	ErrSessionNotFound = newErr(KindNotFound, "SESSION_NOT_FOUND", "no reachable session for identity")
	ErrVoteNotFound    = newErr(KindNotFound, "VOTE_NOT_FOUND", "vote not found")

	ErrActionOutOfOrder = newErr(KindOutOfOrder, "ACTION_OUT_OF_ORDER", "action index does not match current index")
	ErrDraftNotActive   = newErr(KindOutOfOrder, "DRAFT_NOT_ACTIVE", "draft is not in a state that accepts this operation")
	ErrInvalidStatus    = newErr(KindOutOfOrder, "INVALID_STATUS", "match status does not allow this operation")

	ErrChampionUsed    = newErr(KindConflict, "CHAMPION_USED", "champion already used in this match")
	ErrUnknownChampion = newErr(KindConflict, "UNKNOWN_CHAMPION", "champion reference could not be resolved")
	ErrEditNotPick     = newErr(KindConflict, "EDIT_NOT_PICK", "only pick actions may be edited")
	ErrMatchCompleted  = newErr(KindConflict, "MATCH_COMPLETED", "match is already completed")

	ErrUnauthorized = newErr(KindUnauthorized, "UNAUTHORIZED", "identity is not authorized for this action")

	ErrLCUUnreachable = newErr(KindUpstream, "LCU_UNREACHABLE", "no reachable LCU session for identity")
	ErrLCUTimeout     = newErr(KindUpstream, "LCU_TIMEOUT", "LCU RPC timed out")
	ErrLCUBadPayload  = newErr(KindUpstream, "LCU_BAD_PAYLOAD", "LCU response payload was malformed")

	ErrPersistence = newErr(KindPersistence, "PERSISTENCE_FAILED", "store write failed")
)

// KindOf extracts the ErrorKind from err, if it (or something it wraps) is
// an *Error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// TagOf extracts the short REST tag from err, defaulting to "INTERNAL".
func TagOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Tag
	}
	return "INTERNAL"
}
