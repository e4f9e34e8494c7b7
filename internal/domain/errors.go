package domain

import "errors"

// Error is a rejection kind. Every Violation unwraps to one of these.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrConfiguration     Error = "configuration error"
	ErrIllegalTransition Error = "illegal transition"
	ErrBoardViolation    Error = "board violation"
	ErrInternal          Error = "internal inconsistency"
)

// Violation names the broken invariant and, when one is involved, the
// command and the party responsible for it.
type Violation struct {
	Kind    Error  `json:"kind"`
	Command string `json:"command,omitempty"`
	Reason  string `json:"reason"`
	Actor   Party  `json:"actor,omitempty"`
}

func (v *Violation) Error() string {
	msg := string(v.Kind)
	if v.Command != "" {
		msg += " (" + v.Command + ")"
	}
	msg += ": " + v.Reason
	if v.Actor != Nobody {
		msg += " [" + string(v.Actor) + "]"
	}
	return msg
}

func (v *Violation) Unwrap() error {
	return v.Kind
}

// Is matches another Violation with the same kind and reason, whoever the
// actor or command.
func (v *Violation) Is(target error) bool {
	t, ok := target.(*Violation)
	return ok && t.Kind == v.Kind && t.Reason == v.Reason
}

func Reject(kind Error, reason string) *Violation {
	return &Violation{Kind: kind, Reason: reason}
}

// By returns a copy of v attributed to actor.
func (v *Violation) By(actor Party) *Violation {
	out := *v
	out.Actor = actor
	return &out
}

// ErrNotFound is returned by lookups of games and boards that do not exist.
var ErrNotFound = errors.New("record not found")

// ErrStale rejects a transaction whose inputs were superseded before it
// could be recorded.
var ErrStale = Reject(ErrIllegalTransition, "the consumed records are no longer the latest")

var (
	ErrInvalidColumn = Reject(ErrBoardViolation, "column is outside the board")
	ErrColumnFull    = Reject(ErrBoardViolation, "column is full")
	ErrCellOccupied  = Reject(ErrBoardViolation, "cell is already occupied")
	ErrNoOccupant    = Reject(ErrBoardViolation, "a piece needs an occupant")
)

// KindOf reports the rejection kind carried by err, or "" when err is not
// a rejection produced by the rules.
func KindOf(err error) Error {
	var v *Violation
	if errors.As(err, &v) {
		return v.Kind
	}
	var kind Error
	if errors.As(err, &kind) {
		return kind
	}
	return ""
}

// invariant panics with an ErrInternal violation when ok is false.
func invariant(ok bool, reason string) {
	if !ok {
		panic(Reject(ErrInternal, reason))
	}
}
