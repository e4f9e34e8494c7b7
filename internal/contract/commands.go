package contract

import (
	"strings"

	"github.com/iamasit07/connect4-rules/internal/domain"
)

// Command states the intent of a transaction. The set is closed: only the
// types in this file implement it.
type Command interface {
	Name() string
	family() family
}

type family int

const (
	gameFamily family = iota + 1
	boardFamily
)

// Game commands.
type (
	NewGame      struct{}
	AcceptGame   struct{}
	RejectGame   struct{}
	Activate     struct{}
	CompleteGame struct{}
)

// Board commands. Moves carry the column the mover chose.
type (
	NewBoard    struct{}
	Play        struct{ Column int }
	WinningPlay struct{ Column int }
	Draw        struct{ Column int }
)

func (NewGame) Name() string      { return "NewGame" }
func (AcceptGame) Name() string   { return "AcceptGame" }
func (RejectGame) Name() string   { return "RejectGame" }
func (Activate) Name() string     { return "Activate" }
func (CompleteGame) Name() string { return "CompleteGame" }
func (NewBoard) Name() string     { return "NewBoard" }
func (Play) Name() string         { return "Play" }
func (WinningPlay) Name() string  { return "WinningPlay" }
func (Draw) Name() string         { return "Draw" }

func (NewGame) family() family      { return gameFamily }
func (AcceptGame) family() family   { return gameFamily }
func (RejectGame) family() family   { return gameFamily }
func (Activate) family() family     { return gameFamily }
func (CompleteGame) family() family { return gameFamily }
func (NewBoard) family() family     { return boardFamily }
func (Play) family() family         { return boardFamily }
func (WinningPlay) family() family  { return boardFamily }
func (Draw) family() family         { return boardFamily }

// MoveCommand picks the board command matching the outcome of a move.
func MoveCommand(column int, outcome domain.Progress) Command {
	switch outcome.Status {
	case domain.StatusComplete:
		return WinningPlay{Column: column}
	case domain.StatusDraw:
		return Draw{Column: column}
	default:
		return Play{Column: column}
	}
}

// column returns the column named by a move command.
func column(cmd Command) (int, bool) {
	switch c := cmd.(type) {
	case Play:
		return c.Column, true
	case WinningPlay:
		return c.Column, true
	case Draw:
		return c.Column, true
	}
	return 0, false
}

// ParseCommand decodes a command from its name, as sent over the wire.
func ParseCommand(name string, col int) (Command, error) {
	switch strings.ToLower(name) {
	case "newgame":
		return NewGame{}, nil
	case "acceptgame":
		return AcceptGame{}, nil
	case "rejectgame":
		return RejectGame{}, nil
	case "activate":
		return Activate{}, nil
	case "completegame":
		return CompleteGame{}, nil
	case "newboard":
		return NewBoard{}, nil
	case "play":
		return Play{Column: col}, nil
	case "winningplay":
		return WinningPlay{Column: col}, nil
	case "draw":
		return Draw{Column: col}, nil
	}
	return nil, domain.Reject(domain.ErrIllegalTransition, "unknown command "+name)
}
