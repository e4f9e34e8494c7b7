package domain

import "strings"

// Party is an opaque participant token supplied by the platform.
// Only equality is meaningful.
type Party string

// Nobody is the zero Party, used where no participant applies (no victor).
const Nobody Party = ""

const (
	MinBoardSize = 4
	MaxBoardSize = 10
	ToWin        = 4
)

// BoardSize is fixed for the lifetime of a game.
type BoardSize struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

func (s BoardSize) Validate() error {
	if s.Columns < MinBoardSize || s.Rows < MinBoardSize {
		return Reject(ErrConfiguration, "the board size needs to be at least 4x4")
	}
	if s.Columns > MaxBoardSize || s.Rows > MaxBoardSize {
		return Reject(ErrConfiguration, "the board size cannot exceed 10x10")
	}
	return nil
}

// Cells is the number of positions on the grid.
func (s BoardSize) Cells() int {
	return s.Columns * s.Rows
}

func (s BoardSize) contains(column, row int) bool {
	return column >= 0 && column < s.Columns && row >= 0 && row < s.Rows
}

// to represent the game status
type GameStatus string

const (
	StatusPending  GameStatus = "PENDING"
	StatusAccepted GameStatus = "ACCEPTED"
	StatusRejected GameStatus = "REJECTED"
	StatusActive   GameStatus = "ACTIVE"
	StatusComplete GameStatus = "COMPLETE"
	StatusDraw     GameStatus = "DRAW"
)

func (s GameStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusComplete || s == StatusDraw
}

type Color string

const (
	ColorRed    Color = "RED"
	ColorBlue   Color = "BLUE"
	ColorYellow Color = "YELLOW"
	ColorBlack  Color = "BLACK"
)

var Colors = []Color{ColorRed, ColorBlue, ColorYellow, ColorBlack}

func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// ParseColor accepts any casing of a known color name.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", Reject(ErrConfiguration, "unknown color "+s)
	}
	return c, nil
}
