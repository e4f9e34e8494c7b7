package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Cell is a placed piece. Columns and rows are zero-based, row 0 is the bottom.
type Cell struct {
	Column   int   `json:"column"`
	Row      int   `json:"row"`
	Occupant Party `json:"occupant"`
}

func (c Cell) samePosition(o Cell) bool {
	return c.Column == o.Column && c.Row == o.Row
}

// Board is an immutable, move-ordered set of pieces. cells[i] holds move i+1,
// so move numbers are contiguous by construction.
type Board struct {
	size  BoardSize
	cells []Cell
}

func NewBoard(size BoardSize) Board {
	return Board{size: size}
}

func (b Board) Size() BoardSize {
	return b.size
}

// Len is the number of moves played.
func (b Board) Len() int {
	return len(b.cells)
}

func (b Board) IsFull() bool {
	return len(b.cells) >= b.size.Cells()
}

// Cell returns the piece placed by the given move.
func (b Board) Cell(moveNumber int) (Cell, bool) {
	if moveNumber < 1 || moveNumber > len(b.cells) {
		return Cell{}, false
	}
	return b.cells[moveNumber-1], true
}

// Cells returns a copy of the pieces in move order.
func (b Board) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

// Moves returns the pieces keyed by move number.
func (b Board) Moves() map[int]Cell {
	moves := make(map[int]Cell, len(b.cells))
	for i, c := range b.cells {
		moves[i+1] = c
	}
	return moves
}

// OccupantAt returns Nobody for an empty or out-of-range position.
func (b Board) OccupantAt(column, row int) Party {
	for _, c := range b.cells {
		if c.Column == column && c.Row == row {
			return c.Occupant
		}
	}
	return Nobody
}

// Grid is a column-major snapshot: grid[column][row].
func (b Board) Grid() [][]Party {
	grid := make([][]Party, b.size.Columns)
	for c := range grid {
		grid[c] = make([]Party, b.size.Rows)
	}
	for _, cell := range b.cells {
		grid[cell.Column][cell.Row] = cell.Occupant
	}
	return grid
}

// NextFreeRow is one above the highest occupied row of column, or 0 for an
// empty column.
func (b Board) NextFreeRow(column int) (int, error) {
	if column < 0 || column >= b.size.Columns {
		return -1, ErrInvalidColumn
	}
	next := 0
	for _, c := range b.cells {
		if c.Column == column && c.Row+1 > next {
			next = c.Row + 1
		}
	}
	if next >= b.size.Rows {
		return -1, ErrColumnFull
	}
	return next, nil
}

// ApplyMove drops a piece for occupant into column and returns the new board.
// The receiver is left untouched. moveNumber must be Len()+1.
func (b Board) ApplyMove(column int, occupant Party, moveNumber int) (Board, error) {
	invariant(moveNumber == len(b.cells)+1,
		fmt.Sprintf("move %d applied to a board holding %d moves", moveNumber, len(b.cells)))

	if occupant == Nobody {
		return Board{}, ErrNoOccupant
	}
	row, err := b.NextFreeRow(column)
	if err != nil {
		return Board{}, err
	}

	cell := Cell{Column: column, Row: row, Occupant: occupant}
	for _, c := range b.cells {
		if c.samePosition(cell) {
			return Board{}, ErrCellOccupied
		}
	}

	cells := make([]Cell, len(b.cells), len(b.cells)+1)
	copy(cells, b.cells)
	return Board{size: b.size, cells: append(cells, cell)}, nil
}

// ValidMoves lists the columns that can still take a piece, ascending.
func (b Board) ValidMoves() []int {
	heights := make([]int, b.size.Columns)
	for _, c := range b.cells {
		if c.Row+1 > heights[c.Column] {
			heights[c.Column] = c.Row + 1
		}
	}
	moves := []int{}
	for col, h := range heights {
		if h < b.size.Rows {
			moves = append(moves, col)
		}
	}
	return moves
}

// Equal reports whether both boards have the same size and the same moves in
// the same order.
func (b Board) Equal(o Board) bool {
	if b.size != o.size || len(b.cells) != len(o.cells) {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Extends reports whether b is prev plus exactly one more move.
func (b Board) Extends(prev Board) bool {
	if b.size != prev.size || len(b.cells) != len(prev.cells)+1 {
		return false
	}
	for i := range prev.cells {
		if b.cells[i] != prev.cells[i] {
			return false
		}
	}
	return true
}

// ReplayBoard rebuilds a board from a move map received from outside the
// engine, checking every board invariant on the way.
func ReplayBoard(size BoardSize, moves map[int]Cell) (Board, error) {
	if err := size.Validate(); err != nil {
		return Board{}, err
	}
	if len(moves) > size.Cells() {
		return Board{}, Reject(ErrBoardViolation, "more moves than cells on the board")
	}

	board := NewBoard(size)
	for n := 1; n <= len(moves); n++ {
		cell, ok := moves[n]
		if !ok {
			return Board{}, Reject(ErrBoardViolation, "move numbers must be contiguous from 1, missing move "+strconv.Itoa(n))
		}
		if !size.contains(cell.Column, cell.Row) {
			return Board{}, Reject(ErrBoardViolation, "move "+strconv.Itoa(n)+" lies outside the board")
		}
		if board.OccupantAt(cell.Column, cell.Row) != Nobody {
			return Board{}, Reject(ErrBoardViolation, "move "+strconv.Itoa(n)+" lands on an occupied cell")
		}
		next, err := board.ApplyMove(cell.Column, cell.Occupant, n)
		if err != nil {
			return Board{}, err
		}
		if placed := next.cells[n-1]; placed.Row != cell.Row {
			return Board{}, Reject(ErrBoardViolation, "move "+strconv.Itoa(n)+" is not at the lowest free row of its column")
		}
		board = next
	}
	return board, nil
}

type boardJSON struct {
	Size  BoardSize    `json:"size"`
	Moves map[int]Cell `json:"moves"`
}

func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Size: b.size, Moves: b.Moves()})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	board, err := ReplayBoard(raw.Size, raw.Moves)
	if err != nil {
		return err
	}
	*b = board
	return nil
}
