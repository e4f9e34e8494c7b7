package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice Party = "alice"
	bob   Party = "bob"
)

// drop plays the given columns in order, alternating alice and bob.
func drop(t *testing.T, size BoardSize, columns ...int) Board {
	t.Helper()
	board := NewBoard(size)
	for i, col := range columns {
		player := alice
		if i%2 == 1 {
			player = bob
		}
		next, err := board.ApplyMove(col, player, board.Len()+1)
		require.NoError(t, err, "move %d in column %d", i+1, col)
		board = next
	}
	return board
}

func TestNextFreeRow(t *testing.T) {
	size := BoardSize{Columns: 5, Rows: 4}
	board := drop(t, size, 2, 2, 3)

	row, err := board.NextFreeRow(0)
	require.NoError(t, err)
	assert.Equal(t, 0, row)

	row, err = board.NextFreeRow(2)
	require.NoError(t, err)
	assert.Equal(t, 2, row)

	row, err = board.NextFreeRow(3)
	require.NoError(t, err)
	assert.Equal(t, 1, row)
}

func TestNextFreeRowRejectsBadColumns(t *testing.T) {
	board := drop(t, BoardSize{Columns: 4, Rows: 4}, 1, 1, 1, 1)

	_, err := board.NextFreeRow(1)
	assert.ErrorIs(t, err, ErrColumnFull)
	assert.ErrorIs(t, err, ErrBoardViolation)

	for _, col := range []int{-1, 4, 10} {
		_, err := board.NextFreeRow(col)
		assert.ErrorIs(t, err, ErrInvalidColumn, "column %d", col)
	}
}

func TestApplyMoveStacksAtLowestFreeRow(t *testing.T) {
	size := BoardSize{Columns: 6, Rows: 5}
	for col := 0; col < size.Columns; col++ {
		board := NewBoard(size)
		for row := 0; row < size.Rows; row++ {
			next, err := board.ApplyMove(col, alice, board.Len()+1)
			require.NoError(t, err)

			cell, ok := next.Cell(next.Len())
			require.True(t, ok)
			assert.Equal(t, Cell{Column: col, Row: row, Occupant: alice}, cell)
			board = next
		}

		_, err := board.ApplyMove(col, bob, board.Len()+1)
		assert.ErrorIs(t, err, ErrColumnFull)
		assert.Equal(t, ErrBoardViolation, KindOf(err))
	}
}

func TestApplyMoveLeavesReceiverUntouched(t *testing.T) {
	before := drop(t, BoardSize{Columns: 7, Rows: 6}, 3, 3)
	snapshot := before.Cells()

	after, err := before.ApplyMove(4, alice, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, before.Len())
	assert.Equal(t, snapshot, before.Cells())
	assert.Equal(t, 3, after.Len())
	assert.True(t, after.Extends(before))
	assert.False(t, before.Extends(after))
}

func TestApplyMoveRejectsMissingOccupant(t *testing.T) {
	_, err := NewBoard(BoardSize{Columns: 4, Rows: 4}).ApplyMove(0, Nobody, 1)
	assert.ErrorIs(t, err, ErrNoOccupant)
}

func TestApplyMovePanicsOnMoveNumberGap(t *testing.T) {
	board := drop(t, BoardSize{Columns: 4, Rows: 4}, 0)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		v, ok := r.(*Violation)
		require.True(t, ok)
		assert.Equal(t, ErrInternal, v.Kind)
	}()
	board.ApplyMove(1, bob, 3)
}

func TestValidMoves(t *testing.T) {
	board := drop(t, BoardSize{Columns: 4, Rows: 4}, 2, 2, 2, 2, 0)
	assert.Equal(t, []int{0, 1, 3}, board.ValidMoves())
}

func TestGridIsColumnMajor(t *testing.T) {
	board := drop(t, BoardSize{Columns: 5, Rows: 4}, 4, 4)
	grid := board.Grid()

	require.Len(t, grid, 5)
	require.Len(t, grid[0], 4)
	assert.Equal(t, alice, grid[4][0])
	assert.Equal(t, bob, grid[4][1])
	assert.Equal(t, Nobody, grid[0][0])
	assert.Equal(t, bob, board.OccupantAt(4, 1))
}

func TestReplayBoard(t *testing.T) {
	size := BoardSize{Columns: 5, Rows: 5}
	played := drop(t, size, 0, 1, 1, 2, 3)

	replayed, err := ReplayBoard(size, played.Moves())
	require.NoError(t, err)
	assert.True(t, replayed.Equal(played))

	tests := []struct {
		name  string
		moves map[int]Cell
	}{
		{
			name:  "gap in move numbers",
			moves: map[int]Cell{1: {0, 0, alice}, 3: {1, 0, bob}},
		},
		{
			name:  "floating piece",
			moves: map[int]Cell{1: {0, 0, alice}, 2: {1, 2, bob}},
		},
		{
			name:  "same position twice",
			moves: map[int]Cell{1: {0, 0, alice}, 2: {0, 0, bob}},
		},
		{
			name:  "outside the board",
			moves: map[int]Cell{1: {5, 0, alice}},
		},
		{
			name:  "no occupant",
			moves: map[int]Cell{1: {0, 0, Nobody}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReplayBoard(size, tt.moves)
			assert.ErrorIs(t, err, ErrBoardViolation)
		})
	}
}

func TestReplayBoardRejectsBadSize(t *testing.T) {
	_, err := ReplayBoard(BoardSize{Columns: 3, Rows: 8}, nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestBoardJSONGoesThroughReplay(t *testing.T) {
	board := drop(t, BoardSize{Columns: 6, Rows: 4}, 5, 5, 0)

	data, err := json.Marshal(board)
	require.NoError(t, err)

	var decoded Board
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equal(board))

	tampered := []byte(`{"size":{"columns":6,"rows":4},"moves":{"1":{"column":0,"row":3,"occupant":"alice"}}}`)
	err = json.Unmarshal(tampered, &decoded)
	assert.True(t, errors.Is(err, ErrBoardViolation))
}
