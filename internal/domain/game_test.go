package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameBoardSizeBounds(t *testing.T) {
	for c := MinBoardSize; c <= MaxBoardSize; c++ {
		for r := MinBoardSize; r <= MaxBoardSize; r++ {
			g, err := NewGame("g", alice, bob, ColorRed, BoardSize{Columns: c, Rows: r})
			require.NoError(t, err, "%dx%d", c, r)
			assert.Equal(t, StatusPending, g.Status)
			assert.Equal(t, alice, g.NextTurn)
		}
	}

	for _, size := range []BoardSize{{0, 0}, {3, 4}, {4, 3}, {11, 10}, {10, 11}, {-4, 6}} {
		_, err := NewGame("g", alice, bob, ColorRed, size)
		assert.ErrorIs(t, err, ErrConfiguration, "%dx%d", size.Columns, size.Rows)
	}
}

func TestNewGameRejectsBadParticipants(t *testing.T) {
	size := BoardSize{Columns: 7, Rows: 6}

	_, err := NewGame("g", alice, alice, ColorRed, size)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewGame("g", alice, Nobody, ColorRed, size)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewGame("g", alice, bob, Color("PURPLE"), size)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestGameLifecycle(t *testing.T) {
	pending, err := NewGame("g", alice, bob, ColorRed, BoardSize{Columns: 7, Rows: 6})
	require.NoError(t, err)

	_, err = pending.Accept(ColorRed)
	assert.ErrorIs(t, err, ErrConfiguration)

	accepted, err := pending.Accept(ColorBlack)
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, accepted.Status)
	assert.Equal(t, ColorBlack, accepted.ParticipantColor)
	assert.Equal(t, StatusPending, pending.Status, "receiver must not change")

	_, err = accepted.Reject()
	assert.ErrorIs(t, err, ErrIllegalTransition)

	_, err = pending.Activate(bob)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	active, err := accepted.Activate(bob)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, active.Status)

	_, err = active.Complete(Progress{Status: StatusActive}, alice)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	_, err = active.Complete(Progress{Status: StatusComplete}, alice)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	won, err := active.Complete(Progress{Status: StatusComplete, Victor: alice}, bob)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, won.Status)
	assert.Equal(t, alice, won.Victor)
	assert.True(t, won.IsFinished())

	drawn, err := active.Complete(Progress{Status: StatusDraw, Victor: alice}, bob)
	require.NoError(t, err)
	assert.Equal(t, StatusDraw, drawn.Status)
	assert.Equal(t, Nobody, drawn.Victor)

	rejected, err := pending.Reject()
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor(" yellow ")
	require.NoError(t, err)
	assert.Equal(t, ColorYellow, c)

	_, err = ParseColor("green")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func newBoardState(t *testing.T, size BoardSize) BoardState {
	t.Helper()
	g, err := NewGame("g", alice, bob, ColorRed, size)
	require.NoError(t, err)
	g, err = g.Accept(ColorBlue)
	require.NoError(t, err)
	return NewBoardState("b", g)
}

func TestBoardStatePlayAlternatesTurns(t *testing.T) {
	state := newBoardState(t, BoardSize{Columns: 7, Rows: 6})
	assert.Equal(t, alice, state.NextTurn)
	assert.Equal(t, 1, state.MoveNumber)

	columns := []int{3, 3, 2, 4, 6, 0, 1, 5}
	for i, col := range columns {
		mover := state.NextTurn
		next, progress, err := state.Play(col, mover)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, progress.Status)
		assert.Equal(t, state.Opponent(mover), next.NextTurn)
		assert.Equal(t, state.MoveNumber+1, next.MoveNumber)
		assert.Equal(t, i+2, next.MoveNumber)
		assert.Equal(t, next.MoveNumber-1, next.Board.Len())
		state = next
	}
}

func TestBoardStatePlayOutOfTurn(t *testing.T) {
	state := newBoardState(t, BoardSize{Columns: 7, Rows: 6})

	_, _, err := state.Play(0, bob)
	require.ErrorIs(t, err, ErrIllegalTransition)
	var v *Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, bob, v.Actor)

	_, _, err = state.Play(0, "mallory")
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestBoardStatePlayFullColumnIsBoardViolationForAnyone(t *testing.T) {
	state := newBoardState(t, BoardSize{Columns: 4, Rows: 4})
	for i := 0; i < 4; i++ {
		next, _, err := state.Play(0, state.NextTurn)
		require.NoError(t, err)
		state = next
	}

	for _, p := range []Party{alice, bob} {
		_, _, err := state.Play(0, p)
		assert.ErrorIs(t, err, ErrColumnFull, "mover %s", p)
		assert.ErrorIs(t, err, ErrBoardViolation)
	}
}

func TestBoardStatePlayStopsAtCompletion(t *testing.T) {
	state := newBoardState(t, BoardSize{Columns: 10, Rows: 10})
	var progress Progress
	for _, col := range []int{0, 1, 0, 1, 0, 1, 0} {
		next, p, err := state.Play(col, state.NextTurn)
		require.NoError(t, err)
		state, progress = next, p
	}

	assert.Equal(t, Progress{Status: StatusComplete, Victor: alice}, progress)
	assert.Equal(t, StatusComplete, state.Status)
	assert.Equal(t, 8, state.MoveNumber)

	_, _, err := state.Play(2, state.NextTurn)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}
