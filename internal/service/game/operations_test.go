package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-rules/internal/contract"
	"github.com/iamasit07/connect4-rules/internal/domain"
)

func TestOperationsBuildLegalTransactions(t *testing.T) {
	created, err := CreateGame("game-1", alice, bob, domain.ColorBlue, domain.BoardSize{Columns: 4, Rows: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"NewGame"}, created.Transaction.CommandNames())
	assert.Empty(t, created.Transaction.Signers)

	accepted, err := AcceptGame(*created.Game, "board-1", domain.ColorBlack)
	require.NoError(t, err)
	assert.Equal(t, []string{"AcceptGame", "NewBoard"}, accepted.Transaction.CommandNames())
	assert.Equal(t, alice, accepted.Board.NextTurn)

	g, board := *accepted.Game, *accepted.Board
	first, err := ProposeMove(g, board, 0, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"Play", "Activate"}, first.Transaction.CommandNames())
	require.NotNil(t, first.Game)
	assert.Equal(t, domain.StatusActive, first.Game.Status)
	assert.Equal(t, bob, first.Game.NextTurn)

	g, board = *first.Game, *first.Board
	second, err := ProposeMove(g, board, 1, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{"Play"}, second.Transaction.CommandNames())
	assert.Nil(t, second.Game)
	assert.Empty(t, second.Transaction.InputGames)
}

func TestProposeMoveToDraw(t *testing.T) {
	created, err := CreateGame("game-1", alice, bob, domain.ColorBlue, domain.BoardSize{Columns: 4, Rows: 4})
	require.NoError(t, err)
	accepted, err := AcceptGame(*created.Game, "board-1", domain.ColorBlack)
	require.NoError(t, err)

	g, board := *accepted.Game, *accepted.Board
	var last Proposal
	for _, col := range []int{0, 1, 0, 1, 1, 0, 1, 0, 2, 3, 2, 3, 3, 2, 3, 2} {
		last, err = ProposeMove(g, board, col, board.NextTurn)
		require.NoError(t, err)
		if last.Game != nil {
			g = *last.Game
		}
		board = *last.Board
	}

	assert.Equal(t, domain.Progress{Status: domain.StatusDraw}, last.Progress)
	assert.Equal(t, []string{"Draw", "CompleteGame"}, last.Transaction.CommandNames())
	assert.Equal(t, domain.StatusDraw, g.Status)
	assert.Equal(t, domain.Nobody, g.Victor)
	assert.Equal(t, domain.StatusComplete, board.Status)
	assert.ElementsMatch(t, []domain.Party{alice, bob}, contract.RequiredSigners(last.Transaction))
}

func TestProposeMoveRejections(t *testing.T) {
	created, err := CreateGame("game-1", alice, bob, domain.ColorBlue, domain.BoardSize{Columns: 5, Rows: 4})
	require.NoError(t, err)
	accepted, err := AcceptGame(*created.Game, "board-1", domain.ColorBlack)
	require.NoError(t, err)
	g, board := *accepted.Game, *accepted.Board

	other := board
	other.GameID = "game-2"
	_, err = ProposeMove(g, other, 0, alice)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	recast := g
	recast.Participant = carol
	_, err = ProposeMove(recast, board, 0, alice)
	var v *domain.Violation
	require.ErrorAs(t, err, &v)
	assert.Equal(t, domain.ErrIllegalTransition, v.Kind)
	assert.Equal(t, alice, v.Actor)

	resized := g
	resized.Size = domain.BoardSize{Columns: 6, Rows: 4}
	_, err = ProposeMove(resized, board, 0, alice)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = ProposeMove(g, board, 5, alice)
	assert.ErrorIs(t, err, domain.ErrInvalidColumn)

	_, err = ProposeMove(g, board, 0, carol)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)

	_, err = AcceptGame(g, "board-2", domain.ColorRed)
	assert.ErrorIs(t, err, domain.ErrIllegalTransition)
}

func TestValidateTransitionMatchesOperations(t *testing.T) {
	created, err := CreateGame("game-1", alice, bob, domain.ColorBlue, domain.BoardSize{Columns: 6, Rows: 7})
	require.NoError(t, err)

	require.NoError(t, ValidateTransition(contract.Snapshot{}, contract.Snapshot{Game: created.Game}, contract.NewGame{}))
	assert.ErrorIs(t, ValidateTransition(contract.Snapshot{}, contract.Snapshot{Game: created.Game}, contract.RejectGame{}), domain.ErrIllegalTransition)
}
