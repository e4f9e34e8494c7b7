package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-rules/internal/contract"
	"github.com/iamasit07/connect4-rules/internal/domain"
)

func newGame(t *testing.T) domain.Game {
	t.Helper()
	g, err := domain.NewGame("game-1", "alice", "bob", domain.ColorRed, domain.BoardSize{Columns: 7, Rows: 6})
	require.NoError(t, err)
	return g
}

func TestRecordStoresLatestSnapshots(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	_, err := l.Game(ctx, "game-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	g := newGame(t)
	require.NoError(t, l.Record(ctx, contract.NewTransaction(contract.Snapshot{}, contract.Snapshot{Game: &g}, contract.NewGame{})))

	accepted, err := g.Accept(domain.ColorBlue)
	require.NoError(t, err)
	board := domain.NewBoardState("board-1", accepted)
	require.NoError(t, l.Record(ctx, contract.NewTransaction(
		contract.Snapshot{Game: &g},
		contract.Snapshot{Game: &accepted, Board: &board},
		contract.AcceptGame{}, contract.NewBoard{},
	)))

	stored, err := l.Game(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, accepted, stored)

	storedBoard, err := l.BoardForGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, "board-1", storedBoard.ID)

	txs, err := l.History(ctx, "game-1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, []string{"AcceptGame", "NewBoard"}, txs[1].CommandNames())

	games, err := l.GamesFor(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []domain.Game{accepted}, games)
	games, err = l.GamesFor(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestRecordRefusesStaleInputs(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	g := newGame(t)
	create := contract.NewTransaction(contract.Snapshot{}, contract.Snapshot{Game: &g}, contract.NewGame{})
	require.NoError(t, l.Record(ctx, create))
	assert.ErrorIs(t, l.Record(ctx, create), domain.ErrStale)

	rejected, err := g.Reject()
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, contract.NewTransaction(contract.Snapshot{Game: &g}, contract.Snapshot{Game: &rejected}, contract.RejectGame{})))

	// a second answer to the same offer arrives too late
	accepted, err := g.Accept(domain.ColorBlue)
	require.NoError(t, err)
	board := domain.NewBoardState("board-1", accepted)
	err = l.Record(ctx, contract.NewTransaction(
		contract.Snapshot{Game: &g},
		contract.Snapshot{Game: &accepted, Board: &board},
		contract.AcceptGame{}, contract.NewBoard{},
	))
	assert.ErrorIs(t, err, domain.ErrStale)
	assert.Equal(t, domain.ErrIllegalTransition, domain.KindOf(err))

	_, err = l.BoardForGame(ctx, "game-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordRefusesReplayedMove(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	g := newGame(t)
	accepted, err := g.Accept(domain.ColorBlue)
	require.NoError(t, err)
	board := domain.NewBoardState("board-1", accepted)
	require.NoError(t, l.Record(ctx, contract.NewTransaction(contract.Snapshot{}, contract.Snapshot{Game: &g}, contract.NewGame{})))
	require.NoError(t, l.Record(ctx, contract.NewTransaction(
		contract.Snapshot{Game: &g},
		contract.Snapshot{Game: &accepted, Board: &board},
		contract.AcceptGame{}, contract.NewBoard{},
	)))

	first, _, err := board.Play(3, "alice")
	require.NoError(t, err)
	active, err := accepted.Activate(first.NextTurn)
	require.NoError(t, err)
	move := contract.NewTransaction(
		contract.Snapshot{Game: &accepted, Board: &board},
		contract.Snapshot{Game: &active, Board: &first},
		contract.Play{Column: 3}, contract.Activate{},
	)
	require.NoError(t, l.Record(ctx, move))
	assert.ErrorIs(t, l.Record(ctx, move), domain.ErrStale)

	latest, err := l.BoardForGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.MoveNumber)
}
