package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/connect4-rules/internal/contract"
	"github.com/iamasit07/connect4-rules/internal/domain"
	"github.com/iamasit07/connect4-rules/internal/repository/memory"
)

func seed(t *testing.T, l Ledger) (domain.Game, domain.BoardState) {
	t.Helper()
	ctx := context.Background()
	g, err := domain.NewGame("game-1", "alice", "bob", domain.ColorRed, domain.BoardSize{Columns: 5, Rows: 5})
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, contract.NewTransaction(contract.Snapshot{}, contract.Snapshot{Game: &g}, contract.NewGame{})))

	accepted, err := g.Accept(domain.ColorBlue)
	require.NoError(t, err)
	board := domain.NewBoardState("board-1", accepted)
	require.NoError(t, l.Record(ctx, contract.NewTransaction(
		contract.Snapshot{Game: &g},
		contract.Snapshot{Game: &accepted, Board: &board},
		contract.AcceptGame{}, contract.NewBoard{},
	)))
	return accepted, board
}

func TestNilClientPassesThrough(t *testing.T) {
	ctx := context.Background()
	cached := NewCachedLedger(memory.NewLedger(), nil, time.Minute, nil)

	g, board := seed(t, cached)

	got, err := cached.Game(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g, got)

	gotBoard, err := cached.BoardForGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, board.ID, gotBoard.ID)

	_, err = cached.Game(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	txs, err := cached.History(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestUnreachableRedisFallsBackToLedger(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	cached := NewCachedLedger(memory.NewLedger(), client, time.Minute, nil)

	g, board := seed(t, cached)

	next, _, err := board.Play(0, "alice")
	require.NoError(t, err)
	active, err := g.Activate(next.NextTurn)
	require.NoError(t, err)
	require.NoError(t, cached.Record(ctx, contract.NewTransaction(
		contract.Snapshot{Game: &g, Board: &board},
		contract.Snapshot{Game: &active, Board: &next},
		contract.Play{Column: 0}, contract.Activate{},
	)))

	got, err := cached.Game(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)

	gotBoard, err := cached.BoardForGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, gotBoard.MoveNumber)
}

func TestConnectWithoutAddressDisablesCache(t *testing.T) {
	assert.Nil(t, Connect(context.Background(), "", "", nil))
}

func TestKeysAreNamespacedPerGame(t *testing.T) {
	assert.Equal(t, "connect4:game:game-1", gameKey("game-1"))
	assert.Equal(t, "connect4:board:game-1", boardKey("game-1"))
	assert.NotEqual(t, gameKey("x"), boardKey("x"))
}
