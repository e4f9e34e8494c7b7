package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-rules/internal/contract"
	"github.com/iamasit07/connect4-rules/internal/domain"
)

// Ledger is the store being cached.
type Ledger interface {
	Game(ctx context.Context, id string) (domain.Game, error)
	BoardForGame(ctx context.Context, gameID string) (domain.BoardState, error)
	Record(ctx context.Context, tx contract.Transaction) error
	History(ctx context.Context, gameID string) ([]contract.Transaction, error)
	GamesFor(ctx context.Context, party domain.Party) ([]domain.Game, error)
}

// CachedLedger serves the latest snapshots from redis and writes them
// through on Record. Cache failures are logged and fall back to the
// underlying ledger; a nil client disables the cache.
type CachedLedger struct {
	Ledger
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedLedger(inner Ledger, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedLedger{Ledger: inner, client: client, ttl: ttl, logger: logger.Named("cache")}
}

func gameKey(id string) string      { return "connect4:game:" + id }
func boardKey(gameID string) string { return "connect4:board:" + gameID }

func (c *CachedLedger) Game(ctx context.Context, id string) (domain.Game, error) {
	var g domain.Game
	if c.load(ctx, gameKey(id), &g) {
		return g, nil
	}
	g, err := c.Ledger.Game(ctx, id)
	if err != nil {
		return domain.Game{}, err
	}
	c.store(ctx, gameKey(id), g)
	return g, nil
}

func (c *CachedLedger) BoardForGame(ctx context.Context, gameID string) (domain.BoardState, error) {
	var b domain.BoardState
	if c.load(ctx, boardKey(gameID), &b) {
		return b, nil
	}
	b, err := c.Ledger.BoardForGame(ctx, gameID)
	if err != nil {
		return domain.BoardState{}, err
	}
	c.store(ctx, boardKey(gameID), b)
	return b, nil
}

func (c *CachedLedger) Record(ctx context.Context, tx contract.Transaction) error {
	if err := c.Ledger.Record(ctx, tx); err != nil {
		if errors.Is(err, domain.ErrStale) {
			c.evict(ctx, tx)
		}
		return err
	}
	for _, g := range tx.OutputGames {
		c.store(ctx, gameKey(g.ID), g)
	}
	for _, b := range tx.OutputBoards {
		c.store(ctx, boardKey(b.GameID), b)
	}
	return nil
}

func (c *CachedLedger) load(ctx context.Context, key string, v any) bool {
	if c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return false
	}
	return true
}

func (c *CachedLedger) store(ctx context.Context, key string, v any) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
	}
}

// evict drops the snapshots a stale transaction was built from, so the
// next read goes to the ledger.
func (c *CachedLedger) evict(ctx context.Context, tx contract.Transaction) {
	if c.client == nil {
		return
	}
	gameID := tx.GameID()
	if err := c.client.Del(ctx, gameKey(gameID), boardKey(gameID)).Err(); err != nil {
		c.logger.Warn("cache evict failed", zap.String("gameId", gameID), zap.Error(err))
	}
}
