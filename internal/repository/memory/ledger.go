package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iamasit07/connect4-rules/internal/contract"
	"github.com/iamasit07/connect4-rules/internal/domain"
)

// Ledger keeps the latest snapshots and the transaction log in process
// memory. It is used when no database is configured, and in tests.
type Ledger struct {
	mu      sync.RWMutex
	games   map[string]domain.Game       // gameID → latest game
	boards  map[string]domain.BoardState // gameID → latest board
	history map[string][]contract.Transaction
}

func NewLedger() *Ledger {
	return &Ledger{
		games:   make(map[string]domain.Game),
		boards:  make(map[string]domain.BoardState),
		history: make(map[string][]contract.Transaction),
	}
}

func (l *Ledger) Game(_ context.Context, id string) (domain.Game, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	g, ok := l.games[id]
	if !ok {
		return domain.Game{}, domain.ErrNotFound
	}
	return g, nil
}

func (l *Ledger) BoardForGame(_ context.Context, gameID string) (domain.BoardState, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.boards[gameID]
	if !ok {
		return domain.BoardState{}, domain.ErrNotFound
	}
	return b, nil
}

// GamesFor lists the games party plays in, ordered by id.
func (l *Ledger) GamesFor(_ context.Context, party domain.Party) ([]domain.Game, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var games []domain.Game
	for _, g := range l.games {
		if g.IsParticipant(party) {
			games = append(games, g)
		}
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

func (l *Ledger) History(_ context.Context, gameID string) ([]contract.Transaction, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	txs, ok := l.history[gameID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := make([]contract.Transaction, len(txs))
	copy(out, txs)
	return out, nil
}

// Record stores the outputs of tx provided its inputs are still the latest
// records. It does not re-verify tx.
func (l *Ledger) Record(_ context.Context, tx contract.Transaction) error {
	gameID := tx.GameID()
	if gameID == "" {
		return fmt.Errorf("transaction without records")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkLatest(tx); err != nil {
		return err
	}
	for _, g := range tx.OutputGames {
		l.games[g.ID] = g
	}
	for _, b := range tx.OutputBoards {
		l.boards[b.GameID] = b
	}
	l.history[gameID] = append(l.history[gameID], tx)
	return nil
}

func (l *Ledger) checkLatest(tx contract.Transaction) error {
	if len(tx.InputGames) == 0 {
		for _, g := range tx.OutputGames {
			if _, exists := l.games[g.ID]; exists {
				return domain.ErrStale
			}
		}
	}
	for _, in := range tx.InputGames {
		if current, ok := l.games[in.ID]; !ok || current != in {
			return domain.ErrStale
		}
	}

	if len(tx.InputBoards) == 0 {
		for _, b := range tx.OutputBoards {
			if _, exists := l.boards[b.GameID]; exists {
				return domain.ErrStale
			}
		}
	}
	for _, in := range tx.InputBoards {
		current, ok := l.boards[in.GameID]
		if !ok || !sameRevision(current, in) {
			return domain.ErrStale
		}
	}
	return nil
}

func sameRevision(a, b domain.BoardState) bool {
	return a.ID == b.ID && a.MoveNumber == b.MoveNumber && a.Status == b.Status && a.NextTurn == b.NextTurn
}
