package game

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/iamasit07/connect4-rules/internal/contract"
	"github.com/iamasit07/connect4-rules/internal/domain"
	"github.com/iamasit07/connect4-rules/pkg/uid"
)

// Ledger stores accepted transactions and answers lookups of the latest
// snapshots. Record must refuse a transaction whose inputs are no longer
// the latest records.
type Ledger interface {
	Game(ctx context.Context, id string) (domain.Game, error)
	BoardForGame(ctx context.Context, gameID string) (domain.BoardState, error)
	Record(ctx context.Context, tx contract.Transaction) error
	History(ctx context.Context, gameID string) ([]contract.Transaction, error)
	GamesFor(ctx context.Context, party domain.Party) ([]domain.Game, error)
}

// CounterSigner collects the signature of a party other than the caller.
type CounterSigner interface {
	CounterSign(ctx context.Context, party domain.Party, tx contract.Transaction) (contract.Transaction, error)
}

// VerifyingCounterSigner signs for a counterparty after re-running the rules
// on its behalf. Both parties run the same rules, so a transition legal for
// one is legal for the other.
type VerifyingCounterSigner struct{}

func (VerifyingCounterSigner) CounterSign(_ context.Context, party domain.Party, tx contract.Transaction) (contract.Transaction, error) {
	if err := contract.VerifyLegality(tx); err != nil {
		return tx, err
	}
	return tx.Sign(party), nil
}

// Event is pushed to both participants once a transaction is recorded.
type Event struct {
	GameID   string             `json:"gameId"`
	Commands []string           `json:"commands"`
	Game     *domain.Game       `json:"game,omitempty"`
	Board    *domain.BoardState `json:"board,omitempty"`
	Progress domain.Progress    `json:"progress"`
}

type Notifier interface {
	Notify(party domain.Party, event Event) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(domain.Party, Event) error { return nil }

// Service runs the operations against the ledger: look up, build, verify
// with signatures, record, notify. Moves on one game are serialized.
type Service struct {
	ledger   Ledger
	signer   CounterSigner
	notifier Notifier
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(ledger Ledger, signer CounterSigner, notifier Notifier, logger *zap.Logger) *Service {
	if signer == nil {
		signer = VerifyingCounterSigner{}
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger:   ledger,
		signer:   signer,
		notifier: notifier,
		logger:   logger.Named("game"),
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *Service) lock(gameID string) func() {
	s.mu.Lock()
	l, ok := s.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[gameID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Service) CreateGame(ctx context.Context, initiator, participant domain.Party, color domain.Color, size domain.BoardSize) (Proposal, error) {
	p, err := CreateGame(uid.GenerateGameID(), initiator, participant, color, size)
	if err != nil {
		return Proposal{}, err
	}
	return s.commit(ctx, initiator, p)
}

// AcceptGame is only open to the participant the game was offered to.
func (s *Service) AcceptGame(ctx context.Context, gameID string, caller domain.Party, color domain.Color) (Proposal, error) {
	defer s.lock(gameID)()

	g, err := s.participantGame(ctx, gameID, caller)
	if err != nil {
		return Proposal{}, err
	}
	if caller != g.Participant {
		return Proposal{}, domain.Reject(domain.ErrIllegalTransition, "only the participant can accept a game").By(caller)
	}
	p, err := AcceptGame(g, uid.GenerateBoardID(), color)
	if err != nil {
		return Proposal{}, err
	}
	return s.commit(ctx, caller, p)
}

func (s *Service) RejectGame(ctx context.Context, gameID string, caller domain.Party) (Proposal, error) {
	defer s.lock(gameID)()

	g, err := s.participantGame(ctx, gameID, caller)
	if err != nil {
		return Proposal{}, err
	}
	if caller != g.Participant {
		return Proposal{}, domain.Reject(domain.ErrIllegalTransition, "only the participant can reject a game").By(caller)
	}
	p, err := RejectGame(g)
	if err != nil {
		return Proposal{}, err
	}
	return s.commit(ctx, caller, p)
}

// PlayMove drops the caller's piece into column.
func (s *Service) PlayMove(ctx context.Context, gameID string, caller domain.Party, column int) (Proposal, error) {
	defer s.lock(gameID)()

	g, err := s.participantGame(ctx, gameID, caller)
	if err != nil {
		return Proposal{}, err
	}
	if g.Status == domain.StatusPending || g.IsFinished() {
		return Proposal{}, domain.Reject(domain.ErrIllegalTransition, "the game is not being played").By(caller)
	}
	board, err := s.ledger.BoardForGame(ctx, gameID)
	if err != nil {
		return Proposal{}, fmt.Errorf("board for game %s: %w", gameID, err)
	}
	p, err := ProposeMove(g, board, column, caller)
	if err != nil {
		return Proposal{}, err
	}
	return s.commit(ctx, caller, p)
}

// Snapshot returns the latest records of a game the caller plays in. The
// board is nil until the game is accepted.
func (s *Service) Snapshot(ctx context.Context, gameID string, caller domain.Party) (domain.Game, *domain.BoardState, error) {
	g, err := s.participantGame(ctx, gameID, caller)
	if err != nil {
		return domain.Game{}, nil, err
	}
	if g.Status == domain.StatusPending || g.Status == domain.StatusRejected {
		return g, nil, nil
	}
	board, err := s.ledger.BoardForGame(ctx, gameID)
	if err != nil {
		return domain.Game{}, nil, fmt.Errorf("board for game %s: %w", gameID, err)
	}
	return g, &board, nil
}

// Games lists the games caller plays in.
func (s *Service) Games(ctx context.Context, caller domain.Party) ([]domain.Game, error) {
	games, err := s.ledger.GamesFor(ctx, caller)
	if err != nil {
		return nil, fmt.Errorf("games of %s: %w", caller, err)
	}
	return games, nil
}

// History lists the recorded transactions of a game, oldest first.
func (s *Service) History(ctx context.Context, gameID string, caller domain.Party) ([]contract.Transaction, error) {
	if _, err := s.participantGame(ctx, gameID, caller); err != nil {
		return nil, err
	}
	txs, err := s.ledger.History(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("history of game %s: %w", gameID, err)
	}
	return txs, nil
}

// participantGame hides games from anyone not playing in them.
func (s *Service) participantGame(ctx context.Context, gameID string, caller domain.Party) (domain.Game, error) {
	g, err := s.ledger.Game(ctx, gameID)
	if err != nil {
		return domain.Game{}, fmt.Errorf("game %s: %w", gameID, err)
	}
	if !g.IsParticipant(caller) {
		return domain.Game{}, fmt.Errorf("game %s: %w", gameID, domain.ErrNotFound)
	}
	return g, nil
}

func (s *Service) commit(ctx context.Context, caller domain.Party, p Proposal) (Proposal, error) {
	tx := p.Transaction.Sign(caller)
	for _, party := range contract.RequiredSigners(tx) {
		if tx.SignedBy(party) {
			continue
		}
		signed, err := s.signer.CounterSign(ctx, party, tx)
		if err != nil {
			return Proposal{}, fmt.Errorf("counter-sign by %s: %w", party, err)
		}
		tx = signed
	}

	if err := contract.Verify(tx); err != nil {
		return Proposal{}, err
	}
	if err := s.ledger.Record(ctx, tx); err != nil {
		return Proposal{}, fmt.Errorf("record %v: %w", tx.CommandNames(), err)
	}
	p.Transaction = tx

	s.logger.Info("transaction recorded",
		zap.String("gameId", tx.GameID()),
		zap.Strings("commands", tx.CommandNames()),
		zap.String("by", string(caller)),
	)
	s.broadcast(tx, p)
	return p, nil
}

func (s *Service) broadcast(tx contract.Transaction, p Proposal) {
	event := Event{
		GameID:   tx.GameID(),
		Commands: tx.CommandNames(),
		Game:     p.Game,
		Board:    p.Board,
		Progress: p.Progress,
	}
	var parties []domain.Party
	switch {
	case p.Game != nil:
		parties = p.Game.Participants()
	case p.Board != nil:
		parties = p.Board.Participants()
	}
	for _, party := range parties {
		if err := s.notifier.Notify(party, event); err != nil {
			s.logger.Warn("notify failed", zap.String("party", string(party)), zap.Error(err))
		}
	}
}
