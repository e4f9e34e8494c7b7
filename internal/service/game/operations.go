package game

import (
	"github.com/iamasit07/connect4-rules/internal/contract"
	"github.com/iamasit07/connect4-rules/internal/domain"
)

// Proposal is the outcome of one operation: the snapshots it would produce
// and the unsigned transaction describing how they were reached.
type Proposal struct {
	Game        *domain.Game         `json:"game,omitempty"`
	Board       *domain.BoardState   `json:"board,omitempty"`
	Progress    domain.Progress      `json:"progress"`
	Transaction contract.Transaction `json:"-"`
}

// CreateGame opens a PENDING game challenging participant.
func CreateGame(id string, initiator, participant domain.Party, color domain.Color, size domain.BoardSize) (Proposal, error) {
	g, err := domain.NewGame(id, initiator, participant, color, size)
	if err != nil {
		return Proposal{}, err
	}
	tx := contract.NewTransaction(contract.Snapshot{}, contract.Snapshot{Game: &g}, contract.NewGame{})
	return settle(tx, Proposal{Game: &g, Progress: domain.Progress{Status: g.Status}})
}

// AcceptGame accepts a pending game and opens its board.
func AcceptGame(g domain.Game, boardID string, color domain.Color) (Proposal, error) {
	accepted, err := g.Accept(color)
	if err != nil {
		return Proposal{}, err
	}
	board := domain.NewBoardState(boardID, accepted)
	tx := contract.NewTransaction(
		contract.Snapshot{Game: &g},
		contract.Snapshot{Game: &accepted, Board: &board},
		contract.AcceptGame{}, contract.NewBoard{},
	)
	return settle(tx, Proposal{Game: &accepted, Board: &board, Progress: domain.Progress{Status: accepted.Status}})
}

func RejectGame(g domain.Game) (Proposal, error) {
	rejected, err := g.Reject()
	if err != nil {
		return Proposal{}, err
	}
	tx := contract.NewTransaction(contract.Snapshot{Game: &g}, contract.Snapshot{Game: &rejected}, contract.RejectGame{})
	return settle(tx, Proposal{Game: &rejected, Progress: domain.Progress{Status: rejected.Status}})
}

// ProposeMove drops mover's piece into column. The game record travels with
// the board only when it changes: on the first move, which activates it, and
// on the last, which completes it.
func ProposeMove(g domain.Game, board domain.BoardState, column int, mover domain.Party) (Proposal, error) {
	if board.GameID != g.ID || board.Initiator != g.Initiator || board.Participant != g.Participant || board.Size != g.Size {
		return Proposal{}, domain.Reject(domain.ErrIllegalTransition, "the board must belong to the game").By(mover)
	}
	next, progress, err := board.Play(column, mover)
	if err != nil {
		return Proposal{}, err
	}

	cmds := []contract.Command{contract.MoveCommand(column, progress)}
	proposed := contract.Snapshot{Board: &next}
	prior := contract.Snapshot{Board: &board}

	updated := g
	if board.MoveNumber == 1 {
		if updated, err = updated.Activate(next.NextTurn); err != nil {
			return Proposal{}, err
		}
		cmds = append(cmds, contract.Activate{})
	}
	if progress.Status != domain.StatusActive {
		if updated, err = updated.Complete(progress, next.NextTurn); err != nil {
			return Proposal{}, err
		}
		cmds = append(cmds, contract.CompleteGame{})
	}
	if len(cmds) > 1 {
		prior.Game, proposed.Game = &g, &updated
	}

	p := Proposal{Board: &next, Progress: progress}
	if proposed.Game != nil {
		p.Game = &updated
	}
	return settle(contract.NewTransaction(prior, proposed, cmds...), p)
}

// ValidateTransition checks a transition built elsewhere, without signers.
func ValidateTransition(prior, proposed contract.Snapshot, cmds ...contract.Command) error {
	return contract.ValidateTransition(prior, proposed, cmds...)
}

// settle attaches tx to p once the rules accept it. The operations above
// only build transitions the rules allow, so a rejection here is a bug.
func settle(tx contract.Transaction, p Proposal) (Proposal, error) {
	if err := contract.VerifyLegality(tx); err != nil {
		panic(domain.Reject(domain.ErrInternal, "operation produced an illegal transition: "+err.Error()))
	}
	p.Transaction = tx
	return p, nil
}
