package contract

import "github.com/iamasit07/connect4-rules/internal/domain"

// Transaction is a proposed state change: the records it consumes, the
// records it produces, the commands explaining why, and the parties that
// have signed it so far.
type Transaction struct {
	Commands     []Command           `json:"-"`
	InputGames   []domain.Game       `json:"inputGames,omitempty"`
	OutputGames  []domain.Game       `json:"outputGames,omitempty"`
	InputBoards  []domain.BoardState `json:"inputBoards,omitempty"`
	OutputBoards []domain.BoardState `json:"outputBoards,omitempty"`
	Signers      []domain.Party      `json:"signers,omitempty"`
}

// Snapshot is the pair of records a game is made of at one point in time.
// Either may be absent.
type Snapshot struct {
	Game  *domain.Game
	Board *domain.BoardState
}

// NewTransaction turns a prior/proposed snapshot pair into a transaction.
func NewTransaction(prior, proposed Snapshot, cmds ...Command) Transaction {
	tx := Transaction{Commands: cmds}
	if prior.Game != nil {
		tx.InputGames = append(tx.InputGames, *prior.Game)
	}
	if prior.Board != nil {
		tx.InputBoards = append(tx.InputBoards, *prior.Board)
	}
	if proposed.Game != nil {
		tx.OutputGames = append(tx.OutputGames, *proposed.Game)
	}
	if proposed.Board != nil {
		tx.OutputBoards = append(tx.OutputBoards, *proposed.Board)
	}
	return tx
}

// CommandNames lists the commands in order, for logs and storage.
func (tx Transaction) CommandNames() []string {
	names := make([]string, 0, len(tx.Commands))
	for _, c := range tx.Commands {
		names = append(names, c.Name())
	}
	return names
}

// GameID is the id of the game the transaction is about.
func (tx Transaction) GameID() string {
	for _, games := range [][]domain.Game{tx.OutputGames, tx.InputGames} {
		if len(games) > 0 {
			return games[0].ID
		}
	}
	for _, boards := range [][]domain.BoardState{tx.OutputBoards, tx.InputBoards} {
		if len(boards) > 0 {
			return boards[0].GameID
		}
	}
	return ""
}

// Sign returns a copy of tx with party added to its signers.
func (tx Transaction) Sign(party domain.Party) Transaction {
	if tx.SignedBy(party) {
		return tx
	}
	signers := make([]domain.Party, len(tx.Signers), len(tx.Signers)+1)
	copy(signers, tx.Signers)
	tx.Signers = append(signers, party)
	return tx
}

func (tx Transaction) SignedBy(party domain.Party) bool {
	for _, s := range tx.Signers {
		if s == party {
			return true
		}
	}
	return false
}

// RequiredSigners lists, without duplicates, the parties whose signatures
// the commands of tx call for.
func RequiredSigners(tx Transaction) []domain.Party {
	var out []domain.Party
	add := func(parties ...domain.Party) {
		for _, p := range parties {
			if p == domain.Nobody {
				continue
			}
			dup := false
			for _, seen := range out {
				dup = dup || seen == p
			}
			if !dup {
				out = append(out, p)
			}
		}
	}

	for _, cmd := range tx.Commands {
		switch cmd.(type) {
		case NewGame, Activate:
			if len(tx.OutputGames) > 0 {
				add(tx.OutputGames[0].Initiator)
			}
		case AcceptGame, RejectGame:
			if len(tx.OutputGames) > 0 {
				add(tx.OutputGames[0].Participant)
			}
		case CompleteGame:
			if len(tx.OutputGames) > 0 {
				add(tx.OutputGames[0].Participants()...)
			}
		case NewBoard:
			if len(tx.OutputBoards) > 0 {
				add(tx.OutputBoards[0].Participant)
			}
		case Play:
			if len(tx.InputBoards) > 0 {
				add(tx.InputBoards[0].NextTurn)
			}
		case WinningPlay, Draw:
			if len(tx.OutputBoards) > 0 {
				add(tx.OutputBoards[0].Participants()...)
			}
		}
	}
	return out
}
