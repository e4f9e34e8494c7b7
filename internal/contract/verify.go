package contract

import "github.com/iamasit07/connect4-rules/internal/domain"

// Verify decides whether tx is a legal transition and carries every
// signature its commands require. Checks run in a fixed order: transaction
// shape, then state content, then the links between the game and board
// commands, then signers. The first broken invariant is returned as a
// *domain.Violation.
func Verify(tx Transaction) error {
	return verify(tx, true)
}

// VerifyLegality runs every check of Verify except the signer phase.
func VerifyLegality(tx Transaction) error {
	return verify(tx, false)
}

// ValidateTransition checks the legality of prior -> proposed under cmds,
// leaving authorization to the caller.
func ValidateTransition(prior, proposed Snapshot, cmds ...Command) error {
	return VerifyLegality(NewTransaction(prior, proposed, cmds...))
}

func verify(tx Transaction, withSigners bool) error {
	gameCmd, boardCmd, err := splitCommands(tx)
	if err != nil {
		return err
	}

	if gameCmd != nil {
		if err := checkGameShape(gameCmd, tx); err != nil {
			return err
		}
	}
	if boardCmd != nil {
		if err := checkBoardShape(boardCmd, tx); err != nil {
			return err
		}
	}

	if gameCmd != nil {
		if err := checkGameContent(gameCmd, tx); err != nil {
			return err
		}
	}
	if boardCmd != nil {
		if err := checkBoardContent(boardCmd, tx); err != nil {
			return err
		}
	}

	if err := checkLinks(gameCmd, boardCmd, tx); err != nil {
		return err
	}

	if withSigners {
		return checkSigners(gameCmd, boardCmd, tx)
	}
	return nil
}

// splitCommands allows at most one command per family and requires a
// command for every family whose records appear in tx.
func splitCommands(tx Transaction) (gameCmd, boardCmd Command, err error) {
	if len(tx.Commands) == 0 {
		return nil, nil, domain.Reject(domain.ErrIllegalTransition, "a transaction needs a command")
	}
	for _, cmd := range tx.Commands {
		if cmd == nil {
			return nil, nil, domain.Reject(domain.ErrIllegalTransition, "a transaction cannot carry an empty command")
		}
		switch cmd.family() {
		case gameFamily:
			if gameCmd != nil {
				return nil, nil, reject(cmd, domain.ErrIllegalTransition, "only one game command per transaction")
			}
			gameCmd = cmd
		case boardFamily:
			if boardCmd != nil {
				return nil, nil, reject(cmd, domain.ErrIllegalTransition, "only one board command per transaction")
			}
			boardCmd = cmd
		}
	}

	if gameCmd == nil && len(tx.InputGames)+len(tx.OutputGames) > 0 {
		return nil, nil, domain.Reject(domain.ErrIllegalTransition, "game records need a game command")
	}
	if boardCmd == nil && len(tx.InputBoards)+len(tx.OutputBoards) > 0 {
		return nil, nil, domain.Reject(domain.ErrIllegalTransition, "board records need a board command")
	}
	return gameCmd, boardCmd, nil
}

// checkLinks ties the game command to the board command travelling with it.
func checkLinks(gameCmd, boardCmd Command, tx Transaction) error {
	switch gameCmd.(type) {
	case nil:
		switch boardCmd.(type) {
		case NewBoard:
			return reject(boardCmd, domain.ErrIllegalTransition, "a board is only created when its game is accepted")
		case WinningPlay, Draw:
			return reject(boardCmd, domain.ErrIllegalTransition, "the end of the board must complete the game")
		case Play:
			if tx.InputBoards[0].MoveNumber == 1 {
				return reject(boardCmd, domain.ErrIllegalTransition, "the first move must activate the game")
			}
		}
		return nil

	case NewGame, RejectGame:
		if boardCmd != nil {
			return reject(gameCmd, domain.ErrIllegalTransition, "this game command cannot travel with a board command")
		}
		return nil

	case AcceptGame:
		if _, ok := boardCmd.(NewBoard); !ok {
			return reject(gameCmd, domain.ErrIllegalTransition, "accepting a game must create its board")
		}
		return sameGame(gameCmd, tx.OutputGames[0], tx.OutputBoards[0])

	case Activate:
		if _, ok := column(boardCmd); !ok {
			return reject(gameCmd, domain.ErrIllegalTransition, "a game is activated by its first move")
		}
		if tx.InputBoards[0].MoveNumber != 1 {
			return reject(gameCmd, domain.ErrIllegalTransition, "a game is activated by its first move only")
		}
		if err := sameGame(gameCmd, tx.OutputGames[0], tx.OutputBoards[0]); err != nil {
			return err
		}
		return sameTurn(gameCmd, tx.OutputGames[0], tx.OutputBoards[0])

	case CompleteGame:
		out := tx.OutputGames[0]
		switch boardCmd.(type) {
		case WinningPlay:
			outcome := tx.OutputBoards[0].Board.EvaluateProgress()
			if out.Status != domain.StatusComplete || out.Victor != outcome.Victor {
				return reject(gameCmd, domain.ErrIllegalTransition, "the game must be won by the board's victor")
			}
		case Draw:
			if out.Status != domain.StatusDraw {
				return reject(gameCmd, domain.ErrIllegalTransition, "a drawn board must end the game in a draw")
			}
		default:
			return reject(gameCmd, domain.ErrIllegalTransition, "a game is completed by a winning play or a draw")
		}
		if err := sameGame(gameCmd, out, tx.OutputBoards[0]); err != nil {
			return err
		}
		return sameTurn(gameCmd, out, tx.OutputBoards[0])
	}
	return nil
}

// sameTurn requires a game refreshed by a move to agree with its board on
// who moves next.
func sameTurn(cmd Command, g domain.Game, b domain.BoardState) error {
	if g.NextTurn != b.NextTurn {
		return reject(cmd, domain.ErrIllegalTransition, "the game must hand the turn to the board's next mover")
	}
	return nil
}

func sameGame(cmd Command, g domain.Game, b domain.BoardState) error {
	if g.ID != b.GameID || g.Initiator != b.Initiator || g.Participant != b.Participant || g.Size != b.Size {
		return reject(cmd, domain.ErrIllegalTransition, "the board must belong to the game")
	}
	return nil
}

func checkSigners(gameCmd, boardCmd Command, tx Transaction) error {
	for _, cmd := range []Command{gameCmd, boardCmd} {
		if cmd == nil {
			continue
		}
		required := RequiredSigners(Transaction{
			Commands:     []Command{cmd},
			OutputGames:  tx.OutputGames,
			InputBoards:  tx.InputBoards,
			OutputBoards: tx.OutputBoards,
		})
		for _, p := range required {
			if !tx.SignedBy(p) {
				return reject(cmd, domain.ErrIllegalTransition, "a required party has not signed").By(p)
			}
		}
	}
	return nil
}

func reject(cmd Command, kind domain.Error, reason string) *domain.Violation {
	v := domain.Reject(kind, reason)
	v.Command = cmd.Name()
	return v
}
