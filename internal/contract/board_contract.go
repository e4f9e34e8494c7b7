package contract

import "github.com/iamasit07/connect4-rules/internal/domain"

func checkBoardShape(cmd Command, tx Transaction) error {
	switch cmd.(type) {
	case NewBoard:
		if len(tx.InputBoards) != 0 {
			return reject(cmd, domain.ErrIllegalTransition, "no previous board can be consumed when creating a new board")
		}
	case Play, WinningPlay, Draw:
		if len(tx.InputBoards) != 1 {
			return reject(cmd, domain.ErrIllegalTransition, "one board must be consumed when making a move")
		}
	default:
		return reject(cmd, domain.ErrIllegalTransition, "not a board command")
	}
	if len(tx.OutputBoards) != 1 {
		return reject(cmd, domain.ErrIllegalTransition, "there should be one board as an output")
	}
	return nil
}

func checkBoardContent(cmd Command, tx Transaction) error {
	out := tx.OutputBoards[0]
	if out.Initiator == domain.Nobody || out.Participant == domain.Nobody || out.Initiator == out.Participant {
		return reject(cmd, domain.ErrConfiguration, "there should be two distinct participants on the board")
	}
	if out.Board.Size() != out.Size {
		return reject(cmd, domain.ErrIllegalTransition, "the board contents must match the board size")
	}
	if out.MoveNumber != out.Board.Len()+1 {
		return reject(cmd, domain.ErrIllegalTransition, "the move number must follow the moves played")
	}

	if _, ok := cmd.(NewBoard); ok {
		return checkNewBoard(cmd, out)
	}
	return checkMove(cmd, tx.InputBoards[0], out)
}

func checkNewBoard(cmd Command, out domain.BoardState) error {
	if err := out.Size.Validate(); err != nil {
		v := err.(*domain.Violation)
		return reject(cmd, v.Kind, v.Reason)
	}
	if out.NextTurn != out.Initiator {
		return reject(cmd, domain.ErrIllegalTransition, "the first move should be by the initiator")
	}
	if out.MoveNumber != 1 {
		return reject(cmd, domain.ErrIllegalTransition, "the board should start with move number 1")
	}
	if out.Status != domain.StatusActive {
		return reject(cmd, domain.ErrIllegalTransition, "a new board must be active")
	}
	return nil
}

// checkMove holds for Play, WinningPlay and Draw alike; only the expected
// outcome differs.
func checkMove(cmd Command, in, out domain.BoardState) error {
	if in.ID != out.ID || in.GameID != out.GameID || in.Size != out.Size ||
		in.Initiator != out.Initiator || in.Participant != out.Participant {
		return reject(cmd, domain.ErrIllegalTransition, "the board and its participants cannot change")
	}
	if in.Status != domain.StatusActive {
		return reject(cmd, domain.ErrIllegalTransition, "board state must be active to play")
	}
	if in.MoveNumber != in.Board.Len()+1 {
		return reject(cmd, domain.ErrIllegalTransition, "the move number must follow the moves played")
	}
	if out.MoveNumber != in.MoveNumber+1 {
		return reject(cmd, domain.ErrIllegalTransition, "move number must increment after each play")
	}

	placed, ok := out.Board.Cell(in.MoveNumber)
	if !ok {
		return reject(cmd, domain.ErrIllegalTransition, "a move must place exactly one piece")
	}
	mover := placed.Occupant
	if in.Board.OccupantAt(placed.Column, placed.Row) != domain.Nobody {
		return reject(cmd, domain.ErrBoardViolation, "cannot have two moves on the same cell").By(mover)
	}
	if !out.Board.Extends(in.Board) {
		return reject(cmd, domain.ErrIllegalTransition, "earlier moves cannot change").By(mover)
	}
	if col, _ := column(cmd); placed.Column != col {
		return reject(cmd, domain.ErrIllegalTransition, "the piece must land in the column of the command").By(mover)
	}

	if mover != in.NextTurn {
		return reject(cmd, domain.ErrIllegalTransition, "the player making the move must hold the turn").By(mover)
	}
	if out.NextTurn == in.NextTurn {
		return reject(cmd, domain.ErrIllegalTransition, "a player cannot have two consecutive turns").By(mover)
	}
	if !out.IsParticipant(out.NextTurn) {
		return reject(cmd, domain.ErrIllegalTransition, "the next turn must belong to one of the participants")
	}

	outcome := out.Board.EvaluateProgress()
	switch cmd.(type) {
	case Play:
		if out.Status != domain.StatusActive {
			return reject(cmd, domain.ErrIllegalTransition, "board state must remain active")
		}
		if outcome.Status != domain.StatusActive {
			return reject(cmd, domain.ErrIllegalTransition, "a move that ends the game must be a winning play or a draw").By(mover)
		}
	case WinningPlay:
		if out.Status != domain.StatusComplete {
			return reject(cmd, domain.ErrIllegalTransition, "board state must be completed when a winning play is detected")
		}
		if outcome.Status != domain.StatusComplete || outcome.Victor != mover {
			return reject(cmd, domain.ErrIllegalTransition, "a winning play must give the mover four in a row").By(mover)
		}
	case Draw:
		if out.Status != domain.StatusComplete {
			return reject(cmd, domain.ErrIllegalTransition, "board state must be completed when a draw is detected")
		}
		if outcome.Status != domain.StatusDraw {
			return reject(cmd, domain.ErrIllegalTransition, "a draw needs a full board without a winner").By(mover)
		}
	}
	return nil
}
