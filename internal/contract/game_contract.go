package contract

import "github.com/iamasit07/connect4-rules/internal/domain"

func checkGameShape(cmd Command, tx Transaction) error {
	switch cmd.(type) {
	case NewGame:
		if len(tx.InputGames) != 0 {
			return reject(cmd, domain.ErrIllegalTransition, "no previous game can be consumed when creating a new game")
		}
	case AcceptGame, RejectGame, Activate, CompleteGame:
		if len(tx.InputGames) != 1 {
			return reject(cmd, domain.ErrIllegalTransition, "exactly one game must be consumed")
		}
	default:
		return reject(cmd, domain.ErrIllegalTransition, "not a game command")
	}
	if len(tx.OutputGames) != 1 {
		return reject(cmd, domain.ErrIllegalTransition, "there should be one game as an output")
	}
	return nil
}

func checkGameContent(cmd Command, tx Transaction) error {
	out := tx.OutputGames[0]
	if !out.HasDistinctParticipants() {
		return reject(cmd, domain.ErrConfiguration, "there should be two distinct participants in the game")
	}

	if _, ok := cmd.(NewGame); ok {
		return checkNewGame(cmd, out)
	}

	in := tx.InputGames[0]
	if in.ID != out.ID || in.Initiator != out.Initiator || in.Participant != out.Participant {
		return reject(cmd, domain.ErrIllegalTransition, "the game and its participants cannot change")
	}
	if in.InitiatorColor != out.InitiatorColor || in.Size != out.Size {
		return reject(cmd, domain.ErrIllegalTransition, "the game configuration cannot change")
	}
	if _, accepting := cmd.(AcceptGame); !accepting && in.ParticipantColor != out.ParticipantColor {
		return reject(cmd, domain.ErrIllegalTransition, "the participant color is only chosen on acceptance")
	}

	switch cmd.(type) {
	case AcceptGame:
		if in.Status != domain.StatusPending {
			return reject(cmd, domain.ErrIllegalTransition, "the input game state should be PENDING")
		}
		if out.Status != domain.StatusAccepted {
			return reject(cmd, domain.ErrIllegalTransition, "the game should be accepted by the participant")
		}
		if !out.ParticipantColor.Valid() || out.ParticipantColor == out.InitiatorColor {
			return reject(cmd, domain.ErrConfiguration, "the participant should select a color different from the initiator's").By(out.Participant)
		}
		if out.NextTurn != out.Initiator {
			return reject(cmd, domain.ErrIllegalTransition, "the initiator should hold the first turn")
		}

	case RejectGame:
		if in.Status != domain.StatusPending {
			return reject(cmd, domain.ErrIllegalTransition, "the input game state should be PENDING")
		}
		if out.Status != domain.StatusRejected {
			return reject(cmd, domain.ErrIllegalTransition, "the game should be rejected by the participant")
		}
		if in.NextTurn != out.NextTurn {
			return reject(cmd, domain.ErrIllegalTransition, "the turn cannot change when the game is rejected")
		}

	case Activate:
		if in.Status != domain.StatusAccepted || out.Status != domain.StatusActive {
			return reject(cmd, domain.ErrIllegalTransition, "the input game must be accepted and the output game must be active")
		}

	case CompleteGame:
		if in.Status != domain.StatusActive {
			return reject(cmd, domain.ErrIllegalTransition, "the input game state should be ACTIVE")
		}
		switch out.Status {
		case domain.StatusComplete:
			if !out.IsParticipant(out.Victor) {
				return reject(cmd, domain.ErrIllegalTransition, "the game should declare a victor when completed")
			}
		case domain.StatusDraw:
			if out.Victor != domain.Nobody {
				return reject(cmd, domain.ErrIllegalTransition, "the game should not declare a victor when a draw")
			}
		default:
			return reject(cmd, domain.ErrIllegalTransition, "you can only complete a game if there is a victor or a draw")
		}
		return nil
	}

	if out.Victor != domain.Nobody {
		return reject(cmd, domain.ErrIllegalTransition, "only a completed game declares a victor")
	}
	return nil
}

func checkNewGame(cmd Command, out domain.Game) error {
	if out.Status != domain.StatusPending {
		return reject(cmd, domain.ErrIllegalTransition, "the game should be pending acceptance by the participant")
	}
	if err := out.Size.Validate(); err != nil {
		v := err.(*domain.Violation)
		return reject(cmd, v.Kind, v.Reason)
	}
	if !out.InitiatorColor.Valid() {
		return reject(cmd, domain.ErrConfiguration, "the initiator should select a valid color").By(out.Initiator)
	}
	if out.ParticipantColor != "" {
		return reject(cmd, domain.ErrIllegalTransition, "the participant color is only chosen on acceptance")
	}
	if out.Victor != domain.Nobody {
		return reject(cmd, domain.ErrIllegalTransition, "a new game cannot have a victor")
	}
	if out.NextTurn != out.Initiator {
		return reject(cmd, domain.ErrIllegalTransition, "the initiator should hold the first turn")
	}
	return nil
}
