package domain

// Game is the top-level record of a match. Values are snapshots: every
// transition method returns a new Game and leaves the receiver as it was.
type Game struct {
	ID               string     `json:"id"`
	Initiator        Party      `json:"initiator"`
	Participant      Party      `json:"participant"`
	InitiatorColor   Color      `json:"initiatorColor"`
	ParticipantColor Color      `json:"participantColor,omitempty"`
	Size             BoardSize  `json:"boardSize"`
	Status           GameStatus `json:"status"`
	Victor           Party      `json:"victor,omitempty"`
	NextTurn         Party      `json:"nextTurn"`
}

// NewGame builds a PENDING game. The initiator always moves first.
func NewGame(id string, initiator, participant Party, initiatorColor Color, size BoardSize) (Game, error) {
	if initiator == Nobody || participant == Nobody {
		return Game{}, Reject(ErrConfiguration, "both participants must be named")
	}
	if initiator == participant {
		return Game{}, Reject(ErrConfiguration, "there should be two distinct participants in the game").By(initiator)
	}
	if !initiatorColor.Valid() {
		return Game{}, Reject(ErrConfiguration, "the initiator should select a valid color").By(initiator)
	}
	if err := size.Validate(); err != nil {
		return Game{}, err
	}

	return Game{
		ID:             id,
		Initiator:      initiator,
		Participant:    participant,
		InitiatorColor: initiatorColor,
		Size:           size,
		Status:         StatusPending,
		NextTurn:       initiator,
	}, nil
}

func (g Game) Participants() []Party {
	return []Party{g.Initiator, g.Participant}
}

func (g Game) IsParticipant(p Party) bool {
	return p != Nobody && (p == g.Initiator || p == g.Participant)
}

func (g Game) HasDistinctParticipants() bool {
	return g.Initiator != Nobody && g.Participant != Nobody && g.Initiator != g.Participant
}

// Opponent returns the other participant, or Nobody when p is not playing.
func (g Game) Opponent(p Party) Party {
	return opponent(g.Initiator, g.Participant, p)
}

func (g Game) IsFinished() bool {
	return g.Status.IsTerminal()
}

func (g Game) Accept(participantColor Color) (Game, error) {
	if g.Status != StatusPending {
		return Game{}, Reject(ErrIllegalTransition, "the input game state should be PENDING").By(g.Participant)
	}
	if !participantColor.Valid() || participantColor == g.InitiatorColor {
		return Game{}, Reject(ErrConfiguration, "the participant should select a color different from the initiator's").By(g.Participant)
	}
	next := g
	next.ParticipantColor = participantColor
	next.Status = StatusAccepted
	return next, nil
}

func (g Game) Reject() (Game, error) {
	if g.Status != StatusPending {
		return Game{}, Reject(ErrIllegalTransition, "the input game state should be PENDING").By(g.Participant)
	}
	next := g
	next.Status = StatusRejected
	return next, nil
}

// Activate moves an ACCEPTED game to ACTIVE on the board's first move.
func (g Game) Activate(nextTurn Party) (Game, error) {
	if g.Status != StatusAccepted {
		return Game{}, Reject(ErrIllegalTransition, "the input game must be accepted to be activated")
	}
	next := g
	next.Status = StatusActive
	next.NextTurn = nextTurn
	return next, nil
}

// Complete closes an ACTIVE game with the board's final outcome.
func (g Game) Complete(outcome Progress, nextTurn Party) (Game, error) {
	if g.Status != StatusActive {
		return Game{}, Reject(ErrIllegalTransition, "the input game state should be ACTIVE")
	}
	next := g
	next.NextTurn = nextTurn
	switch outcome.Status {
	case StatusComplete:
		if !g.IsParticipant(outcome.Victor) {
			return Game{}, Reject(ErrIllegalTransition, "the game should declare a victor when completed")
		}
		next.Status, next.Victor = StatusComplete, outcome.Victor
	case StatusDraw:
		next.Status, next.Victor = StatusDraw, Nobody
	default:
		return Game{}, Reject(ErrIllegalTransition, "you can only complete a game if there is a victor or a draw")
	}
	return next, nil
}

func opponent(a, b, p Party) Party {
	switch p {
	case a:
		return b
	case b:
		return a
	}
	return Nobody
}
