package domain

// BoardState is the per-move record of a game's board. MoveNumber is the
// index the next move will receive.
type BoardState struct {
	ID          string     `json:"id"`
	GameID      string     `json:"gameId"`
	Size        BoardSize  `json:"boardSize"`
	Initiator   Party      `json:"initiator"`
	Participant Party      `json:"participant"`
	NextTurn    Party      `json:"nextTurn"`
	MoveNumber  int        `json:"moveNumber"`
	Status      GameStatus `json:"status"`
	Board       Board      `json:"board"`
}

// NewBoardState opens the board of an accepted game: empty, initiator to move.
func NewBoardState(id string, g Game) BoardState {
	return BoardState{
		ID:          id,
		GameID:      g.ID,
		Size:        g.Size,
		Initiator:   g.Initiator,
		Participant: g.Participant,
		NextTurn:    g.Initiator,
		MoveNumber:  1,
		Status:      StatusActive,
		Board:       NewBoard(g.Size),
	}
}

func (s BoardState) Participants() []Party {
	return []Party{s.Initiator, s.Participant}
}

func (s BoardState) IsParticipant(p Party) bool {
	return p != Nobody && (p == s.Initiator || p == s.Participant)
}

func (s BoardState) Opponent(p Party) Party {
	return opponent(s.Initiator, s.Participant, p)
}

// Play drops mover's piece into column and returns the following BoardState
// along with the evaluated outcome. Board violations are reported before
// turn order, so a bad column is a board violation whoever proposed it.
func (s BoardState) Play(column int, mover Party) (BoardState, Progress, error) {
	if s.Status != StatusActive {
		return BoardState{}, Progress{}, Reject(ErrIllegalTransition, "board state must be active to play").By(mover)
	}
	if !s.IsParticipant(mover) {
		return BoardState{}, Progress{}, Reject(ErrIllegalTransition, "only a participant can make a move").By(mover)
	}

	board, err := s.Board.ApplyMove(column, mover, s.MoveNumber)
	if err != nil {
		if v, ok := err.(*Violation); ok {
			return BoardState{}, Progress{}, v.By(mover)
		}
		return BoardState{}, Progress{}, err
	}
	if mover != s.NextTurn {
		return BoardState{}, Progress{}, Reject(ErrIllegalTransition, "a player cannot have two consecutive turns").By(mover)
	}

	progress := board.EvaluateProgress()
	next := s
	next.Board = board
	next.MoveNumber = s.MoveNumber + 1
	next.NextTurn = s.Opponent(mover)
	if progress.Status != StatusActive {
		next.Status = StatusComplete
	}
	return next, progress, nil
}
