package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-rules/internal/domain"
)

type gameHistoryItem struct {
	ID       string            `json:"id"`
	Opponent domain.Party      `json:"opponent"`
	Status   domain.GameStatus `json:"status"`
	Result   string            `json:"result,omitempty"` // "win", "loss", "draw"
	Size     domain.BoardSize  `json:"boardSize"`
}

// List returns the caller's games with the result from their side.
func (h *GameHandler) List(c *gin.Context) {
	party, ok := caller(c)
	if !ok {
		return
	}
	games, err := h.Games.Games(c.Request.Context(), party)
	if err != nil {
		writeError(c, err)
		return
	}

	history := make([]gameHistoryItem, 0, len(games))
	for _, g := range games {
		item := gameHistoryItem{
			ID:       g.ID,
			Opponent: g.Opponent(party),
			Status:   g.Status,
			Size:     g.Size,
		}
		switch g.Status {
		case domain.StatusComplete:
			if g.Victor == party {
				item.Result = "win"
			} else {
				item.Result = "loss"
			}
		case domain.StatusDraw:
			item.Result = "draw"
		}
		history = append(history, item)
	}
	c.JSON(http.StatusOK, history)
}

// History returns every recorded transaction of one game.
func (h *GameHandler) History(c *gin.Context) {
	party, ok := caller(c)
	if !ok {
		return
	}
	txs, err := h.Games.History(c.Request.Context(), c.Param("id"), party)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}
