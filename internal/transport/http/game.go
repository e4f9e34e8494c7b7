package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-rules/internal/domain"
	"github.com/iamasit07/connect4-rules/internal/service/game"
	"github.com/iamasit07/connect4-rules/internal/transport/http/middleware"
)

var defaultSize = domain.BoardSize{Columns: 7, Rows: 6}

type GameHandler struct {
	Games *game.Service
}

func NewGameHandler(games *game.Service) *GameHandler {
	return &GameHandler{Games: games}
}

type createGameRequest struct {
	Participant string `json:"participant" binding:"required"`
	Color       string `json:"color" binding:"required"`
	Columns     int    `json:"columns"`
	Rows        int    `json:"rows"`
}

type acceptGameRequest struct {
	Color string `json:"color" binding:"required"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

type snapshotResponse struct {
	Game       *domain.Game       `json:"game,omitempty"`
	Board      *domain.BoardState `json:"board,omitempty"`
	Progress   *domain.Progress   `json:"progress,omitempty"`
	ValidMoves []int              `json:"validMoves,omitempty"`
}

func caller(c *gin.Context) (domain.Party, bool) {
	p, ok := middleware.Party(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return p, ok
}

func (h *GameHandler) Create(c *gin.Context) {
	party, ok := caller(c)
	if !ok {
		return
	}
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	color, err := domain.ParseColor(req.Color)
	if err != nil {
		writeError(c, err)
		return
	}
	size := domain.BoardSize{Columns: req.Columns, Rows: req.Rows}
	if size == (domain.BoardSize{}) {
		size = defaultSize
	}

	p, err := h.Games.CreateGame(c.Request.Context(), party, domain.Party(req.Participant), color, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshotResponse{Game: p.Game})
}

func (h *GameHandler) Accept(c *gin.Context) {
	party, ok := caller(c)
	if !ok {
		return
	}
	var req acceptGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	color, err := domain.ParseColor(req.Color)
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := h.Games.AcceptGame(c.Request.Context(), c.Param("id"), party, color)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotResponse{Game: p.Game, Board: p.Board})
}

func (h *GameHandler) Reject(c *gin.Context) {
	party, ok := caller(c)
	if !ok {
		return
	}
	p, err := h.Games.RejectGame(c.Request.Context(), c.Param("id"), party)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotResponse{Game: p.Game})
}

func (h *GameHandler) Move(c *gin.Context) {
	party, ok := caller(c)
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.Games.PlayMove(c.Request.Context(), c.Param("id"), party, *req.Column)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshotResponse{Game: p.Game, Board: p.Board, Progress: &p.Progress})
}

func (h *GameHandler) Get(c *gin.Context) {
	party, ok := caller(c)
	if !ok {
		return
	}
	g, board, err := h.Games.Snapshot(c.Request.Context(), c.Param("id"), party)
	if err != nil {
		writeError(c, err)
		return
	}
	resp := snapshotResponse{Game: &g, Board: board}
	if board != nil {
		progress := board.Board.EvaluateProgress()
		resp.Progress = &progress
		if board.Status == domain.StatusActive {
			resp.ValidMoves = board.Board.ValidMoves()
		}
	}
	c.JSON(http.StatusOK, resp)
}
