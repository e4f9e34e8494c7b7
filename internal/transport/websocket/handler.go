package websocket

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-rules/internal/domain"
	"github.com/iamasit07/connect4-rules/pkg/auth"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type Handler struct {
	ConnManager *ConnectionManager
	Upgrader    websocket.Upgrader
	secret      string
	logger      *zap.Logger
}

func NewHandler(cm *ConnectionManager, secret string, allowedOrigins []string, logger *zap.Logger) *Handler {
	return &Handler{
		ConnManager: cm,
		secret:      secret,
		logger:      logger.Named("ws"),
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin {
						return true
					}
				}
				return false
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket authenticates the party from ?token= (or a bearer header)
// before upgrading, then streams its committed transactions until the
// socket closes.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	claims, err := auth.ValidateToken(h.secret, token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	party := domain.Party(claims.Subject)

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	h.handleConnection(party, conn)
}

func (h *Handler) handleConnection(party domain.Party, conn *websocket.Conn) {
	h.ConnManager.AddConnection(party, conn)
	h.logger.Info("connection opened", zap.String("party", string(party)))

	done := make(chan struct{})
	defer func() {
		close(done)
		h.ConnManager.RemoveConnectionIfMatching(party, conn)
		h.logger.Info("connection closed", zap.String("party", string(party)))
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	_ = h.ConnManager.SendMessage(party, Message{Type: "connected", Message: string(party)})

	// The stream is one-way; reads only keep the deadline and close
	// handling alive.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read error", zap.String("party", string(party)), zap.Error(err))
			}
			return
		}
	}
}
