package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/connect4-rules/internal/domain"
	"github.com/iamasit07/connect4-rules/internal/service/game"
)

// Message is the envelope of everything written to a socket.
type Message struct {
	Type    string      `json:"type"`
	Event   *game.Event `json:"event,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ConnectionManager holds one socket per party and pushes committed
// transactions to it.
type ConnectionManager struct {
	connections map[domain.Party]*websocket.Conn

	// conn.WriteJSON is not safe for concurrent use
	writeMu map[domain.Party]*sync.Mutex

	mu sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[domain.Party]*websocket.Conn),
		writeMu:     make(map[domain.Party]*sync.Mutex),
	}
}

// AddConnection registers conn for party, closing any earlier socket.
func (cm *ConnectionManager) AddConnection(party domain.Party, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if oldConn, exists := cm.connections[party]; exists {
		oldConn.Close()
	}
	cm.connections[party] = conn
	cm.writeMu[party] = &sync.Mutex{}
}

// RemoveConnectionIfMatching leaves a newer socket of the same party alone.
func (cm *ConnectionManager) RemoveConnectionIfMatching(party domain.Party, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if current, exists := cm.connections[party]; exists && current == conn {
		current.Close()
		delete(cm.connections, party)
		delete(cm.writeMu, party)
	}
}

func (cm *ConnectionManager) Connected(party domain.Party) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	_, ok := cm.connections[party]
	return ok
}

// SendMessage writes message to party's socket. A party without a socket
// is skipped silently.
func (cm *ConnectionManager) SendMessage(party domain.Party, message Message) error {
	cm.mu.RLock()
	conn, exists := cm.connections[party]
	mu, muExists := cm.writeMu[party]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteJSON(message)
}

// Notify implements game.Notifier.
func (cm *ConnectionManager) Notify(party domain.Party, event game.Event) error {
	return cm.SendMessage(party, Message{Type: "transaction", Event: &event})
}
