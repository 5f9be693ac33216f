package ws

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Hub fans full ledger/inventory snapshots out to every subscribed screen.
// New clients immediately receive the last published snapshot so they never
// start from an empty working set.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte

	mutex        sync.Mutex
	lastSnapshot []byte
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
	}
}

// PublishSnapshot stores the snapshot for late joiners and broadcasts it.
func (h *Hub) PublishSnapshot(msg []byte) {
	h.mutex.Lock()
	h.lastSnapshot = msg
	h.mutex.Unlock()
	h.Broadcast <- msg
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			snapshot := h.lastSnapshot
			h.mutex.Unlock()
			if snapshot != nil {
				if err := conn.WriteMessage(websocket.TextMessage, snapshot); err != nil {
					log.Println("WS initial snapshot write failed:", err)
				}
			}
			log.Println("New WS Client Connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
