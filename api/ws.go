package api

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// WSEvent is the envelope pushed to websocket clients.
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const EventLaunchUpdate = "LAUNCH_UPDATE"

// WSHub fans launch events out to connected websocket clients.
type WSHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan WSEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
}

func NewWSHub() *WSHub {
	h := &WSHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan WSEvent, 32),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
	go h.run()
	return h
}

func (h *WSHub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
		case conn := <-h.unregister:
			h.mu.Lock()
			if h.clients[conn] {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()
		case event := <-h.broadcast:
			h.mu.RLock()
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("ws write failed, dropping client: %v", err)
					conn.Close()
					go func(c *websocket.Conn) { h.unregister <- c }(conn)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast queues an event for all clients; drops it if the hub is backed up.
func (h *WSHub) Broadcast(event WSEvent) {
	select {
	case h.broadcast <- event:
	default:
		log.Println("ws broadcast queue full, dropping event")
	}
}
