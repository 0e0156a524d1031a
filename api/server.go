package api

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"

	"github.com/ttma1046/launchmeow/core"
	"github.com/ttma1046/launchmeow/messaging"
	"github.com/ttma1046/launchmeow/storage"
)

// Server exposes launch state over REST and a websocket feed.
type Server struct {
	store     storage.Store
	messenger *messaging.Messenger
	hub       *WSHub
}

func NewServer(store storage.Store, m *messaging.Messenger) *Server {
	return &Server{
		store:     store,
		messenger: m,
		hub:       NewWSHub(),
	}
}

// Start bridges launch events into the websocket hub and serves HTTP.
// Blocks until the listener fails.
func (s *Server) Start(port int) error {
	_, err := s.messenger.Subscribe(core.SubjectLaunches, func(msg *nats.Msg) {
		var launch core.Launch
		if err := json.Unmarshal(msg.Data, &launch); err != nil {
			log.Printf("api: malformed launch event: %v", err)
			return
		}
		s.hub.Broadcast(WSEvent{Type: EventLaunchUpdate, Payload: launch})
	})
	if err != nil {
		return fmt.Errorf("subscribe launches: %w", err)
	}

	router := gin.Default()
	s.SetupRoutes(router)
	return router.Run(fmt.Sprintf(":%d", port))
}
