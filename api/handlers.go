package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ttma1046/launchmeow/core"
	"github.com/ttma1046/launchmeow/storage"
)

// GetStatus reports basic liveness.
func (s *Server) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Unix()})
}

// ListLaunches returns all launches, newest first.
func (s *Server) ListLaunches(c *gin.Context) {
	launches, err := s.store.ListLaunches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list launches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"launches": launches})
}

// GetLaunch returns a single launch by ID.
func (s *Server) GetLaunch(c *gin.Context) {
	launch, err := s.store.GetLaunch(c.Param("id"))
	if err == storage.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Launch not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load launch"})
		return
	}
	c.JSON(http.StatusOK, launch)
}

// TriggerLaunch injects a synthetic post into the pipeline, bypassing the
// social poller. Used for manual launches.
func (s *Server) TriggerLaunch(c *gin.Context) {
	var req struct {
		Text   string `json:"text" binding:"required"`
		Author string `json:"author"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if req.Author == "" {
		req.Author = "manual"
	}

	post := core.Post{
		ID:        fmt.Sprintf("manual-%d", time.Now().UnixNano()),
		Author:    req.Author,
		Text:      req.Text,
		CreatedAt: time.Now().Unix(),
	}
	if err := s.messenger.PublishJSON(core.SubjectPosts, post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue launch"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"post_id": post.ID})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// HandleWebSocket subscribes the client to the live launch feed.
func (s *Server) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	s.hub.register <- conn

	// reads are only used to detect disconnects
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.hub.unregister <- conn
				return
			}
		}
	}()
}
