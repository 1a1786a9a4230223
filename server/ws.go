package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/citigov/smartcity/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// FeedEvent is one console update pushed over the complaint feed.
type FeedEvent struct {
	Type        string            `json:"type"`
	ComplaintID string            `json:"complaint_id,omitempty"`
	Complaint   *models.Complaint `json:"complaint,omitempty"`
	Team        *models.Team      `json:"team,omitempty"`
}

// ComplaintFeed fans complaint lifecycle events out to connected admin
// consoles. Delivery is best-effort: a dead socket is dropped and never
// blocks the mutation that triggered the event.
type ComplaintFeed struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewComplaintFeed() *ComplaintFeed {
	return &ComplaintFeed{conns: make(map[*websocket.Conn]bool)}
}

func (f *ComplaintFeed) register(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.conns[conn] = true
}

func (f *ComplaintFeed) unregister(conn *websocket.Conn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conns[conn] {
		delete(f.conns, conn)
		conn.Close()
	}
}

// Broadcast pushes the event to every connected console.
func (f *ComplaintFeed) Broadcast(event FeedEvent) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.conns {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("dropping dead feed connection: %v", err)
			delete(f.conns, conn)
			conn.Close()
		}
	}
}

func (s *Server) handleComplaintFeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}
		s.Feed.register(conn)

		// Reader loop only detects close; the feed is write-only.
		go func() {
			defer s.Feed.unregister(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
