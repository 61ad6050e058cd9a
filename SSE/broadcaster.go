package SSE

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// SSEBroadcaster fans one message out to every connected dashboard.
// Booking, cancellation and planner changes broadcast "refresh" so open
// admin and doctor views re-fetch their data.
type SSEBroadcaster struct {
	clients map[chan string]bool
	mu      sync.Mutex
}

func NewSSEBroadcaster() *SSEBroadcaster {
	return &SSEBroadcaster{
		clients: make(map[chan string]bool),
	}
}

func (b *SSEBroadcaster) Register(client chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[client] = true
}

// Unregister owns the close: dropped or already-unregistered channels
// are never closed twice.
func (b *SSEBroadcaster) Unregister(client chan string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[client]; ok {
		delete(b.clients, client)
		close(client)
	}
}

// Broadcast sends a message to all registered clients, dropping any
// client that stops draining its channel. The drop only removes the
// client; its handler closes the channel via Unregister on disconnect.
func (b *SSEBroadcaster) Broadcast(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for client := range b.clients {
		select {
		case client <- message:
		case <-time.After(1 * time.Second):
			delete(b.clients, client)
		}
	}
}

var Broadcaster = NewSSEBroadcaster()

// RequestSSE upgrades the request into a server-sent-events stream.
func RequestSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientChan := make(chan string)

	Broadcaster.Register(clientChan)
	defer Broadcaster.Unregister(clientChan)
	fmt.Fprintf(c.Writer, "data: %s\n\n", "connected")
	c.Writer.Flush()

	for {
		select {
		case message := <-clientChan:
			fmt.Fprintf(c.Writer, "data: %s\n\n", message)
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
