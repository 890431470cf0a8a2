package events

import (
	"sync"

	"github.com/news-crud-lab/internal/models"
)

// Client is one live event stream bound to a session
type Client struct {
	Events    chan models.StoreEvent
	SessionID string
}

// Broker delivers store events to the stream clients of the matching session.
// Slow clients drop events rather than block the store.
type Broker struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	buffer  int
}

// NewBroker creates a broker whose clients buffer up to buffer events
func NewBroker(buffer int) *Broker {
	if buffer < 1 {
		buffer = 1
	}
	return &Broker{
		clients: make(map[*Client]bool),
		buffer:  buffer,
	}
}

// Subscribe registers a new client for sessionID
func (b *Broker) Subscribe(sessionID string) *Client {
	client := &Client{
		Events:    make(chan models.StoreEvent, b.buffer),
		SessionID: sessionID,
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[client] = true
	return client
}

// Unsubscribe removes the client and closes its channel
func (b *Broker) Unsubscribe(client *Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.clients[client] {
		return
	}
	delete(b.clients, client)
	close(client.Events)
}

// CloseSession disconnects every client of sessionID
func (b *Broker) CloseSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for client := range b.clients {
		if client.SessionID == sessionID {
			delete(b.clients, client)
			close(client.Events)
		}
	}
}

// Publish implements Publisher
func (b *Broker) Publish(event models.StoreEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		if client.SessionID == event.SessionID {
			select {
			case client.Events <- event:
			default:
			}
		}
	}
	return nil
}

// HasClients reports whether sessionID has at least one open stream
func (b *Broker) HasClients(sessionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for client := range b.clients {
		if client.SessionID == sessionID {
			return true
		}
	}
	return false
}

// Count returns the number of connected clients
func (b *Broker) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}
