// Package websocket fans change and upload-progress events out to the
// connected clients of each user. This push channel is what turns plain
// listings into a live, subscribed view of the node set.
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"cloudshelf/internal/logging"
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Hub struct {
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.UserID]; !ok {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
	logger := logging.Component("websocket")
	logger.Debug().Int64("user_id", client.UserID).Msg("client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	userClients, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := userClients[client]; !ok {
		return
	}
	delete(userClients, client)
	close(client.send)
	if len(userClients) == 0 {
		delete(h.clients, client.UserID)
	}
	logger := logging.Component("websocket")
	logger.Debug().Int64("user_id", client.UserID).Msg("client unregistered")
}

// PublishEvent delivers raw event bytes to every connection of one user.
// Slow clients are skipped rather than blocking the publisher.
func (h *Hub) PublishEvent(userID int64, eventData []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	logger := logging.Component("websocket")
	for client := range h.clients[userID] {
		select {
		case client.send <- eventData:
		default:
			logger.Warn().Int64("user_id", userID).Msg("send buffer full, dropping message")
		}
	}
}

// PublishJSON marshals a typed event envelope and publishes it.
func (h *Hub) PublishJSON(userID int64, eventType string, payload interface{}) {
	msg, err := json.Marshal(map[string]interface{}{
		"event_type": eventType,
		"payload":    payload,
	})
	if err != nil {
		logger := logging.Component("websocket")
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event")
		return
	}
	h.PublishEvent(userID, msg)
}
