// Package websocket pushes wallet balance changes and notifications to
// connected clients. Delivery is best-effort: a slow client drops events
// rather than blocking the sender.
package websocket

import (
	"sync"
)

type BalanceUpdate struct {
	WalletID string `json:"wallet_id"`
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

type NotificationEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) Unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		return
	}
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

func (h *Hub) BroadcastBalance(userID string, update BalanceUpdate) {
	h.broadcast(userID, envelope{Event: "balance", Data: update})
}

func (h *Hub) BroadcastNotification(userID string, event NotificationEvent) {
	h.broadcast(userID, envelope{Event: "notification", Data: event})
}

func (h *Hub) broadcast(userID string, message envelope) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- message:
		default:
		}
	}
}
