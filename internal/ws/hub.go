package ws

import (
	"encoding/json"
	"sync"

	"wagchain/internal/logger"
)

// BalanceEvent is pushed to an account's clients after a committed credit.
type BalanceEvent struct {
	Type    string `json:"type"`
	Balance int64  `json:"balance"`
	Reason  string `json:"reason"`
}

// Hub fans committed balance updates out to the websocket clients of the
// affected account. The feed is a display convenience: a dropped message is
// recovered by the next poll, so sends never block.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.AccountID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.AccountID] = set
	}
	set[c] = struct{}{}
	logger.Debug("ws client registered", "account_id", c.AccountID, "clients", len(set))
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.AccountID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.AccountID)
	}
}

// NotifyBalance implements service.BalanceNotifier.
func (h *Hub) NotifyBalance(accountID int64, balance int64, reason string) {
	msg, err := json.Marshal(BalanceEvent{Type: "balance", Balance: balance, Reason: reason})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[accountID] {
		select {
		case c.Send <- msg:
		default:
			// slow client, drop the update
		}
	}
}
