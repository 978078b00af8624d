package game

import (
	"context"
	"sync"

	"github.com/justinabrahms/asyncchess/internal/chess"
	"github.com/rs/zerolog/log"
)

// UpdateType names what changed in a game.
type UpdateType string

const (
	UpdateMove        UpdateType = "move"
	UpdatePromotion   UpdateType = "promotion"
	UpdateResignation UpdateType = "resignation"
	UpdateDraw        UpdateType = "draw"
	UpdateTimeout     UpdateType = "timeout"
)

// Update is broadcast to every subscriber of a game after an accepted
// change.
type Update struct {
	GameID string              `json:"gameId"`
	Type   UpdateType          `json:"type"`
	State  chess.RenderedState `json:"state"`
}

// Hub fans game updates out to in-process subscribers.
type Hub struct {
	// Subscribers by game ID
	subs map[string]map[*Subscription]struct{}

	// Updates waiting for Run to deliver them
	broadcast chan Update

	mu sync.Mutex
}

// Subscription receives the updates of one game on C until it is closed,
// either by Close or because the subscriber fell too far behind.
type Subscription struct {
	C <-chan Update

	hub    *Hub
	gameID string
	send   chan Update
}

func NewHub() *Hub {
	return &Hub{
		subs:      make(map[string]map[*Subscription]struct{}),
		broadcast: make(chan Update, 256),
	}
}

// Run delivers broadcast updates until ctx is done, then closes every
// subscription.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for gameID, subs := range h.subs {
				for sub := range subs {
					close(sub.send)
				}
				delete(h.subs, gameID)
			}
			h.mu.Unlock()
			return

		case update := <-h.broadcast:
			h.deliver(update)
		}
	}
}

func (h *Hub) deliver(update Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[update.GameID] {
		select {
		case sub.send <- update:
		default:
			// Subscriber's buffer is full, drop it
			h.removeLocked(sub)
			log.Warn().
				Str("gameID", update.GameID).
				Msg("Dropping slow game subscriber")
		}
	}
}

// Subscribe starts receiving updates for gameID.
func (h *Hub) Subscribe(gameID string) *Subscription {
	send := make(chan Update, 16)
	sub := &Subscription{C: send, hub: h, gameID: gameID, send: send}

	h.mu.Lock()
	if h.subs[gameID] == nil {
		h.subs[gameID] = make(map[*Subscription]struct{})
	}
	h.subs[gameID][sub] = struct{}{}
	h.mu.Unlock()

	log.Debug().Str("gameID", gameID).Msg("Subscriber attached to game")
	return sub
}

// SpectatorCount is the number of live subscriptions to gameID.
func (h *Hub) SpectatorCount(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[gameID])
}

// Close detaches the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	s.hub.removeLocked(s)
	s.hub.mu.Unlock()
}

func (h *Hub) removeLocked(sub *Subscription) {
	subs, ok := h.subs[sub.gameID]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.send)

	// Clean up empty games
	if len(subs) == 0 {
		delete(h.subs, sub.gameID)
	}
}

// Publish queues an update for delivery without blocking the caller.
func (h *Hub) Publish(update Update) {
	select {
	case h.broadcast <- update:
	default:
		log.Warn().Str("gameID", update.GameID).Msg("Broadcast channel full, dropping update")
	}
}
