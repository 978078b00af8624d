// Package store holds an in-memory implementation of the game service's
// move log and metadata interfaces.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/justinabrahms/asyncchess/internal/chess"
	"github.com/justinabrahms/asyncchess/internal/game"
)

// ErrConflict is returned when a write's expected log length no longer
// matches the stored log.
var ErrConflict = errors.New("move log changed concurrently")

// Memory keeps games and their move logs in process memory.
type Memory struct {
	mu    sync.RWMutex
	games map[string]game.Info
	moves map[string][]chess.MoveRecord
}

var (
	_ game.MoveLog  = (*Memory)(nil)
	_ game.Metadata = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		games: make(map[string]game.Info),
		moves: make(map[string][]chess.MoveRecord),
	}
}

func (m *Memory) CreateGame(ctx context.Context, info game.Info) (game.Info, error) {
	if err := ctx.Err(); err != nil {
		return game.Info{}, err
	}
	if info.ID == "" {
		info.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[info.ID]; ok {
		return game.Info{}, fmt.Errorf("game %s already exists", info.ID)
	}
	m.games[info.ID] = info
	m.moves[info.ID] = nil
	return info, nil
}

func (m *Memory) GetGame(ctx context.Context, gameID string) (game.Info, error) {
	if err := ctx.Err(); err != nil {
		return game.Info{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.games[gameID]
	if !ok {
		return game.Info{}, fmt.Errorf("%w: %s", game.ErrNotFound, gameID)
	}
	return info, nil
}

func (m *Memory) SetTermination(ctx context.Context, gameID string, t chess.Termination) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrNotFound, gameID)
	}
	if !info.Termination.IsZero() {
		return fmt.Errorf("game %s already terminated: %w", gameID, ErrConflict)
	}
	info.Termination = t
	m.games[gameID] = info
	return nil
}

func (m *Memory) LoadMoves(ctx context.Context, gameID string) ([]chess.MoveRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	moves, ok := m.moves[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", game.ErrNotFound, gameID)
	}
	return append([]chess.MoveRecord(nil), moves...), nil
}

func (m *Memory) AppendMove(ctx context.Context, gameID string, expectedLen int, rec chess.MoveRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	moves, ok := m.moves[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrNotFound, gameID)
	}
	if len(moves) != expectedLen {
		return fmt.Errorf("append to game %s at length %d, log has %d: %w", gameID, expectedLen, len(moves), ErrConflict)
	}
	m.moves[gameID] = append(moves, rec)
	return nil
}

func (m *Memory) ReplaceLastMove(ctx context.Context, gameID string, expectedLen int, rec chess.MoveRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	moves, ok := m.moves[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", game.ErrNotFound, gameID)
	}
	if len(moves) == 0 || len(moves) != expectedLen {
		return fmt.Errorf("replace in game %s at length %d, log has %d: %w", gameID, expectedLen, len(moves), ErrConflict)
	}
	// Copy so slices handed out by LoadMoves never see the change.
	next := append([]chess.MoveRecord(nil), moves...)
	next[len(next)-1] = rec
	m.moves[gameID] = next
	return nil
}
