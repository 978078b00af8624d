package game

import (
	"context"
	"errors"
	"time"

	"github.com/justinabrahms/asyncchess/internal/chess"
)

// ErrNotFound is returned by stores for an unknown game id.
var ErrNotFound = errors.New("game not found")

// Info is the per-game metadata kept beside the move log.
type Info struct {
	ID          string            `json:"id"`
	Rules       chess.Rules       `json:"rules"`
	TimeControl chess.TimeControl `json:"timeControl"`
	CreatedAt   time.Time         `json:"createdAt"`
	Termination chess.Termination `json:"termination"`
}

// MoveLog is the append-only move history of each game. Writes carry the
// log length the caller read; a store rejects the write if the log has
// changed since.
type MoveLog interface {
	LoadMoves(ctx context.Context, gameID string) ([]chess.MoveRecord, error)
	AppendMove(ctx context.Context, gameID string, expectedLen int, m chess.MoveRecord) error
	// ReplaceLastMove swaps the final record, used only to resolve a pending
	// promotion.
	ReplaceLastMove(ctx context.Context, gameID string, expectedLen int, m chess.MoveRecord) error
}

// Metadata stores game creation data and sticky terminations.
type Metadata interface {
	// CreateGame stores info, assigning an id when info.ID is empty.
	CreateGame(ctx context.Context, info Info) (Info, error)
	GetGame(ctx context.Context, gameID string) (Info, error)
	SetTermination(ctx context.Context, gameID string, t chess.Termination) error
}
