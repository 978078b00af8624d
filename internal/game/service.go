package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/justinabrahms/asyncchess/internal/chess"
	"github.com/justinabrahms/asyncchess/internal/config"
	"github.com/rs/zerolog/log"
)

// ErrNoTimeout is returned by ClaimTimeout while the side to move is still
// within its deadline, or when the game has no time control.
var ErrNoTimeout = errors.New("no time violation")

// Service runs games on top of a move log and a metadata store. Calls for
// the same game are serialized; calls for different games run freely.
type Service struct {
	moves    MoveLog
	meta     Metadata
	defaults Info
	hub      *Hub
	now      func() time.Time
	locks    keyedMutex
}

type Option func(*Service)

// WithHub publishes every accepted change to h.
func WithHub(h *Hub) Option {
	return func(s *Service) { s.hub = h }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a service whose new games use the rules and time
// control from cfg.
func NewService(moves MoveLog, meta Metadata, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		moves: moves,
		meta:  meta,
		defaults: Info{
			Rules:       cfg.Rules,
			TimeControl: cfg.TimeControl,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewGame creates a game with the configured defaults and returns its id
// with the starting state.
func (s *Service) NewGame(ctx context.Context) (string, chess.RenderedState, error) {
	return s.NewGameWith(ctx, s.defaults.Rules, s.defaults.TimeControl)
}

// NewGameWith creates a game with explicit rules and time control.
func (s *Service) NewGameWith(ctx context.Context, rules chess.Rules, tc chess.TimeControl) (string, chess.RenderedState, error) {
	info, err := s.meta.CreateGame(ctx, Info{
		Rules:       rules,
		TimeControl: tc,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return "", chess.RenderedState{}, fmt.Errorf("failed to create game: %w", err)
	}
	g, err := chess.NewGame(rules, nil, chess.Termination{})
	if err != nil {
		return "", chess.RenderedState{}, err
	}

	log.Info().
		Str("gameID", info.ID).
		Bool("castling", rules.Castling).
		Bool("enPassant", rules.EnPassant).
		Int("daysPerMove", tc.DaysPerMove).
		Msg("Game created")
	return info.ID, g.State(), nil
}

// load rebuilds the game from its stored log. Callers hold the game lock.
func (s *Service) load(ctx context.Context, gameID string) (*chess.Game, Info, error) {
	info, err := s.meta.GetGame(ctx, gameID)
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	moves, err := s.moves.LoadMoves(ctx, gameID)
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to load moves of game %s: %w", gameID, err)
	}
	g, err := chess.NewGame(info.Rules, moves, info.Termination)
	if err != nil {
		return nil, Info{}, fmt.Errorf("game %s: %w", gameID, err)
	}
	return g, info, nil
}

// ApplyMove validates and records a move. The candidate's claimed color is
// only logged; whose turn it is comes from the stored log.
func (s *Service) ApplyMove(ctx context.Context, gameID string, c chess.Candidate) (chess.RenderedState, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, info, err := s.load(ctx, gameID)
	if err != nil {
		return chess.RenderedState{}, err
	}
	if c.At.IsZero() {
		c.At = s.now().UTC()
	}

	res, err := g.ApplyMove(c)
	if err != nil {
		log.Info().Err(err).
			Str("gameID", gameID).
			Str("from", c.From.String()).
			Str("to", c.To.String()).
			Str("claimedColor", c.Color.String()).
			Msg("Move rejected")
		return chess.RenderedState{}, err
	}
	if err := s.moves.AppendMove(ctx, gameID, g.Ply(), res.Record); err != nil {
		log.Error().Err(err).Str("gameID", gameID).Msg("Failed to record move")
		return chess.RenderedState{}, fmt.Errorf("failed to record move: %w", err)
	}

	log.Info().
		Str("gameID", gameID).
		Str("from", c.From.String()).
		Str("to", c.To.String()).
		Int("ply", res.Record.Index).
		Str("type", string(res.Record.Type)).
		Str("status", string(res.State.Status)).
		Str("clock", info.TimeControl.DescribeClock(res.Game.Moves(), info.CreatedAt, c.At)).
		Msg("Move recorded")
	s.publish(gameID, UpdateMove, res.State)
	return res.State, nil
}

// ApplyPromotion resolves the pending promotion of the game's last move.
func (s *Service) ApplyPromotion(ctx context.Context, gameID string, pt chess.PieceType) (chess.RenderedState, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, _, err := s.load(ctx, gameID)
	if err != nil {
		return chess.RenderedState{}, err
	}
	res, err := g.ApplyPromotion(pt)
	if err != nil {
		log.Info().Err(err).Str("gameID", gameID).Str("piece", pt.String()).Msg("Promotion rejected")
		return chess.RenderedState{}, err
	}
	if err := s.moves.ReplaceLastMove(ctx, gameID, g.Ply(), res.Record); err != nil {
		log.Error().Err(err).Str("gameID", gameID).Msg("Failed to record promotion")
		return chess.RenderedState{}, fmt.Errorf("failed to record promotion: %w", err)
	}

	log.Info().
		Str("gameID", gameID).
		Str("piece", pt.String()).
		Int("ply", res.Record.Index).
		Str("status", string(res.State.Status)).
		Msg("Promotion recorded")
	s.publish(gameID, UpdatePromotion, res.State)
	return res.State, nil
}

func (s *Service) GetCurrentState(ctx context.Context, gameID string) (chess.RenderedState, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, _, err := s.load(ctx, gameID)
	if err != nil {
		return chess.RenderedState{}, err
	}
	return g.State(), nil
}

// GetStateAtPly renders the game as it stood after ply half-moves.
func (s *Service) GetStateAtPly(ctx context.Context, gameID string, ply int) (chess.RenderedState, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, _, err := s.load(ctx, gameID)
	if err != nil {
		return chess.RenderedState{}, err
	}
	return g.StateAtPly(ply)
}

func (s *Service) LegalDestinations(ctx context.Context, gameID string, from chess.Square) ([]chess.Square, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, _, err := s.load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return g.LegalDestinations(from)
}

// GetPGN renders the game's movetext and result.
func (s *Service) GetPGN(ctx context.Context, gameID string) (string, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, _, err := s.load(ctx, gameID)
	if err != nil {
		return "", err
	}
	return g.PGN(), nil
}

// Resign ends the game in favour of loser's opponent.
func (s *Service) Resign(ctx context.Context, gameID string, loser chess.Color) (chess.RenderedState, error) {
	if loser != chess.White && loser != chess.Black {
		return chess.RenderedState{}, fmt.Errorf("invalid resigning color %q", loser)
	}
	t := chess.Termination{Status: chess.StatusSurrender, Winner: loser.Opposite()}
	return s.terminate(ctx, gameID, UpdateResignation, func(*chess.Game, Info) (chess.Termination, error) {
		return t, nil
	})
}

// AgreeDraw records a draw both players agreed to.
func (s *Service) AgreeDraw(ctx context.Context, gameID string) (chess.RenderedState, error) {
	return s.terminate(ctx, gameID, UpdateDraw, func(*chess.Game, Info) (chess.Termination, error) {
		return chess.Termination{Status: chess.StatusDraw}, nil
	})
}

// ClaimTimeout forfeits the side on the clock if its correspondence deadline
// has passed. The forfeit is recorded as a surrender.
func (s *Service) ClaimTimeout(ctx context.Context, gameID string) (chess.RenderedState, error) {
	return s.terminate(ctx, gameID, UpdateTimeout, func(g *chess.Game, info Info) (chess.Termination, error) {
		v := info.TimeControl.CheckTimeViolation(g.Moves(), info.CreatedAt, s.now())
		if v == nil {
			return chess.Termination{}, ErrNoTimeout
		}
		log.Info().
			Str("gameID", gameID).
			Str("color", v.Color.String()).
			Time("deadline", v.DeadlineAt).
			Msg("Correspondence deadline missed")
		return chess.Termination{Status: chess.StatusSurrender, Winner: v.Color.Opposite()}, nil
	})
}

func (s *Service) terminate(ctx context.Context, gameID string, kind UpdateType, decide func(*chess.Game, Info) (chess.Termination, error)) (chess.RenderedState, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, info, err := s.load(ctx, gameID)
	if err != nil {
		return chess.RenderedState{}, err
	}
	if st, _ := g.Status(); st.Terminal() {
		return chess.RenderedState{}, &chess.MoveError{Kind: chess.ErrGameAlreadyOver, From: chess.NoSquare, To: chess.NoSquare, Ply: g.Ply()}
	}
	t, err := decide(g, info)
	if err != nil {
		return chess.RenderedState{}, err
	}
	ended, err := g.WithTermination(t)
	if err != nil {
		return chess.RenderedState{}, err
	}
	if err := s.meta.SetTermination(ctx, gameID, t); err != nil {
		log.Error().Err(err).Str("gameID", gameID).Msg("Failed to record termination")
		return chess.RenderedState{}, fmt.Errorf("failed to record termination: %w", err)
	}

	st := ended.State()
	log.Info().
		Str("gameID", gameID).
		Str("status", string(t.Status)).
		Str("winner", t.Winner.String()).
		Msg("Game ended")
	s.publish(gameID, kind, st)
	return st, nil
}

// TimeRemaining reports how long the side on the clock has left.
func (s *Service) TimeRemaining(ctx context.Context, gameID string) (time.Duration, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	g, info, err := s.load(ctx, gameID)
	if err != nil {
		return 0, err
	}
	return info.TimeControl.TimeRemaining(g.Moves(), info.CreatedAt, s.now())
}

func (s *Service) publish(gameID string, kind UpdateType, st chess.RenderedState) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(Update{GameID: gameID, Type: kind, State: st})
}
