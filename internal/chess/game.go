package chess

import (
	"fmt"
	"strings"
	"time"
)

// Candidate is a move submitted by a player.
type Candidate struct {
	From Square
	To   Square
	// Color is what the caller claims to be playing. Whose turn it is comes
	// from the move log alone, so this is informational.
	Color Color
	At    time.Time
}

// AppliedMove is the outcome of an accepted ApplyMove or ApplyPromotion.
type AppliedMove struct {
	// Record is the log entry to persist. When Replace is set it supersedes
	// the last logged move (a resolved promotion); otherwise it is appended.
	Record  MoveRecord
	Replace bool
	Game    *Game
	State   RenderedState
}

// Game is an immutable view of one game: its rules, its move log and any
// sticky termination. Applying a move returns a new Game.
type Game struct {
	rules       Rules
	moves       []MoveRecord
	frames      []frame
	pos         Position
	termination Termination
}

// NewGame replays moves under r. A log that could not have been produced by
// the engine (a move of the wrong color, an empty source square) is
// rejected.
func NewGame(r Rules, moves []MoveRecord, t Termination) (*Game, error) {
	frames, pos, err := r.replay(moves)
	if err != nil {
		return nil, fmt.Errorf("replay move log: %w", err)
	}
	if !t.Status.Terminal() {
		t = Termination{}
	}
	return &Game{
		rules:       r,
		moves:       append([]MoveRecord(nil), moves...),
		frames:      frames,
		pos:         pos,
		termination: t,
	}, nil
}

func (g *Game) Rules() Rules             { return g.rules }
func (g *Game) Ply() int                 { return len(g.moves) }
func (g *Game) Position() Position       { return g.pos }
func (g *Game) Board() Board             { return g.pos.Board }
func (g *Game) Termination() Termination { return g.termination }

// Turn is the color to move, derived from the parity of the move log.
func (g *Game) Turn() Color { return colorForPly(len(g.moves)) }

func (g *Game) Moves() []MoveRecord {
	return append([]MoveRecord(nil), g.moves...)
}

// PendingPromotion reports whether the last move still awaits its piece.
func (g *Game) PendingPromotion() bool {
	n := len(g.moves)
	return n > 0 && g.moves[n-1].PendingPromotion()
}

// Status derives the game status from the current position, unless an
// external termination has been recorded.
func (g *Game) Status() (GameStatus, Color) {
	return deriveStatus(g.pos, g.PendingPromotion(), g.termination)
}

func deriveStatus(pos Position, pending bool, t Termination) (GameStatus, Color) {
	if !t.IsZero() {
		return t.Status, t.Winner
	}
	side := pos.Turn
	inCheck := pos.InCheck(side)
	if !pending && !pos.HasLegalMove(side) {
		if inCheck {
			return StatusCheckmate, side.Opposite()
		}
		return StatusStalemate, NoColor
	}
	if inCheck {
		return StatusCheck, NoColor
	}
	return StatusInProgress, NoColor
}

// ApplyMove validates c against the current position and, if it is legal,
// returns the record to append and the resulting game. On any error the game
// is unchanged.
func (g *Game) ApplyMove(c Candidate) (*AppliedMove, error) {
	ply := len(g.moves) + 1
	if st, _ := g.Status(); st.Terminal() {
		return nil, moveErr(ErrGameAlreadyOver, c.From, c.To, ply)
	}
	if g.PendingPromotion() {
		return nil, moveErr(ErrPromotionPending, c.From, c.To, ply)
	}
	if !c.From.Valid() || !c.To.Valid() {
		return nil, moveErr(ErrInvalidSquare, c.From, c.To, ply)
	}

	mover := g.Turn()
	piece := g.pos.Board[c.From]
	if piece.IsEmpty() {
		return nil, moveErr(ErrNoPieceAtSource, c.From, c.To, ply)
	}
	if piece.Color != mover {
		return nil, moveErr(ErrWrongTurn, c.From, c.To, ply)
	}
	mt, ok := g.pos.Classify(c.From, c.To, mover)
	if !ok {
		return nil, moveErr(ErrIllegalMove, c.From, c.To, ply)
	}

	rec := MoveRecord{
		Index:    ply,
		From:     c.From,
		To:       c.To,
		Piece:    piece.Type,
		Color:    mover,
		Type:     mt,
		PlayedAt: c.At,
	}
	rec = withFlags(g.pos, rec)
	next := g.extend(rec, false)
	return &AppliedMove{Record: rec, Game: next, State: next.State()}, nil
}

// ApplyPromotion resolves the pending promotion of the last move to pt.
func (g *Game) ApplyPromotion(pt PieceType) (*AppliedMove, error) {
	n := len(g.moves)
	if !g.termination.IsZero() {
		return nil, moveErr(ErrGameAlreadyOver, NoSquare, NoSquare, n)
	}
	if !g.PendingPromotion() {
		return nil, moveErr(ErrInvalidPromotionChoice, NoSquare, NoSquare, n)
	}
	resolved, err := g.moves[n-1].Resolve(pt)
	if err != nil {
		return nil, err
	}
	resolved = withFlags(g.frames[n-1].before, resolved)
	next := g.extend(resolved, true)
	return &AppliedMove{Record: resolved, Replace: true, Game: next, State: next.State()}, nil
}

// withFlags fills in the check and checkmate flags m produces against the
// opponent. Checkmate is not declared while a promotion is pending.
func withFlags(before Position, m MoveRecord) MoveRecord {
	after := before.Play(m)
	opp := m.Color.Opposite()
	m.Check = after.InCheck(opp)
	m.Checkmate = m.Check && !m.PendingPromotion() && !after.HasLegalMove(opp)
	return m
}

// extend returns a new Game with m appended, or replacing the last move.
func (g *Game) extend(m MoveRecord, replace bool) *Game {
	moves := append([]MoveRecord(nil), g.moves...)
	frames := append([]frame(nil), g.frames...)
	base := g.pos
	if replace {
		n := len(moves)
		base = frames[n-1].before
		moves, frames = moves[:n-1], frames[:n-1]
	}
	after := base.Play(m)
	frames = append(frames, frame{before: base, san: SAN(base, m)})
	return &Game{
		rules:       g.rules,
		moves:       append(moves, m),
		frames:      frames,
		pos:         after,
		termination: g.termination,
	}
}

// WithTermination returns a copy of g ended by an external decision.
func (g *Game) WithTermination(t Termination) (*Game, error) {
	if st, _ := g.Status(); st.Terminal() {
		return nil, moveErr(ErrGameAlreadyOver, NoSquare, NoSquare, len(g.moves))
	}
	if !t.Status.Terminal() {
		return nil, fmt.Errorf("termination status %q is not terminal", t.Status)
	}
	next := *g
	next.termination = t
	return &next, nil
}

// LegalDestinations lists where the piece on from may move, extensions
// included. Only the side to move has destinations.
func (g *Game) LegalDestinations(from Square) ([]Square, error) {
	if st, _ := g.Status(); st.Terminal() {
		return nil, moveErr(ErrGameAlreadyOver, from, NoSquare, len(g.moves))
	}
	if g.PendingPromotion() {
		return nil, moveErr(ErrPromotionPending, from, NoSquare, len(g.moves))
	}
	if !from.Valid() {
		return nil, moveErr(ErrInvalidSquare, from, NoSquare, len(g.moves))
	}
	piece := g.pos.Board[from]
	if piece.IsEmpty() {
		return nil, moveErr(ErrNoPieceAtSource, from, NoSquare, len(g.moves))
	}
	if piece.Color != g.Turn() {
		return nil, moveErr(ErrWrongTurn, from, NoSquare, len(g.moves))
	}
	return g.pos.LegalDestinations(from, piece.Color), nil
}

// PGN renders the numbered movetext followed by the result token.
func (g *Game) PGN() string {
	var sb strings.Builder
	for i, f := range g.frames {
		if i%2 == 0 {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d.", i/2+1)
		}
		sb.WriteByte(' ')
		sb.WriteString(f.san)
	}
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	status, winner := g.Status()
	sb.WriteString(resultToken(status, winner))
	return sb.String()
}

func resultToken(status GameStatus, winner Color) string {
	switch {
	case status == StatusStalemate || status == StatusDraw:
		return "1/2-1/2"
	case status.Terminal() && winner == White:
		return "1-0"
	case status.Terminal() && winner == Black:
		return "0-1"
	}
	return "*"
}
