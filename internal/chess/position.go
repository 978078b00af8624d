package chess

// Rules selects the history-dependent extensions on top of the board rules.
type Rules struct {
	Castling  bool `mapstructure:"castling" json:"castling"`
	EnPassant bool `mapstructure:"en_passant" json:"enPassant"`
}

var (
	// StandardRules plays full chess.
	StandardRules = Rules{Castling: true, EnPassant: true}
	// BaselineRules plays only what a single board snapshot can decide.
	BaselineRules = Rules{}
)

type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var s []byte
	for i, ch := range []byte("KQkq") {
		if cr&(1<<i) != 0 {
			s = append(s, ch)
		}
	}
	return string(s)
}

func castleRight(c Color, kingside bool) CastlingRights {
	switch {
	case c == White && kingside:
		return WhiteKingside
	case c == White:
		return WhiteQueenside
	case kingside:
		return BlackKingside
	}
	return BlackQueenside
}

func backRank(c Color) int {
	if c == White {
		return 0
	}
	return 7
}

// Position is a board plus the state a snapshot alone cannot show.
type Position struct {
	Board     Board
	Turn      Color
	Castling  CastlingRights
	EnPassant Square
	Halfmove  int
	Fullmove  int
	Rules     Rules
}

// StartingPosition is the initial position under the given rules.
func StartingPosition(r Rules) Position {
	pos := Position{
		Board:     InitialBoard,
		Turn:      White,
		EnPassant: NoSquare,
		Fullmove:  1,
		Rules:     r,
	}
	if r.Castling {
		pos.Castling = AllCastling
	}
	return pos
}

func (p Position) InCheck(c Color) bool {
	return p.Board.IsInCheck(c)
}

// Classify decides whether mover may play from-to here and, if so, what kind
// of move it is.
func (p Position) Classify(from, to Square, mover Color) (MoveType, bool) {
	b := p.Board
	if !from.Valid() || !to.Valid() {
		return "", false
	}
	piece := b[from]
	if piece.IsEmpty() || piece.Color != mover {
		return "", false
	}
	if b.IsLegal(from, to, mover) {
		switch {
		case piece.Type == Pawn && to.Rank() == mover.farRank():
			return MovePromotion, true
		case !b[to].IsEmpty():
			return MoveCapture, true
		}
		return MoveNormal, true
	}
	if p.isCastle(from, to, mover) {
		return MoveCastle, true
	}
	if p.isEnPassant(from, to, mover) {
		return MoveEnPassant, true
	}
	return "", false
}

func (p Position) IsLegal(from, to Square, mover Color) bool {
	_, ok := p.Classify(from, to, mover)
	return ok
}

func (p Position) isCastle(from, to Square, c Color) bool {
	if !p.Rules.Castling || p.Board[from] != (Piece{King, c}) {
		return false
	}
	rank := backRank(c)
	if from != NewSquare(4, rank) || to.Rank() != rank {
		return false
	}
	var kingside bool
	switch to.File() {
	case 6:
		kingside = true
	case 2:
	default:
		return false
	}
	if p.Castling&castleRight(c, kingside) == 0 {
		return false
	}
	b := &p.Board
	rookFile, between, path := 7, []int{5, 6}, []int{5, 6}
	if !kingside {
		rookFile, between, path = 0, []int{1, 2, 3}, []int{3, 2}
	}
	if b[NewSquare(rookFile, rank)] != (Piece{Rook, c}) {
		return false
	}
	for _, f := range between {
		if !b[NewSquare(f, rank)].IsEmpty() {
			return false
		}
	}
	opp := c.Opposite()
	if squareAttacked(b, from, opp) {
		return false
	}
	for _, f := range path {
		if squareAttacked(b, NewSquare(f, rank), opp) {
			return false
		}
	}
	return true
}

func (p Position) isEnPassant(from, to Square, c Color) bool {
	if !p.Rules.EnPassant || !p.EnPassant.Valid() || to != p.EnPassant {
		return false
	}
	b := p.Board
	if b[from] != (Piece{Pawn, c}) || !b[to].IsEmpty() {
		return false
	}
	fwd := c.forward()
	if to != from.Offset(-1, fwd) && to != from.Offset(1, fwd) {
		return false
	}
	victim := NewSquare(to.File(), from.Rank())
	if b[victim] != (Piece{Pawn, c.Opposite()}) {
		return false
	}
	after := b.WithMove(from, to)
	after[victim] = NoPiece
	return !after.IsInCheck(c)
}

// LegalDestinations is Board.LegalDestinations plus the enabled extensions.
func (p Position) LegalDestinations(from Square, mover Color) []Square {
	if !from.Valid() {
		return nil
	}
	piece := p.Board[from]
	if piece.IsEmpty() || piece.Color != mover {
		return nil
	}
	out := p.Board.LegalDestinations(from, mover)
	switch piece.Type {
	case King:
		for _, f := range [2]int{6, 2} {
			if to := NewSquare(f, backRank(mover)); p.isCastle(from, to, mover) {
				out = append(out, to)
			}
		}
	case Pawn:
		if p.isEnPassant(from, p.EnPassant, mover) {
			out = append(out, p.EnPassant)
		}
	}
	return out
}

// HasLegalMove reports whether c has any legal move, extensions included.
func (p Position) HasLegalMove(c Color) bool {
	if p.Board.hasLegalMove(c) {
		return true
	}
	for _, from := range p.Board.Squares(c) {
		if len(p.LegalDestinations(from, c)) > 0 {
			return true
		}
	}
	return false
}

func (p Position) IsCheckmate(c Color) bool {
	return p.InCheck(c) && !p.HasLegalMove(c)
}

func (p Position) IsStalemate(c Color) bool {
	return !p.InCheck(c) && !p.HasLegalMove(c)
}

// Play applies a logged move and returns the next position. The record is
// trusted: its Type decides how the rook or the captured pawn is handled.
func (p Position) Play(m MoveRecord) Position {
	next := p
	b := &next.Board
	moved := b[m.From]
	captured := b[m.To]
	*b = b.WithMove(m.From, m.To)

	switch m.Type {
	case MoveCastle:
		rank := m.From.Rank()
		if m.To.File() == 6 {
			*b = b.WithMove(NewSquare(7, rank), NewSquare(5, rank))
		} else {
			*b = b.WithMove(NewSquare(0, rank), NewSquare(3, rank))
		}
	case MoveEnPassant:
		victim := NewSquare(m.To.File(), m.From.Rank())
		captured = b[victim]
		b[victim] = NoPiece
	case MovePromotion:
		if m.Promotion != NoPieceType {
			*b = b.WithPromotion(m.To, m.Promotion)
		}
	}

	if moved.Type == King {
		next.Castling &^= castleRight(moved.Color, true) | castleRight(moved.Color, false)
	}
	for _, sq := range [2]Square{m.From, m.To} {
		switch sq {
		case NewSquare(0, 0):
			next.Castling &^= WhiteQueenside
		case NewSquare(7, 0):
			next.Castling &^= WhiteKingside
		case NewSquare(0, 7):
			next.Castling &^= BlackQueenside
		case NewSquare(7, 7):
			next.Castling &^= BlackKingside
		}
	}

	next.EnPassant = NoSquare
	if p.Rules.EnPassant && moved.Type == Pawn && abs(m.To.Rank()-m.From.Rank()) == 2 {
		next.EnPassant = m.From.Offset(0, moved.Color.forward())
	}

	if moved.Type == Pawn || !captured.IsEmpty() {
		next.Halfmove = 0
	} else {
		next.Halfmove++
	}
	if p.Turn == Black {
		next.Fullmove++
	}
	next.Turn = p.Turn.Opposite()
	return next
}
