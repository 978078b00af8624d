package chess

type offset struct{ df, dr int }

var (
	knightOffsets = []offset{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = []offset{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	bishopRays    = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	rookRays      = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	queenRays     = append(append([]offset{}, bishopRays...), rookRays...)
)

// canLand reports whether a piece of color c may finish on sq: the square is
// empty or holds an opposing piece.
func canLand(b *Board, sq Square, c Color) bool {
	p := b[sq]
	return p.IsEmpty() || p.Color != c
}

// destinations calls visit with every square the piece on from reaches by its
// own movement pattern. It knows nothing about king safety. visit returns
// false to stop the walk early.
func destinations(b *Board, from Square, visit func(Square) bool) {
	p := b[from]
	switch p.Type {
	case Pawn:
		pawnDestinations(b, from, p.Color, visit)
	case Knight:
		leaperDestinations(b, from, p.Color, knightOffsets, visit)
	case Bishop:
		sliderDestinations(b, from, p.Color, bishopRays, visit)
	case Rook:
		sliderDestinations(b, from, p.Color, rookRays, visit)
	case Queen:
		sliderDestinations(b, from, p.Color, queenRays, visit)
	case King:
		leaperDestinations(b, from, p.Color, kingOffsets, visit)
	}
}

func pawnDestinations(b *Board, from Square, c Color, visit func(Square) bool) {
	fwd := c.forward()
	one := from.Offset(0, fwd)
	if one.Valid() && b[one].IsEmpty() {
		if !visit(one) {
			return
		}
		if from.Rank() == c.homeRank() {
			two := from.Offset(0, 2*fwd)
			if two.Valid() && b[two].IsEmpty() && !visit(two) {
				return
			}
		}
	}
	for _, df := range [2]int{-1, 1} {
		to := from.Offset(df, fwd)
		if !to.Valid() {
			continue
		}
		if p := b[to]; !p.IsEmpty() && p.Color != c {
			if !visit(to) {
				return
			}
		}
	}
}

func leaperDestinations(b *Board, from Square, c Color, offsets []offset, visit func(Square) bool) {
	for _, o := range offsets {
		to := from.Offset(o.df, o.dr)
		if to.Valid() && canLand(b, to, c) && !visit(to) {
			return
		}
	}
}

func sliderDestinations(b *Board, from Square, c Color, rays []offset, visit func(Square) bool) {
	for _, r := range rays {
		for to := from.Offset(r.df, r.dr); to.Valid(); to = to.Offset(r.df, r.dr) {
			if !canLand(b, to, c) {
				break
			}
			if !visit(to) {
				return
			}
			if !b[to].IsEmpty() {
				break
			}
		}
	}
}

// reaches is the membership test over destinations.
func reaches(b *Board, from, to Square) bool {
	found := false
	destinations(b, from, func(sq Square) bool {
		if sq == to {
			found = true
			return false
		}
		return true
	})
	return found
}

// attacks reports whether the piece on from attacks target. Pawns attack
// diagonally forward whether or not target is occupied.
func attacks(b *Board, from, target Square) bool {
	p := b[from]
	if p.Type == Pawn {
		fwd := p.Color.forward()
		return target == from.Offset(-1, fwd) || target == from.Offset(1, fwd)
	}
	return reaches(b, from, target)
}

// squareAttacked reports whether any piece of color by attacks sq.
func squareAttacked(b *Board, sq Square, by Color) bool {
	for from := Square(0); from < NoSquare; from++ {
		if p := b[from]; !p.IsEmpty() && p.Color == by && attacks(b, from, sq) {
			return true
		}
	}
	return false
}

// IsPseudoLegal checks only the movement pattern of the piece on from: the
// basic test the check analyzer relies on.
func (b Board) IsPseudoLegal(from, to Square, mover Color) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	p := b[from]
	if p.IsEmpty() || p.Color != mover {
		return false
	}
	return reaches(&b, from, to)
}

// IsLegal reports whether mover may play from-to on this board: the piece
// belongs to mover, its movement pattern allows the move and mover's king is
// not left in check afterwards. Castling and en passant are history
// dependent and handled by Position.
func (b Board) IsLegal(from, to Square, mover Color) bool {
	if !b.IsPseudoLegal(from, to, mover) {
		return false
	}
	return !b.leavesKingInCheck(from, to, mover)
}

func (b Board) leavesKingInCheck(from, to Square, mover Color) bool {
	after := b.WithMove(from, to)
	return after.IsInCheck(mover)
}

// LegalDestinations enumerates every square the piece on from may legally
// move to, in generation order. It returns nil if the square does not hold
// one of mover's pieces.
func (b Board) LegalDestinations(from Square, mover Color) []Square {
	if !from.Valid() {
		return nil
	}
	p := b[from]
	if p.IsEmpty() || p.Color != mover {
		return nil
	}
	var out []Square
	destinations(&b, from, func(to Square) bool {
		if !b.leavesKingInCheck(from, to, mover) {
			out = append(out, to)
		}
		return true
	})
	return out
}

// hasLegalMove reports whether any piece of color c has a legal destination.
func (b Board) hasLegalMove(c Color) bool {
	for from := Square(0); from < NoSquare; from++ {
		if p := b[from]; p.IsEmpty() || p.Color != c {
			continue
		}
		found := false
		destinations(&b, from, func(to Square) bool {
			if !b.leavesKingInCheck(from, to, c) {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}
