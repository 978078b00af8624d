package chess

// IsInCheck reports whether c's king is attacked. A board without a king of
// that color is never in check.
func (b Board) IsInCheck(c Color) bool {
	k := b.KingSquare(c)
	if k == NoSquare {
		return false
	}
	return squareAttacked(&b, k, c.Opposite())
}

// IsCheckmate reports whether c is in check and every move of every piece of
// c leaves the king in check.
func (b Board) IsCheckmate(c Color) bool {
	return b.IsInCheck(c) && !b.hasLegalMove(c)
}

// IsStalemate reports whether c is not in check but has no legal move.
func (b Board) IsStalemate(c Color) bool {
	return !b.IsInCheck(c) && !b.hasLegalMove(c)
}
