package chess

// Board maps every square to an optional piece. It is a value: assigning or
// passing a Board copies it, so every transition yields a fresh snapshot.
type Board [64]Piece

// InitialBoard is the standard starting position. It is the only place the
// 32-piece layout is declared.
var InitialBoard = func() Board {
	var b Board
	back := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := 0; f < 8; f++ {
		b[NewSquare(f, 0)] = Piece{back[f], White}
		b[NewSquare(f, 1)] = Piece{Pawn, White}
		b[NewSquare(f, 6)] = Piece{Pawn, Black}
		b[NewSquare(f, 7)] = Piece{back[f], Black}
	}
	return b
}()

func (b Board) PieceAt(sq Square) Piece {
	if !sq.Valid() {
		return NoPiece
	}
	return b[sq]
}

// WithMove returns a copy with the piece on from moved to to. Whatever stood
// on to is discarded. No legality is checked.
func (b Board) WithMove(from, to Square) Board {
	if !from.Valid() || !to.Valid() || from == to {
		return b
	}
	b[to] = b[from]
	b[from] = NoPiece
	return b
}

// WithPromotion returns a copy with the piece on sq replaced by one of type
// pt, keeping its color.
func (b Board) WithPromotion(sq Square, pt PieceType) Board {
	if !sq.Valid() || b[sq].IsEmpty() {
		return b
	}
	b[sq].Type = pt
	return b
}

// KingSquare finds the king of the given color, or NoSquare if there is none.
func (b Board) KingSquare(c Color) Square {
	king := Piece{King, c}
	for sq := Square(0); sq < NoSquare; sq++ {
		if b[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// Squares returns every square occupied by a piece of color c, a1 first.
func (b Board) Squares(c Color) []Square {
	var out []Square
	for sq := Square(0); sq < NoSquare; sq++ {
		if !b[sq].IsEmpty() && b[sq].Color == c {
			out = append(out, sq)
		}
	}
	return out
}

// Material sums StandardPieceValues for both sides.
func (b Board) Material() MaterialCount {
	var m MaterialCount
	for _, p := range b {
		if p.IsEmpty() {
			continue
		}
		if p.Color == White {
			m.White += StandardPieceValues[p.Type]
		} else {
			m.Black += StandardPieceValues[p.Type]
		}
	}
	return m
}

// String renders the board as eight lines, rank 8 first.
func (b Board) String() string {
	buf := make([]byte, 0, 72)
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			buf = append(buf, b[NewSquare(f, r)].String()...)
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
