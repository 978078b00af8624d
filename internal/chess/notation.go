package chess

import (
	"strconv"
	"strings"
)

// SAN renders m in Standard Algebraic Notation as played from pos. A pending
// promotion is written without its "=X" suffix.
func SAN(pos Position, m MoveRecord) string {
	var sb strings.Builder
	suffix := func() {
		switch {
		case m.Checkmate:
			sb.WriteByte('#')
		case m.Check:
			sb.WriteByte('+')
		}
	}

	if m.Type == MoveCastle {
		if m.To.File() == 6 {
			sb.WriteString("O-O")
		} else {
			sb.WriteString("O-O-O")
		}
		suffix()
		return sb.String()
	}

	piece := pos.Board[m.From]
	capture := m.Type == MoveCapture || m.Type == MoveEnPassant || !pos.Board[m.To].IsEmpty()

	if piece.Type == Pawn {
		if capture {
			sb.WriteByte(byte('a' + m.From.File()))
		}
	} else {
		sb.WriteByte(piece.Type.Letter() - 'a' + 'A')
		sb.WriteString(disambiguation(pos, m.From, m.To, piece))
	}
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.Type == MovePromotion && m.Promotion != NoPieceType {
		sb.WriteByte('=')
		sb.WriteByte(m.Promotion.Letter() - 'a' + 'A')
	}
	suffix()
	return sb.String()
}

// disambiguation returns the file, rank or both needed to tell the moving
// piece apart from same-type pieces that could also legally reach to.
func disambiguation(pos Position, from, to Square, piece Piece) string {
	var rivals []Square
	for _, sq := range pos.Board.Squares(piece.Color) {
		if sq != from && pos.Board[sq] == piece && pos.IsLegal(sq, to, piece.Color) {
			rivals = append(rivals, sq)
		}
	}
	if len(rivals) == 0 {
		return ""
	}
	sameFile, sameRank := false, false
	for _, sq := range rivals {
		if sq.File() == from.File() {
			sameFile = true
		}
		if sq.Rank() == from.Rank() {
			sameRank = true
		}
	}
	switch {
	case !sameFile:
		return string(byte('a' + from.File()))
	case !sameRank:
		return strconv.Itoa(from.Rank() + 1)
	}
	return from.String()
}
