package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// InitialPlacement is the piece-placement field of the starting position.
const InitialPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// Placement encodes the board as the FEN piece-placement field: ranks 8 to
// 1 separated by '/', digits for runs of empty squares.
func (b Board) Placement() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		if r < 7 {
			sb.WriteByte('/')
		}
		empty := 0
		for f := 0; f < 8; f++ {
			p := b[NewSquare(f, r)]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.Letter())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

// ParsePlacement decodes a FEN piece-placement field.
func ParsePlacement(s string) (Board, error) {
	var b Board
	rows := strings.Split(s, "/")
	if len(rows) != 8 {
		return b, fmt.Errorf("%w: want 8 ranks, got %d", ErrInvalidPlacement, len(rows))
	}
	for i, row := range rows {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				if file > 8 {
					return b, fmt.Errorf("%w: rank %d overflows", ErrInvalidPlacement, rank+1)
				}
				continue
			}
			p, ok := pieceFromLetter(ch)
			if !ok {
				return b, fmt.Errorf("%w: unexpected %q", ErrInvalidPlacement, ch)
			}
			if file > 7 {
				return b, fmt.Errorf("%w: rank %d overflows", ErrInvalidPlacement, rank+1)
			}
			b[NewSquare(file, rank)] = p
			file++
		}
		if file != 8 {
			return b, fmt.Errorf("%w: rank %d has %d files", ErrInvalidPlacement, rank+1, file)
		}
	}
	return b, nil
}

// FEN renders the full six-field Forsyth-Edwards record.
func (p Position) FEN() string {
	turn := "w"
	if p.Turn == Black {
		turn = "b"
	}
	return strings.Join([]string{
		p.Board.Placement(),
		turn,
		p.Castling.String(),
		p.EnPassant.String(),
		strconv.Itoa(p.Halfmove),
		strconv.Itoa(p.Fullmove),
	}, " ")
}

// ParseFEN reads a full FEN record. Missing trailing fields take their
// starting-position defaults. Castling and en-passant fields are ignored
// when r disables those extensions.
func ParseFEN(s string, r Rules) (Position, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Position{}, fmt.Errorf("%w: empty FEN", ErrInvalidPlacement)
	}
	b, err := ParsePlacement(fields[0])
	if err != nil {
		return Position{}, err
	}
	pos := Position{Board: b, Turn: White, EnPassant: NoSquare, Fullmove: 1, Rules: r}
	if len(fields) > 1 {
		if pos.Turn, err = ParseColor(fields[1]); err != nil {
			return Position{}, fmt.Errorf("%w: %v", ErrInvalidPlacement, err)
		}
	}
	if len(fields) > 2 && r.Castling {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				pos.Castling |= WhiteKingside
			case 'Q':
				pos.Castling |= WhiteQueenside
			case 'k':
				pos.Castling |= BlackKingside
			case 'q':
				pos.Castling |= BlackQueenside
			case '-':
			default:
				return Position{}, fmt.Errorf("%w: castling field %q", ErrInvalidPlacement, fields[2])
			}
		}
	}
	if len(fields) > 3 && fields[3] != "-" && r.EnPassant {
		if pos.EnPassant, err = ParseSquare(fields[3]); err != nil {
			return Position{}, err
		}
	}
	if len(fields) > 4 {
		if pos.Halfmove, err = strconv.Atoi(fields[4]); err != nil {
			return Position{}, fmt.Errorf("%w: halfmove clock %q", ErrInvalidPlacement, fields[4])
		}
	}
	if len(fields) > 5 {
		if pos.Fullmove, err = strconv.Atoi(fields[5]); err != nil {
			return Position{}, fmt.Errorf("%w: fullmove number %q", ErrInvalidPlacement, fields[5])
		}
	}
	return pos, nil
}
