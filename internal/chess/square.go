package chess

import (
	"encoding/json"
	"fmt"
)

// Square addresses one of the 64 board cells as rank*8 + file, so a1 is 0
// and h8 is 63.
type Square uint8

const NoSquare Square = 64

func NewSquare(file, rank int) Square {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare
	}
	return Square(rank*8 + file)
}

// File is 0 for the a-file through 7 for the h-file.
func (s Square) File() int { return int(s) % 8 }

// Rank is 0 for the first rank through 7 for the eighth.
func (s Square) Rank() int { return int(s) / 8 }

func (s Square) Valid() bool { return s < NoSquare }

// Offset returns the square df files and dr ranks away, or NoSquare when that
// falls off the board.
func (s Square) Offset(df, dr int) Square {
	if !s.Valid() {
		return NoSquare
	}
	return NewSquare(s.File()+df, s.Rank()+dr)
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare parses algebraic coordinates such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	file := int(s[0]) - 'a'
	rank := int(s[1]) - '1'
	sq := NewSquare(file, rank)
	if sq == NoSquare {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return sq, nil
}

func (s Square) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

func (s *Square) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NoSquare
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	sq, err := ParseSquare(str)
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
