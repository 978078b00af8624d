package chess

import (
	"encoding/json"
	"fmt"
	"time"
)

type Color int8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) Opposite() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// ParseColor accepts "white"/"w" and "black"/"b".
func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w", "WHITE":
		return White, nil
	case "black", "b", "BLACK":
		return Black, nil
	}
	return NoColor, fmt.Errorf("unknown color %q", s)
}

func (c Color) MarshalJSON() ([]byte, error) {
	if c == NoColor {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = NoColor
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseColor(str)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// homeRank is the pawn starting rank, farRank the promotion rank.
func (c Color) homeRank() int {
	if c == White {
		return 1
	}
	return 6
}

func (c Color) farRank() int {
	if c == White {
		return 7
	}
	return 0
}

func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

type PieceType int8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceTypeNames = [...]string{"none", "pawn", "knight", "bishop", "rook", "queen", "king"}

func (pt PieceType) String() string {
	if pt < 0 || int(pt) >= len(pieceTypeNames) {
		return "unknown"
	}
	return pieceTypeNames[pt]
}

// Letter returns the lowercase FEN letter, a space for NoPieceType and '?'
// for anything out of range.
func (pt PieceType) Letter() byte {
	if pt < 0 || int(pt) >= len(pieceTypeNames) {
		return '?'
	}
	return " pnbrqk"[pt]
}

func (pt PieceType) MarshalJSON() ([]byte, error) {
	if pt == NoPieceType {
		return []byte("null"), nil
	}
	return json.Marshal(pt.String())
}

func (pt *PieceType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*pt = NoPieceType
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePieceType(str)
	if err != nil {
		return err
	}
	*pt = parsed
	return nil
}

// ParsePieceType accepts full names ("queen") and FEN letters in either case ("q", "Q").
func ParsePieceType(s string) (PieceType, error) {
	switch s {
	case "pawn", "p", "P", "PAWN":
		return Pawn, nil
	case "knight", "n", "N", "KNIGHT":
		return Knight, nil
	case "bishop", "b", "B", "BISHOP":
		return Bishop, nil
	case "rook", "r", "R", "ROOK":
		return Rook, nil
	case "queen", "q", "Q", "QUEEN":
		return Queen, nil
	case "king", "k", "K", "KING":
		return King, nil
	}
	return NoPieceType, fmt.Errorf("unknown piece type %q", s)
}

// Piece is a kind plus a color. The zero value is an empty square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// Letter returns the FEN letter: uppercase for white, lowercase for black.
func (p Piece) Letter() byte {
	l := p.Type.Letter()
	if p.Color == White && l >= 'a' && l <= 'z' {
		return l - 'a' + 'A'
	}
	return l
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	return string(p.Letter())
}

func pieceFromLetter(ch byte) (Piece, bool) {
	color := Black
	if ch >= 'A' && ch <= 'Z' {
		color = White
		ch = ch - 'A' + 'a'
	}
	switch ch {
	case 'p':
		return Piece{Pawn, color}, true
	case 'n':
		return Piece{Knight, color}, true
	case 'b':
		return Piece{Bishop, color}, true
	case 'r':
		return Piece{Rook, color}, true
	case 'q':
		return Piece{Queen, color}, true
	case 'k':
		return Piece{King, color}, true
	}
	return NoPiece, false
}

type MoveType string

const (
	MoveNormal    MoveType = "normal"
	MoveCapture   MoveType = "capture"
	MovePromotion MoveType = "promotion"
	MoveCastle    MoveType = "castle"
	MoveEnPassant MoveType = "en_passant"
)

type GameStatus string

const (
	StatusInProgress GameStatus = "in_progress"
	StatusCheck      GameStatus = "check"
	StatusCheckmate  GameStatus = "checkmate"
	StatusStalemate  GameStatus = "stalemate"
	StatusDraw       GameStatus = "draw"
	StatusSurrender  GameStatus = "surrender"
)

// Terminal reports whether no further moves can be accepted.
func (s GameStatus) Terminal() bool {
	switch s {
	case StatusCheckmate, StatusStalemate, StatusDraw, StatusSurrender:
		return true
	}
	return false
}

// Termination is the sticky outcome an external actor recorded (resignation,
// agreed draw, forfeit on time). The zero value means none.
type Termination struct {
	Status GameStatus `json:"status,omitempty"`
	Winner Color      `json:"winner"`
}

func (t Termination) IsZero() bool {
	return t.Status == ""
}

// MoveRecord is one entry in a game's append-only move log.
type MoveRecord struct {
	Index     int       `json:"index"`
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Piece     PieceType `json:"piece"`
	Color     Color     `json:"color"`
	Type      MoveType  `json:"type"`
	Promotion PieceType `json:"promotion"`
	Check     bool      `json:"check"`
	Checkmate bool      `json:"checkmate"`
	PlayedAt  time.Time `json:"playedAt"`
}

// PendingPromotion reports whether the move reached the last rank and still
// waits for its promotion piece.
func (m MoveRecord) PendingPromotion() bool {
	return m.Type == MovePromotion && m.Promotion == NoPieceType
}

// Resolve is the single transition a logged move may go through: a pending
// promotion becomes a resolved one. The receiver is left untouched.
func (m MoveRecord) Resolve(pt PieceType) (MoveRecord, error) {
	if !m.PendingPromotion() {
		return m, &MoveError{Kind: ErrInvalidPromotionChoice, From: m.From, To: m.To, Ply: m.Index}
	}
	switch pt {
	case Knight, Bishop, Rook, Queen:
	default:
		return m, &MoveError{Kind: ErrInvalidPromotionChoice, From: m.From, To: m.To, Ply: m.Index}
	}
	m.Promotion = pt
	return m, nil
}

// MaterialCount is the material each side has on the board.
type MaterialCount struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// Balance is white's material minus black's.
func (m MaterialCount) Balance() int {
	return m.White - m.Black
}

// StandardPieceValues maps piece types to their usual point values.
var StandardPieceValues = map[PieceType]int{
	Pawn:   1,
	Knight: 3,
	Bishop: 3,
	Rook:   5,
	Queen:  9,
	King:   0,
}
