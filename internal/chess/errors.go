package chess

import (
	"fmt"
	"strings"
)

// ErrorKind is the closed set of reasons the engine rejects a request. Each
// kind is itself an error so callers can match with errors.Is.
type ErrorKind int

const (
	ErrNoPieceAtSource ErrorKind = iota + 1
	ErrWrongTurn
	ErrIllegalMove
	ErrGameAlreadyOver
	ErrPromotionPending
	ErrInvalidPromotionChoice
	ErrMoveIndexOutOfRange
	ErrInvalidSquare
	ErrInvalidPlacement
)

var errorKindText = map[ErrorKind]string{
	ErrNoPieceAtSource:        "no piece at source square",
	ErrWrongTurn:              "not this side's turn",
	ErrIllegalMove:            "illegal move",
	ErrGameAlreadyOver:        "game already over",
	ErrPromotionPending:       "promotion pending",
	ErrInvalidPromotionChoice: "invalid promotion choice",
	ErrMoveIndexOutOfRange:    "move index out of range",
	ErrInvalidSquare:          "invalid square",
	ErrInvalidPlacement:       "invalid piece placement",
}

func (k ErrorKind) Error() string {
	if s, ok := errorKindText[k]; ok {
		return s
	}
	return fmt.Sprintf("chess error %d", int(k))
}

// Code is a stable snake-case identifier for transport layers to map.
func (k ErrorKind) Code() string {
	return strings.ReplaceAll(strings.ReplaceAll(k.Error(), " ", "_"), "'", "")
}

// MoveError carries the kind plus whatever move context was available.
type MoveError struct {
	Kind ErrorKind
	From Square
	To   Square
	Ply  int
}

func (e *MoveError) Error() string {
	var parts []string
	if e.From.Valid() || e.To.Valid() {
		parts = append(parts, fmt.Sprintf("%s-%s", e.From, e.To))
	}
	if e.Ply > 0 {
		parts = append(parts, fmt.Sprintf("ply %d", e.Ply))
	}
	if len(parts) == 0 {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", strings.Join(parts, ", "), e.Kind.Error())
}

func (e *MoveError) Unwrap() error {
	return e.Kind
}

func moveErr(kind ErrorKind, from, to Square, ply int) error {
	return &MoveError{Kind: kind, From: from, To: to, Ply: ply}
}
