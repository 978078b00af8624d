package chess

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindCodes(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		code string
	}{
		{ErrNoPieceAtSource, "no_piece_at_source_square"},
		{ErrWrongTurn, "not_this_sides_turn"},
		{ErrIllegalMove, "illegal_move"},
		{ErrGameAlreadyOver, "game_already_over"},
		{ErrPromotionPending, "promotion_pending"},
		{ErrInvalidPromotionChoice, "invalid_promotion_choice"},
		{ErrMoveIndexOutOfRange, "move_index_out_of_range"},
		{ErrInvalidSquare, "invalid_square"},
		{ErrInvalidPlacement, "invalid_piece_placement"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.kind.Code())
		})
	}
	assert.Equal(t, "chess error 99", ErrorKind(99).Error())
}

func TestMoveErrorMessage(t *testing.T) {
	err := moveErr(ErrIllegalMove, 12, 36, 1)
	assert.EqualError(t, err, "e2-e5, ply 1: illegal move")

	err = moveErr(ErrGameAlreadyOver, NoSquare, NoSquare, 0)
	assert.EqualError(t, err, "game already over")

	wrapped := fmt.Errorf("apply move: %w", moveErr(ErrWrongTurn, 52, 36, 1))
	assert.True(t, errors.Is(wrapped, ErrWrongTurn))
	assert.False(t, errors.Is(wrapped, ErrIllegalMove))

	var me *MoveError
	assert.True(t, errors.As(wrapped, &me))
	assert.Equal(t, Square(52), me.From)
}
