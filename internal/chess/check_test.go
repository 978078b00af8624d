package chess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInCheck(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		color     Color
		want      bool
	}{
		{"starting position", InitialPlacement, White, false},
		{"rook on the same rank", "4k3/8/8/8/8/8/8/r3K3", White, true},
		{"rook screened by a piece", "4k3/8/8/8/8/8/8/rN2K3", White, false},
		{"pawn straight ahead does not attack", "4k3/8/8/8/8/8/4p3/4K3", White, false},
		{"pawn on the diagonal attacks", "4k3/8/8/8/8/8/3p4/4K3", White, true},
		{"knight check", "4k3/8/8/8/8/3n4/8/4K3", White, true},
		{"bishop on a long diagonal", "7k/8/8/8/8/8/8/B3K3", Black, true},
		{"no king on the board", "8/8/8/8/8/8/8/r7", White, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustPlacement(t, tt.placement).IsInCheck(tt.color))
		})
	}
}

func TestIsCheckmate(t *testing.T) {
	tests := []struct {
		name      string
		placement string
		color     Color
		mate      bool
		stalemate bool
	}{
		{"starting position", InitialPlacement, White, false, false},
		{"queen backed by bishop", "k7/8/8/8/8/5b2/4q3/4K3", White, true, false},
		{"back rank mate", "R5k1/5ppp/8/8/8/7K/8/8", Black, true, false},
		{"back rank check answered by a capture", "R5k1/5ppp/8/8/8/7K/8/r7", Black, false, false},
		{"queen and king stalemate", "7k/5Q2/6K1/8/8/8/8/8", Black, false, true},
		{"in check with an escape square", "4k3/8/8/8/8/8/8/r3K3", White, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustPlacement(t, tt.placement)
			assert.Equal(t, tt.mate, b.IsCheckmate(tt.color))
			assert.Equal(t, tt.stalemate, b.IsStalemate(tt.color))
		})
	}
}

func TestScholarsMate(t *testing.T) {
	g := play(t, StandardRules, "e2e4", "e7e5", "f1c4", "b8c6", "d1h5", "g8f6", "h5f7")

	b, err := BoardAtPly(g.Moves(), g.Ply())
	require.NoError(t, err)
	assert.True(t, b.IsCheckmate(Black))
	assert.False(t, b.IsCheckmate(White))

	status, winner := g.Status()
	assert.Equal(t, StatusCheckmate, status)
	assert.Equal(t, White, winner)

	last := g.Moves()[g.Ply()-1]
	assert.True(t, last.Check)
	assert.True(t, last.Checkmate)
	assert.Equal(t, MoveCapture, last.Type)

	st := g.State()
	assert.True(t, st.IsCheck)
	assert.True(t, st.IsCheckmate)
	assert.Equal(t, "Qxf7#", st.Moves[6].SAN)
}

func TestCheckStatusIsNotTerminal(t *testing.T) {
	g := play(t, StandardRules, "e2e4", "f7f6", "d1h5")

	status, winner := g.Status()
	assert.Equal(t, StatusCheck, status)
	assert.Equal(t, NoColor, winner)
	assert.False(t, status.Terminal())

	// Black's only answers block on g6.
	moves := legalMoves(g)
	require.Len(t, moves, 1)
	assert.Equal(t, "g7", moves[0].from.String())
	assert.Equal(t, "g6", moves[0].to.String())
}
