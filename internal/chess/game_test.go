package chess

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promotionLine walks a white pawn from e2 to a8, capturing the rook there.
var promotionLine = []string{"e2e4", "d7d5", "e4d5", "c7c6", "d5c6", "a7a6", "c6b7", "a6a5", "b7a8"}

func TestApplyMoveFirstMove(t *testing.T) {
	g := newGame(t, StandardRules)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	res, err := g.ApplyMove(Candidate{From: sq(t, "e2"), To: sq(t, "e4"), At: at})
	require.NoError(t, err)

	assert.False(t, res.Replace)
	assert.Equal(t, MoveRecord{
		Index:    1,
		From:     sq(t, "e2"),
		To:       sq(t, "e4"),
		Piece:    Pawn,
		Color:    White,
		Type:     MoveNormal,
		PlayedAt: at,
	}, res.Record)

	rows := strings.Split(res.State.Placement, "/")
	assert.Equal(t, "4P3", rows[4])
	assert.Equal(t, "PPPP1PPP", rows[6])
	assert.Equal(t, Black, res.State.Turn)
	assert.Equal(t, StatusInProgress, res.State.Status)
	assert.Equal(t, 1, res.State.Ply)

	// The receiver is untouched.
	assert.Equal(t, 0, g.Ply())
	assert.Equal(t, InitialPlacement, g.State().Placement)
}

func TestApplyMoveRejections(t *testing.T) {
	tests := []struct {
		name     string
		setup    []string
		from, to Square
		want     ErrorKind
	}{
		{"black moves first", nil, 52, 36, ErrWrongTurn},
		{"white moves twice", []string{"e2e4"}, 11, 27, ErrWrongTurn},
		{"empty source square", nil, 20, 28, ErrNoPieceAtSource},
		{"pawn triple step", nil, 12, 36, ErrIllegalMove},
		{"capturing own piece", nil, 0, 8, ErrIllegalMove},
		{"bishop through own pawn", nil, 2, 20, ErrIllegalMove},
		{"source off the board", nil, NoSquare, 28, ErrInvalidSquare},
		{"destination off the board", nil, 12, 99, ErrInvalidSquare},
		{"same square", nil, 12, 12, ErrIllegalMove},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := play(t, StandardRules, tt.setup...)
			before := g.State()

			res, err := g.ApplyMove(Candidate{From: tt.from, To: tt.to})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)

			var me *MoveError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.want, me.Kind)
			assert.Equal(t, len(tt.setup)+1, me.Ply)

			assert.Equal(t, before, g.State(), "rejected move changed the game")
		})
	}
}

func TestClaimedColorIsIgnored(t *testing.T) {
	g := newGame(t, StandardRules)

	res, err := g.ApplyMove(Candidate{From: sq(t, "e2"), To: sq(t, "e4"), Color: Black})
	require.NoError(t, err)
	assert.Equal(t, White, res.Record.Color)

	_, err = res.Game.ApplyMove(Candidate{From: sq(t, "d2"), To: sq(t, "d4"), Color: White})
	assert.ErrorIs(t, err, ErrWrongTurn)
}

func TestPromotionFlow(t *testing.T) {
	g := play(t, StandardRules, promotionLine...)

	require.True(t, g.PendingPromotion())
	last := g.Moves()[g.Ply()-1]
	assert.Equal(t, MovePromotion, last.Type)
	assert.Equal(t, Pawn, last.Piece)
	assert.Equal(t, NoPieceType, last.Promotion)

	st := g.State()
	assert.Equal(t, White, st.PendingPromotion)
	assert.Equal(t, Piece{Pawn, White}, g.Board().PieceAt(sq(t, "a8")))
	assert.Equal(t, "bxa8", st.Moves[8].SAN)

	t.Run("further moves wait for the choice", func(t *testing.T) {
		_, err := g.ApplyMove(Candidate{From: sq(t, "e8"), To: sq(t, "d7")})
		assert.ErrorIs(t, err, ErrPromotionPending)
		_, err = g.LegalDestinations(sq(t, "e8"))
		assert.ErrorIs(t, err, ErrPromotionPending)
	})

	t.Run("king and pawn are not valid choices", func(t *testing.T) {
		for _, pt := range []PieceType{King, Pawn, NoPieceType} {
			_, err := g.ApplyPromotion(pt)
			assert.ErrorIs(t, err, ErrInvalidPromotionChoice, pt.String())
		}
		assert.True(t, g.PendingPromotion())
	})

	t.Run("queen resolves the pending move", func(t *testing.T) {
		res, err := g.ApplyPromotion(Queen)
		require.NoError(t, err)
		assert.True(t, res.Replace)
		assert.Equal(t, Queen, res.Record.Promotion)
		assert.Equal(t, 9, res.Record.Index)
		assert.Equal(t, 9, res.Game.Ply())
		assert.False(t, res.Game.PendingPromotion())
		assert.Equal(t, Piece{Queen, White}, res.Game.Board().PieceAt(sq(t, "a8")))
		assert.Equal(t, NoColor, res.State.PendingPromotion)
		assert.Equal(t, "bxa8=Q", res.State.Moves[8].SAN)

		_, err = res.Game.ApplyPromotion(Queen)
		assert.ErrorIs(t, err, ErrInvalidPromotionChoice)

		_, err = res.Game.ApplyMove(Candidate{From: sq(t, "e8"), To: sq(t, "d7")})
		assert.NoError(t, err)
	})

	t.Run("under-promotion", func(t *testing.T) {
		res, err := g.ApplyPromotion(Knight)
		require.NoError(t, err)
		assert.Equal(t, Piece{Knight, White}, res.Game.Board().PieceAt(sq(t, "a8")))
		assert.Equal(t, "bxa8=N", res.State.Moves[8].SAN)
	})
}

func TestPromotionWithoutPendingMove(t *testing.T) {
	g := play(t, StandardRules, "e2e4")
	_, err := g.ApplyPromotion(Queen)
	assert.ErrorIs(t, err, ErrInvalidPromotionChoice)

	_, err = newGame(t, StandardRules).ApplyPromotion(Queen)
	assert.ErrorIs(t, err, ErrInvalidPromotionChoice)
}

func TestPendingPromotionDefersCheckmate(t *testing.T) {
	// a7-a8 mates along the back rank once it becomes a queen or rook.
	pos := mustFEN(t, "6k1/P4ppp/8/8/8/8/8/K7 w - - 0 1", StandardRules)
	pending := MoveRecord{Index: 1, From: sq(t, "a7"), To: sq(t, "a8"), Piece: Pawn, Color: White, Type: MovePromotion}

	flagged := withFlags(pos, pending)
	assert.False(t, flagged.Check, "a pawn on a8 gives no check")
	assert.False(t, flagged.Checkmate)

	resolved, err := pending.Resolve(Queen)
	require.NoError(t, err)
	flagged = withFlags(pos, resolved)
	assert.True(t, flagged.Check)
	assert.True(t, flagged.Checkmate)

	resolved, err = pending.Resolve(Knight)
	require.NoError(t, err)
	flagged = withFlags(pos, resolved)
	assert.False(t, flagged.Check)
}

func TestFoolsMateEndsTheGame(t *testing.T) {
	g := play(t, StandardRules, "f2f3", "e7e5", "g2g4", "d8h4")

	status, winner := g.Status()
	assert.Equal(t, StatusCheckmate, status)
	assert.Equal(t, Black, winner)

	_, err := g.ApplyMove(Candidate{From: sq(t, "e2"), To: sq(t, "e4")})
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
	_, err = g.LegalDestinations(sq(t, "e2"))
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
	_, err = g.WithTermination(Termination{Status: StatusSurrender, Winner: White})
	assert.ErrorIs(t, err, ErrGameAlreadyOver)
}

func TestWithTermination(t *testing.T) {
	g := play(t, StandardRules, "e2e4", "e7e5")

	_, err := g.WithTermination(Termination{Status: StatusCheck})
	require.Error(t, err)

	resigned, err := g.WithTermination(Termination{Status: StatusSurrender, Winner: Black})
	require.NoError(t, err)

	status, winner := resigned.Status()
	assert.Equal(t, StatusSurrender, status)
	assert.Equal(t, Black, winner)
	assert.Equal(t, "1. e4 e5 0-1", resigned.PGN())

	_, err = resigned.ApplyMove(Candidate{From: sq(t, "g1"), To: sq(t, "f3")})
	assert.ErrorIs(t, err, ErrGameAlreadyOver)

	// The original game keeps going.
	_, err = g.ApplyMove(Candidate{From: sq(t, "g1"), To: sq(t, "f3")})
	assert.NoError(t, err)

	drawn, err := g.WithTermination(Termination{Status: StatusDraw})
	require.NoError(t, err)
	assert.Equal(t, "1. e4 e5 1/2-1/2", drawn.PGN())
}

func TestGameLegalDestinations(t *testing.T) {
	g := newGame(t, StandardRules)

	dests, err := g.LegalDestinations(sq(t, "b1"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a3", "c3"}, squareNames(dests))

	_, err = g.LegalDestinations(sq(t, "b8"))
	assert.ErrorIs(t, err, ErrWrongTurn)
	_, err = g.LegalDestinations(sq(t, "e4"))
	assert.ErrorIs(t, err, ErrNoPieceAtSource)
	_, err = g.LegalDestinations(NoSquare)
	assert.ErrorIs(t, err, ErrInvalidSquare)

	dests, err = g.LegalDestinations(sq(t, "c1"))
	require.NoError(t, err)
	assert.Empty(t, dests)
}

func TestStateAtPly(t *testing.T) {
	g := play(t, StandardRules, "e2e4", "e7e5", "g1f3")

	st, err := g.StateAtPly(0)
	require.NoError(t, err)
	assert.Equal(t, InitialPlacement, st.Placement)
	assert.Equal(t, White, st.Turn)
	assert.Len(t, st.Moves, 3, "the full log is always listed")

	st, err = g.StateAtPly(2)
	require.NoError(t, err)
	assert.Equal(t, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR", st.Placement)
	assert.Equal(t, White, st.Turn)

	current, err := g.StateAtPly(3)
	require.NoError(t, err)
	assert.Equal(t, g.State(), current)

	for _, ply := range []int{-1, 4, 100} {
		_, err := g.StateAtPly(ply)
		assert.ErrorIs(t, err, ErrMoveIndexOutOfRange, "ply %d", ply)
	}
}

func TestStateAtPlyAppliesTerminationOnlyAtTheEnd(t *testing.T) {
	g := play(t, StandardRules, "e2e4")
	g, err := g.WithTermination(Termination{Status: StatusSurrender, Winner: White})
	require.NoError(t, err)

	st, err := g.StateAtPly(0)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st.Status)

	st, err = g.StateAtPly(1)
	require.NoError(t, err)
	assert.Equal(t, StatusSurrender, st.Status)
	assert.Equal(t, White, st.Winner)
}

func TestCapturedPieces(t *testing.T) {
	line := append(append([]string(nil), promotionLine[:8]...), "b7a8q", "e8d7")
	g := play(t, StandardRules, line...)

	st := g.State()
	assert.Equal(t, []PieceType{Pawn, Pawn, Pawn, Rook}, st.Captured.White)
	assert.Empty(t, st.Captured.Black)
	assert.Equal(t, MaterialCount{White: 39 - 1 + 9, Black: 39 - 3 - 5}, st.Material)
}

func TestNewGameRejectsCorruptLogs(t *testing.T) {
	e2, e4, e5, e7 := Square(12), Square(28), Square(36), Square(52)
	tests := []struct {
		name string
		log  []MoveRecord
		want ErrorKind
	}{
		{
			name: "black first",
			log:  []MoveRecord{{Index: 1, From: e7, To: e5, Piece: Pawn, Color: Black, Type: MoveNormal}},
			want: ErrWrongTurn,
		},
		{
			name: "empty source",
			log:  []MoveRecord{{Index: 1, From: e4, To: e5, Piece: Pawn, Color: White, Type: MoveNormal}},
			want: ErrNoPieceAtSource,
		},
		{
			name: "off-board square",
			log:  []MoveRecord{{Index: 1, From: e2, To: NoSquare, Piece: Pawn, Color: White, Type: MoveNormal}},
			want: ErrInvalidSquare,
		},
		{
			name: "claimed color disagrees with parity",
			log:  []MoveRecord{{Index: 1, From: e2, To: e4, Piece: Pawn, Color: Black, Type: MoveNormal}},
			want: ErrWrongTurn,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGame(StandardRules, tt.log, Termination{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewGameRejectsPendingPromotionMidLog(t *testing.T) {
	g := play(t, StandardRules, promotionLine...)
	log := g.Moves()
	log = append(log, MoveRecord{Index: 10, From: sq(t, "e8"), To: sq(t, "d7"), Piece: King, Color: Black, Type: MoveNormal})

	_, err := NewGame(StandardRules, log, Termination{})
	assert.ErrorIs(t, err, ErrPromotionPending)
}

func TestNewGameIgnoresNonTerminalTermination(t *testing.T) {
	g, err := NewGame(StandardRules, nil, Termination{Status: StatusCheck, Winner: White})
	require.NoError(t, err)
	assert.True(t, g.Termination().IsZero())
}
