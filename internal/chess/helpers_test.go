package chess

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func sq(t testing.TB, s string) Square {
	t.Helper()
	v, err := ParseSquare(s)
	require.NoError(t, err)
	return v
}

func mustPlacement(t testing.TB, placement string) Board {
	t.Helper()
	b, err := ParsePlacement(placement)
	require.NoError(t, err)
	return b
}

func mustFEN(t testing.TB, fen string, r Rules) Position {
	t.Helper()
	pos, err := ParseFEN(fen, r)
	require.NoError(t, err)
	return pos
}

func newGame(t testing.TB, r Rules) *Game {
	t.Helper()
	g, err := NewGame(r, nil, Termination{})
	require.NoError(t, err)
	return g
}

// play applies moves written as "e2e4", or "e7e8q" to also resolve a
// promotion.
func play(t testing.TB, r Rules, moves ...string) *Game {
	t.Helper()
	g := newGame(t, r)
	for _, mv := range moves {
		g = playOne(t, g, mv)
	}
	return g
}

func playOne(t testing.TB, g *Game, mv string) *Game {
	t.Helper()
	res, err := g.ApplyMove(Candidate{From: sq(t, mv[:2]), To: sq(t, mv[2:4])})
	require.NoError(t, err, "move %s", mv)
	g = res.Game
	if len(mv) == 5 {
		pt, err := ParsePieceType(mv[4:])
		require.NoError(t, err)
		res, err = g.ApplyPromotion(pt)
		require.NoError(t, err, "promotion %s", mv)
		g = res.Game
	}
	return g
}

type candidateMove struct {
	from, to Square
}

// legalMoves lists every legal move of the side to move, a1 first.
func legalMoves(g *Game) []candidateMove {
	var out []candidateMove
	pos := g.Position()
	for _, from := range pos.Board.Squares(g.Turn()) {
		for _, to := range pos.LegalDestinations(from, g.Turn()) {
			out = append(out, candidateMove{from, to})
		}
	}
	return out
}

var promotionChoices = []PieceType{Queen, Rook, Bishop, Knight}

// randomGame plays random legal moves until the game ends or maxPlies is
// reached. visit sees every intermediate game, the initial one included.
func randomGame(t testing.TB, rng *rand.Rand, r Rules, maxPlies int, visit func(*Game)) *Game {
	t.Helper()
	g := newGame(t, r)
	for i := 0; i < maxPlies; i++ {
		if visit != nil {
			visit(g)
		}
		if st, _ := g.Status(); st.Terminal() {
			break
		}
		moves := legalMoves(g)
		require.NotEmpty(t, moves, "non-terminal game without legal moves")
		mv := moves[rng.Intn(len(moves))]
		res, err := g.ApplyMove(Candidate{From: mv.from, To: mv.to})
		require.NoError(t, err)
		g = res.Game
		if g.PendingPromotion() {
			res, err = g.ApplyPromotion(promotionChoices[rng.Intn(len(promotionChoices))])
			require.NoError(t, err)
			g = res.Game
		}
	}
	return g
}
