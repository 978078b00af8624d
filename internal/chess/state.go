package chess

// MoveView is a logged move as presented to players.
type MoveView struct {
	MoveRecord
	SAN string `json:"san"`
}

// CapturedPieces lists what each side has taken, in capture order.
type CapturedPieces struct {
	White []PieceType `json:"white"`
	Black []PieceType `json:"black"`
}

// RenderedState is everything a client needs to draw a game at some ply.
type RenderedState struct {
	Placement        string         `json:"placement"`
	FEN              string         `json:"fen"`
	Ply              int            `json:"ply"`
	Turn             Color          `json:"turn"`
	Moves            []MoveView     `json:"moves"`
	IsCheck          bool           `json:"isCheck"`
	IsCheckmate      bool           `json:"isCheckmate"`
	Status           GameStatus     `json:"status"`
	Winner           Color          `json:"winner"`
	PendingPromotion Color          `json:"pendingPromotion"`
	Material         MaterialCount  `json:"material"`
	Captured         CapturedPieces `json:"captured"`
}

// State renders the current position.
func (g *Game) State() RenderedState {
	return g.render(g.pos, len(g.moves), g.termination)
}

// StateAtPly renders the position after the first ply moves, replaying the
// log from the start. Sticky terminations only apply to the last ply.
func (g *Game) StateAtPly(ply int) (RenderedState, error) {
	pos, err := g.rules.PositionAtPly(g.moves, ply)
	if err != nil {
		return RenderedState{}, err
	}
	var t Termination
	if ply == len(g.moves) {
		t = g.termination
	}
	return g.render(pos, ply, t), nil
}

func (g *Game) render(pos Position, ply int, t Termination) RenderedState {
	pending := ply > 0 && g.moves[ply-1].PendingPromotion()
	status, winner := deriveStatus(pos, pending, t)

	views := make([]MoveView, len(g.moves))
	for i, m := range g.moves {
		views[i] = MoveView{MoveRecord: m, SAN: g.frames[i].san}
	}

	st := RenderedState{
		Placement:   pos.Board.Placement(),
		FEN:         pos.FEN(),
		Ply:         ply,
		Turn:        pos.Turn,
		Moves:       views,
		IsCheck:     pos.InCheck(pos.Turn),
		IsCheckmate: status == StatusCheckmate,
		Status:      status,
		Winner:      winner,
		Material:    pos.Board.Material(),
		Captured:    CapturedPiecesOf(g.moves[:ply]),
	}
	if pending {
		st.PendingPromotion = g.moves[ply-1].Color
	}
	return st
}

// capturedBy returns the piece m removes from the board when played from
// pos, or NoPiece.
func capturedBy(pos Position, m MoveRecord) Piece {
	if m.Type == MoveEnPassant {
		return pos.Board[NewSquare(m.To.File(), m.From.Rank())]
	}
	if m.Type == MoveCastle {
		return NoPiece
	}
	return pos.Board[m.To]
}

// CapturedPiecesOf replays log and collects every captured piece under the
// side that took it.
func CapturedPiecesOf(log []MoveRecord) CapturedPieces {
	out := CapturedPieces{White: []PieceType{}, Black: []PieceType{}}
	pos := StartingPosition(StandardRules)
	for _, m := range log {
		if p := capturedBy(pos, m); !p.IsEmpty() {
			if m.Color == White {
				out.White = append(out.White, p.Type)
			} else {
				out.Black = append(out.Black, p.Type)
			}
		}
		pos = pos.Play(m)
	}
	return out
}
