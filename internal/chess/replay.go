package chess

// BoardAtPly folds the first ply moves of log onto InitialBoard.
func BoardAtPly(log []MoveRecord, ply int) (Board, error) {
	pos, err := StandardRules.PositionAtPly(log, ply)
	if err != nil {
		return Board{}, err
	}
	return pos.Board, nil
}

// PositionAtPly folds the first ply moves of log onto the starting
// position. Every call starts from scratch.
func (r Rules) PositionAtPly(log []MoveRecord, ply int) (Position, error) {
	if ply < 0 || ply > len(log) {
		return Position{}, moveErr(ErrMoveIndexOutOfRange, NoSquare, NoSquare, ply)
	}
	pos := StartingPosition(r)
	for _, m := range log[:ply] {
		pos = pos.Play(m)
	}
	return pos, nil
}

// frame is one step of a checked replay.
type frame struct {
	before Position
	san    string
}

// replay folds log from the starting position, verifying that each record
// moves a piece of the side whose turn it is by parity.
func (r Rules) replay(log []MoveRecord) ([]frame, Position, error) {
	pos := StartingPosition(r)
	frames := make([]frame, 0, len(log))
	for i, m := range log {
		mover := colorForPly(i)
		if !m.From.Valid() || !m.To.Valid() {
			return nil, pos, moveErr(ErrInvalidSquare, m.From, m.To, i+1)
		}
		piece := pos.Board[m.From]
		if piece.IsEmpty() {
			return nil, pos, moveErr(ErrNoPieceAtSource, m.From, m.To, i+1)
		}
		if piece.Color != mover || m.Color != mover {
			return nil, pos, moveErr(ErrWrongTurn, m.From, m.To, i+1)
		}
		if m.PendingPromotion() && i != len(log)-1 {
			return nil, pos, moveErr(ErrPromotionPending, m.From, m.To, i+1)
		}
		frames = append(frames, frame{before: pos, san: SAN(pos, m)})
		pos = pos.Play(m)
	}
	return frames, pos, nil
}

// colorForPly is the side to move after ply half-moves.
func colorForPly(ply int) Color {
	if ply%2 == 0 {
		return White
	}
	return Black
}
