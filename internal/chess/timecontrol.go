package chess

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeControl is the correspondence clock for a game.
type TimeControl struct {
	Type        string `json:"type" mapstructure:"type"`                  // "correspondence" or "none"
	DaysPerMove int    `json:"daysPerMove" mapstructure:"days_per_move"` // For correspondence games
}

// TimeViolation describes a side that let its move deadline pass.
type TimeViolation struct {
	Color         Color     `json:"color"`
	LastMoveAt    time.Time `json:"lastMoveAt"`
	DeadlineAt    time.Time `json:"deadlineAt"`
	ViolationType string    `json:"violationType"` // "timeout"
}

func (tc TimeControl) enforced() bool {
	return tc.Type == "correspondence" && tc.DaysPerMove > 0
}

func (tc TimeControl) perMove() time.Duration {
	return time.Duration(tc.DaysPerMove) * 24 * time.Hour
}

// lastActivity is when the clock of the side to move started: the last
// move, or the game's creation when nothing has been played.
func lastActivity(moves []MoveRecord, createdAt time.Time) time.Time {
	if n := len(moves); n > 0 && !moves[n-1].PlayedAt.IsZero() {
		return moves[n-1].PlayedAt
	}
	return createdAt
}

// onClock is the side the clock runs against: the side to move, or the
// promoting side while its piece choice is outstanding.
func onClock(moves []MoveRecord) Color {
	if n := len(moves); n > 0 && moves[n-1].PendingPromotion() {
		return moves[n-1].Color
	}
	return colorForPly(len(moves))
}

// Deadline is when the side to move must have moved by.
func (tc TimeControl) Deadline(moves []MoveRecord, createdAt time.Time) (time.Time, error) {
	if !tc.enforced() {
		return time.Time{}, fmt.Errorf("time control not applicable for game type %q", tc.Type)
	}
	return lastActivity(moves, createdAt).Add(tc.perMove()), nil
}

// CheckTimeViolation reports the side to move if its deadline has passed
// at now. It returns nil when there is no violation.
func (tc TimeControl) CheckTimeViolation(moves []MoveRecord, createdAt, now time.Time) *TimeViolation {
	if !tc.enforced() {
		return nil
	}
	last := lastActivity(moves, createdAt)
	deadline := last.Add(tc.perMove())
	if !now.After(deadline) {
		return nil
	}
	return &TimeViolation{
		Color:         onClock(moves),
		LastMoveAt:    last,
		DeadlineAt:    deadline,
		ViolationType: "timeout",
	}
}

// TimeRemaining is how long the side to move has left, never negative.
func (tc TimeControl) TimeRemaining(moves []MoveRecord, createdAt, now time.Time) (time.Duration, error) {
	deadline, err := tc.Deadline(moves, createdAt)
	if err != nil {
		return 0, err
	}
	if remaining := deadline.Sub(now); remaining > 0 {
		return remaining, nil
	}
	return 0, nil
}

// DescribeClock summarizes the clock of the side on the move, for example
// "black: 2 days 4 hours left".
func (tc TimeControl) DescribeClock(moves []MoveRecord, createdAt, now time.Time) string {
	remaining, err := tc.TimeRemaining(moves, createdAt, now)
	if err != nil {
		return "no time limit"
	}
	return onClock(moves).String() + ": " + FormatTimeRemaining(remaining)
}

// FormatTimeRemaining renders the two largest non-zero units of remaining.
func FormatTimeRemaining(remaining time.Duration) string {
	switch {
	case remaining <= 0:
		return "time expired"
	case remaining < time.Minute:
		return "less than a minute left"
	}

	units := []struct {
		name string
		size time.Duration
	}{
		{"day", 24 * time.Hour},
		{"hour", time.Hour},
		{"minute", time.Minute},
	}
	var parts []string
	for _, u := range units {
		n := int(remaining / u.size)
		remaining -= time.Duration(n) * u.size
		if n == 0 {
			if len(parts) > 0 {
				break
			}
			continue
		}
		parts = append(parts, plural(n, u.name))
		if len(parts) == 2 {
			break
		}
	}
	return strings.Join(parts, " ") + " left"
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
