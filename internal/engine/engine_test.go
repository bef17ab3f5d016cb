package engine

import (
	"testing"
	"time"

	"github.com/kehlund/corvid/internal/board"
)

func TestMultiPV(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16 << 20)

	limits := SearchLimits{
		Depth:    4,
		MoveTime: 2 * time.Second,
		MultiPV:  3,
	}

	results := eng.SearchMultiPV(pos, limits)

	if len(results) < 2 {
		t.Fatalf("Expected at least 2 PVs, got %d", len(results))
	}

	if results[0].Move == results[1].Move {
		t.Errorf("First two PVs have same move: %s", results[0].Move.String())
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("PV %d has higher score than PV %d (%d > %d)",
				i+1, i, results[i].Score, results[i-1].Score)
		}
	}
}

func TestSearchBasic(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(16 << 20)
	eng.SetDifficulty(Easy)

	move := eng.Search(pos)
	if move == board.NoMove {
		t.Error("Search returned NoMove for starting position")
	}
}

// TestRepeatedSearchStability runs several searches back to back on varied
// positions to catch state that leaks between calls to SearchWithLimits
// (stale root data, a TT generation that never advances, and similar).
func TestRepeatedSearchStability(t *testing.T) {
	eng := NewEngine(16 << 20)

	fens := []string{
		board.StartFEN,
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"rnbqkbnr/ppp1pppp/8/3p4/3P4/8/PPP1PPPP/RNBQKBNR w KQkq d6 0 2",
	}

	for i, fen := range fens {
		pos, err := board.ParseFEN(fen)
		if err != nil {
			t.Fatalf("Failed to parse position %d: %v", i, err)
		}

		limits := SearchLimits{Depth: 5, MoveTime: 300 * time.Millisecond}
		move := eng.SearchWithLimits(pos, limits)
		if move == board.NoMove && pos.GenerateLegalMoves().Len() > 0 {
			t.Errorf("position %d: search returned NoMove with legal moves available", i)
		}
	}
}

func TestEnginePerft(t *testing.T) {
	eng := NewEngine(1 << 20)
	pos := board.NewPosition()

	const want = 197281 // perft(4) from the starting position
	if got := eng.Perft(pos, 4); got != want {
		t.Errorf("Perft(4) = %d, want %d", got, want)
	}
}

func TestScoreToString(t *testing.T) {
	if s := ScoreToString(150); s != "1.50" {
		t.Errorf("ScoreToString(150) = %q, want %q", s, "1.50")
	}
	if s := ScoreToString(-75); s != "-0.75" {
		t.Errorf("ScoreToString(-75) = %q, want %q", s, "-0.75")
	}
	if s := ScoreToString(MateScore - 3); s != "Mate in 2" {
		t.Errorf("ScoreToString(MateScore-3) = %q, want %q", s, "Mate in 2")
	}
}
