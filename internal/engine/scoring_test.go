package engine

import (
	"testing"

	"github.com/kehlund/corvid/internal/board"
)

func TestScoreHashAboveEverythingElse(t *testing.T) {
	if ScoreHash() <= ScoreGoodTactic {
		t.Errorf("ScoreHash() = %d, want it above ScoreGoodTactic (%d)", ScoreHash(), ScoreGoodTactic)
	}
}

func TestScoreKillerOrdering(t *testing.T) {
	mate := ScoreKiller(MateKillerSlot)
	k0 := ScoreKiller(0)
	k1 := ScoreKiller(1)

	if !(mate > k0 && k0 > k1) {
		t.Errorf("killer ordering broken: mate=%d k0=%d k1=%d", mate, k0, k1)
	}
	if mate >= ScoreGoodTactic {
		t.Errorf("mate killer score %d should rank below winning tactics (%d)", mate, ScoreGoodTactic)
	}
	if k1 <= ScoreQuietBase {
		t.Errorf("ordinary killer score %d should rank above quiet moves (%d)", k1, ScoreQuietBase)
	}
}

func TestScoreTacticGoodVsBad(t *testing.T) {
	// White rook takes a hanging black rook: a clearly winning capture.
	pos, err := board.ParseFEN("4k3/8/8/8/8/3r4/8/3R3K w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	good := board.NewMove(board.D1, board.D3)
	if sc := ScoreTactic(pos, good); sc < ScoreGoodTactic {
		t.Errorf("winning capture scored %d, want >= ScoreGoodTactic (%d)", sc, ScoreGoodTactic)
	}

	// White queen takes a pawn defended by a rook: a losing exchange.
	pos2, err := board.ParseFEN("4k3/8/8/8/8/3r4/3p4/3Q3K w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	bad := board.NewMove(board.D1, board.D2)
	if sc := ScoreTactic(pos2, bad); sc >= ScoreQuietBase {
		t.Errorf("losing capture scored %d, want it demoted below quiet moves (%d)", sc, ScoreQuietBase)
	}
}

func TestScoreQuietReadsHistory(t *testing.T) {
	h := NewHistoryTable()
	idx := 4*64 + 20
	h.Bump(idx, 8, true)

	base := ScoreQuiet(NewHistoryTable(), idx)
	bumped := ScoreQuiet(h, idx)

	if bumped <= base {
		t.Errorf("ScoreQuiet with bumped history (%d) should exceed fresh table (%d)", bumped, base)
	}
}

func TestPickBestBringsHighestScoreToIndex(t *testing.T) {
	moves := []board.Move{
		board.NewMove(board.A2, board.A3),
		board.NewMove(board.B2, board.B3),
		board.NewMove(board.C2, board.C3),
	}
	scores := []int{10, 50, 30}

	pickBest(moves, scores, 0)

	if scores[0] != 50 || moves[0] != board.NewMove(board.B2, board.B3) {
		t.Errorf("pickBest left index 0 as score %d move %s, want score 50", scores[0], moves[0])
	}
}

func TestSortByScoreDescending(t *testing.T) {
	moves := []board.Move{
		board.NewMove(board.A2, board.A3),
		board.NewMove(board.B2, board.B3),
		board.NewMove(board.C2, board.C3),
	}
	scores := []int{10, 50, 30}

	sortByScore(moves, scores)

	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[i-1] {
			t.Errorf("scores not descending at %d: %v", i, scores)
		}
	}
}
