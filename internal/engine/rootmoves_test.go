package engine

import (
	"testing"

	"github.com/kehlund/corvid/internal/board"
)

func TestNewRootDataCarriesOverPrevScore(t *testing.T) {
	pos := board.NewPosition()
	moves := pos.GenerateLegalMoves()

	e2e4 := board.NewMove(board.E2, board.E4)
	prev := []RootMove{{Move: e2e4, Score: 42}}

	rd := NewRootData(moves, prev)

	rm := rd.Find(e2e4)
	if rm == nil {
		t.Fatal("e2e4 not found in root data built from the starting position")
	}
	if rm.PrevScore != 42 {
		t.Errorf("PrevScore = %d, want 42", rm.PrevScore)
	}

	other := rd.Find(board.NewMove(board.A2, board.A3))
	if other == nil {
		t.Fatal("a2a3 not found in root data")
	}
	if other.PrevScore != 0 {
		t.Errorf("unrelated move PrevScore = %d, want 0", other.PrevScore)
	}
}

func TestSortByPrevScoreDescending(t *testing.T) {
	rd := &RootData{Moves: []RootMove{
		{Move: board.NewMove(board.A2, board.A3), PrevScore: 10},
		{Move: board.NewMove(board.B2, board.B3), PrevScore: 90},
		{Move: board.NewMove(board.C2, board.C3), PrevScore: 50},
	}}

	rd.SortByPrevScore()

	for i := 1; i < len(rd.Moves); i++ {
		if rd.Moves[i].PrevScore > rd.Moves[i-1].PrevScore {
			t.Errorf("root moves not sorted descending by PrevScore: %+v", rd.Moves)
		}
	}
	if rd.Moves[0].PrevScore != 90 {
		t.Errorf("highest PrevScore move not first: %+v", rd.Moves[0])
	}
}

func TestRootDataFindMissing(t *testing.T) {
	rd := &RootData{Moves: []RootMove{{Move: board.NewMove(board.A2, board.A3)}}}
	if rd.Find(board.NewMove(board.H2, board.H4)) != nil {
		t.Error("Find returned a result for a move not in the root data")
	}
}

// TestSortRootHashMoveAlwaysFirst checks that the hash move sorts first
// regardless of which tiebreaker the cascade is using.
func TestSortRootHashMoveAlwaysFirst(t *testing.T) {
	hash := board.NewMove(board.C2, board.C3)
	rd := &RootData{Moves: []RootMove{
		{Move: board.NewMove(board.A2, board.A3), Nodes: 500},
		{Move: hash, Nodes: 1},
		{Move: board.NewMove(board.B2, board.B3), Nodes: 200},
	}}

	rd.SortRoot(hash, 6, 1)

	if rd.Moves[0].Move != hash {
		t.Errorf("hash move not sorted first: %+v", rd.Moves[0])
	}
}

// TestSortRootShallowDepthUsesQSearchScore checks the depth<=2 branch of
// the cascade orders by QSearchScore rather than Nodes or PrevScore.
func TestSortRootShallowDepthUsesQSearchScore(t *testing.T) {
	rd := &RootData{Moves: []RootMove{
		{Move: board.NewMove(board.A2, board.A3), QSearchScore: 10, PrevScore: 900, Nodes: 1},
		{Move: board.NewMove(board.B2, board.B3), QSearchScore: 90, PrevScore: 10, Nodes: 900},
	}}

	rd.SortRoot(board.NoMove, 2, 1)

	if rd.Moves[0].QSearchScore != 90 {
		t.Errorf("at depth<=2, root moves not ordered by QSearchScore: %+v", rd.Moves)
	}
}

// TestSortRootDeepMultiPVUsesPrevScore checks that once depth > 2 and
// multiPV > 1, the cascade falls back to PrevScore rather than Nodes.
func TestSortRootDeepMultiPVUsesPrevScore(t *testing.T) {
	rd := &RootData{Moves: []RootMove{
		{Move: board.NewMove(board.A2, board.A3), PrevScore: 10, Nodes: 900},
		{Move: board.NewMove(board.B2, board.B3), PrevScore: 90, Nodes: 1},
	}}

	rd.SortRoot(board.NoMove, 6, 2)

	if rd.Moves[0].PrevScore != 90 {
		t.Errorf("at depth>2 with multiPV>1, root moves not ordered by PrevScore: %+v", rd.Moves)
	}
}

// TestSortRootDeepSinglePVUsesNodes checks the final fallback: depth > 2
// and multiPV <= 1 orders by Nodes searched last iteration.
func TestSortRootDeepSinglePVUsesNodes(t *testing.T) {
	rd := &RootData{Moves: []RootMove{
		{Move: board.NewMove(board.A2, board.A3), PrevScore: 90, Nodes: 10},
		{Move: board.NewMove(board.B2, board.B3), PrevScore: 10, Nodes: 900},
	}}

	rd.SortRoot(board.NoMove, 6, 1)

	if rd.Moves[0].Nodes != 900 {
		t.Errorf("at depth>2 with multiPV<=1, root moves not ordered by Nodes: %+v", rd.Moves)
	}
}
