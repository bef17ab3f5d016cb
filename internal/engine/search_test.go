package engine

import (
	"testing"

	"github.com/kehlund/corvid/internal/board"
)

func newTestSearcher(t *testing.T) *Searcher {
	t.Helper()
	tt, err := NewTranspositionTable(1 << 20)
	if err != nil {
		t.Fatalf("NewTranspositionTable: %v", err)
	}
	return NewSearcher(tt)
}

// TestSearchFindsMateInOne checks the searcher finds a one-move mate and
// reports a score close to MateScore, the forced-mate invariant the TT's
// AdjustScoreToTT/FromTT pair exists to preserve across the search tree.
func TestSearchFindsMateInOne(t *testing.T) {
	pos, err := board.ParseFEN("7k/R7/6K1/8/8/8/8/8 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	s := newTestSearcher(t)
	move, score := s.Search(pos, 3)

	want := board.NewMove(board.A7, board.A8)
	if move != want {
		t.Errorf("Search found %s, want the mating move %s", move, want)
	}
	if score < MateScore-MaxPly {
		t.Errorf("score %d does not reflect a forced mate (want >= %d)", score, MateScore-MaxPly)
	}
}

// TestSearchDeterministic checks that two independent searches of the same
// position at the same depth, with fresh tables, agree on the best move
// and score -- the search has no source of randomness or shared mutable
// state across instances.
func TestSearchDeterministic(t *testing.T) {
	pos := board.NewPosition()

	s1 := newTestSearcher(t)
	m1, sc1 := s1.Search(pos, 4)

	s2 := newTestSearcher(t)
	m2, sc2 := s2.Search(pos, 4)

	if m1 != m2 || sc1 != sc2 {
		t.Errorf("search not deterministic: (%s, %d) vs (%s, %d)", m1, sc1, m2, sc2)
	}
}

// TestSearchPVStartsWithBestMove checks that the principal variation
// collected during the search begins with the move the search returned.
func TestSearchPVStartsWithBestMove(t *testing.T) {
	pos := board.NewPosition()
	s := newTestSearcher(t)

	move, _ := s.Search(pos, 3)
	pv := s.GetPV()

	if len(pv) == 0 {
		t.Fatal("GetPV() returned an empty PV after a completed search")
	}
	if pv[0] != move {
		t.Errorf("PV[0] = %s, want the returned best move %s", pv[0], move)
	}
}

// TestSearchExcludedMovesOmitRoot checks that SetExcludedMoves keeps the
// root generator from ever returning an excluded move, the mechanism
// SearchMultiPV relies on to find a second-best root move.
func TestSearchExcludedMovesOmitRoot(t *testing.T) {
	pos := board.NewPosition()

	s := newTestSearcher(t)
	best, _ := s.Search(pos, 3)

	s.SetExcludedMoves([]board.Move{best})
	second, _ := s.Search(pos, 3)

	if second == best {
		t.Errorf("search returned the excluded move %s", best)
	}
	if second == board.NoMove {
		t.Error("search with one move excluded returned NoMove")
	}
}

// TestIsDrawFiftyMoveRule checks the half-move clock draw condition
// directly, independent of repetition or insufficient material.
func TestIsDrawFiftyMoveRule(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 100 60")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSearcher(t)
	s.pos = pos

	if !s.isDraw(1) {
		t.Error("isDraw(1) = false for a position at the 50-move limit")
	}
}

// TestSearchDepthOrdersHashMoveFirstAtRoot checks that a move already
// stored in the TT for the root position is searched first, per the ROOT
// generator's "hash move always first" rule.
func TestSearchDepthOrdersHashMoveFirstAtRoot(t *testing.T) {
	pos := board.NewPosition()
	s := newTestSearcher(t)
	s.pos = pos

	hash := board.NewMove(board.D2, board.D4)
	s.tt.Store(pos.Hash, 10, 50, TTExact, hash)

	s.SearchDepth(1, -Infinity, Infinity)

	if len(s.rootData.Moves) == 0 || s.rootData.Moves[0].Move != hash {
		t.Errorf("root move list not ordered with the TT hash move first, got %+v", s.rootData.Moves[0])
	}
}

// TestQuiescenceProbesTT checks that quiescence probes the TT for the
// current position (so its selector gets the stored hash move rather than
// always NoMove) and still returns a sound score with that move present
// (regression guard for the TRANS phase having previously been permanently
// dead in quiescence).
func TestQuiescenceProbesTT(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSearcher(t)
	s.pos = pos

	capture := board.NewMove(board.E4, board.D5)
	s.tt.Store(pos.Hash, 1, 100, TTExact, capture)

	node := NewRootNode()
	probesBefore := s.tt.probes
	score := s.quiescence(node, -Infinity, Infinity, true)
	if s.tt.probes == probesBefore {
		t.Error("quiescence did not probe the transposition table")
	}
	if score < 0 {
		t.Errorf("quiescence score = %d, want a non-negative score reflecting the winning pawn capture", score)
	}
}

// TestIsDrawRepetitionAgainstRootHistory checks that a position matching
// one already played earlier in the game (supplied via SetRootHistory) is
// treated as a draw, even though the search tree itself never revisits it.
func TestIsDrawRepetitionAgainstRootHistory(t *testing.T) {
	pos := board.NewPosition()
	s := newTestSearcher(t)
	s.pos = pos
	s.SetRootHistory([]uint64{pos.Hash})

	if !s.isDraw(1) {
		t.Error("isDraw(1) = false for a position repeating the root game history")
	}
}
