package engine

import (
	"testing"

	"github.com/kehlund/corvid/internal/board"
)

// TestMoveSelectorOrdersHashTacticKillerQuiet exercises a single position
// carrying one of each move class and checks the MoveSelector emits them
// in the order §4.4 specifies: hash move, then good tactics, then killers,
// then the remaining quiet moves.
func TestMoveSelectorOrdersHashTacticKillerQuiet(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3p4/4P3/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	hashMove := board.NewMove(board.A1, board.A8)   // quiet rook move, forced first via TT
	goodTactic := board.NewMove(board.E4, board.D5) // pawn takes undefended pawn
	killerMove := board.NewMove(board.E1, board.F1) // quiet king move, marked as killer

	node := NewRootNode()
	node.UpdateKillers(killerMove)

	ms := NewMoveSelector(pos, GenNonPV, node, NewHistoryTable(), hashMove, nil)

	m, ok := ms.Next()
	if !ok || m != hashMove {
		t.Fatalf("first move = %s (ok=%v), want hash move %s", m, ok, hashMove)
	}
	if ms.Phase() != PhaseTrans {
		t.Errorf("phase after hash move = %v, want PhaseTrans", ms.Phase())
	}

	m, ok = ms.Next()
	if !ok || m != goodTactic {
		t.Fatalf("second move = %s (ok=%v), want good tactic %s", m, ok, goodTactic)
	}
	if ms.Phase() != PhaseGoodTactics {
		t.Errorf("phase after tactic = %v, want PhaseGoodTactics", ms.Phase())
	}

	m, ok = ms.Next()
	if !ok || m != killerMove {
		t.Fatalf("third move = %s (ok=%v), want killer %s", m, ok, killerMove)
	}
	if ms.Phase() != PhaseKillers {
		t.Errorf("phase after killer = %v, want PhaseKillers", ms.Phase())
	}

	// Everything after the killer must come from PhaseQuiet (or, if
	// exhausted, PhaseBadTactics), and the killer move must never repeat.
	seen := map[board.Move]bool{hashMove: true, goodTactic: true, killerMove: true}
	for {
		m, ok = ms.Next()
		if !ok {
			break
		}
		if seen[m] {
			t.Errorf("move %s repeated across phases", m)
		}
		seen[m] = true
		if ms.Phase() != PhaseQuiet && ms.Phase() != PhaseBadTactics {
			t.Errorf("trailing move %s came from unexpected phase %v", m, ms.Phase())
		}
	}
}

// TestMoveSelectorEvasionsWhenInCheck checks that a node in check is
// driven by the EVASIONS generator's single phase rather than the normal
// GOOD_TACTICS/KILLERS/QUIET/BAD_TACTICS sequence.
func TestMoveSelectorEvasionsWhenInCheck(t *testing.T) {
	// Black rook checks the white king along the e-file; king must move or
	// block or capture.
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.InCheck() {
		t.Fatal("test position is not actually in check")
	}

	node := NewRootNode()
	ms := NewMoveSelector(pos, GenEscape, node, NewHistoryTable(), board.NoMove, nil)

	count := 0
	for {
		_, ok := ms.Next()
		if !ok {
			break
		}
		if ms.Phase() != PhaseEvasions {
			t.Errorf("evasion move came from phase %v, want PhaseEvasions", ms.Phase())
		}
		count++
	}
	if count == 0 {
		t.Error("no evasions produced for a position in check")
	}
}

// TestMoveSelectorHashMoveSkippedWhenNotPseudoLegal ensures a stale TT move
// (e.g. from a transposed position where it no longer applies) does not
// get yielded as if it were legal.
func TestMoveSelectorHashMoveSkippedWhenNotPseudoLegal(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	// A rook move from a square with no rook on it.
	stale := board.NewMove(board.A1, board.A8)

	node := NewRootNode()
	ms := NewMoveSelector(pos, GenNonPV, node, NewHistoryTable(), stale, nil)

	for {
		m, ok := ms.Next()
		if !ok {
			break
		}
		if m == stale {
			t.Errorf("stale hash move %s was yielded", stale)
		}
	}
}

// TestMoveSelectorSingleReply checks that SingleReply is true immediately
// after construction when exactly one legal evasion exists, and false
// when more than one does.
func TestMoveSelectorSingleReply(t *testing.T) {
	// Black king on a8, checked along the a-file by a white rook on a1, with
	// the white king on b6 covering a7 and b7 -- b8 is the only flight.
	pos, err := board.ParseFEN("k7/8/1K6/8/8/8/8/R7 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.InCheck() {
		t.Fatal("test position is not in check")
	}

	ms := NewMoveSelector(pos, GenEscape, NewRootNode(), NewHistoryTable(), board.NoMove, nil)
	evasions := pos.GenerateEvasions()
	if evasions.Len() != 1 {
		t.Fatalf("test position has %d evasions, want exactly 1", evasions.Len())
	}
	if !ms.SingleReply() {
		t.Error("SingleReply() = false for a position with exactly one legal evasion")
	}

	// The earlier in-check position has more than one evasion available.
	pos2, err := board.ParseFEN("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	ms2 := NewMoveSelector(pos2, GenEscape, NewRootNode(), NewHistoryTable(), board.NoMove, nil)
	if ms2.SingleReply() {
		t.Error("SingleReply() = true for a position with multiple legal evasions")
	}
}

// TestMoveSelectorBadTacticsInsertionOrder checks that PhaseBadTactics is
// yielded in insertion order rather than best-first sorted by SEE.
func TestMoveSelectorBadTacticsInsertionOrder(t *testing.T) {
	// A rook and a bishop both attack a pawn on d5 that is defended twice
	// (by pawns on c6 and e6), so both captures lose material -- two bad
	// tactics whose relative order we can check was NOT re-sorted by SEE.
	pos, err := board.ParseFEN("4k3/8/2p1p3/3p4/8/1B6/3R4/7K w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	tactics := pos.GeneratePseudoTacticalMoves()
	var wantOrder []board.Move
	for i := 0; i < tactics.Len(); i++ {
		m := tactics.Get(i)
		if ScoreTactic(pos, m) < ScoreQuietBase {
			wantOrder = append(wantOrder, m)
		}
	}
	if len(wantOrder) < 2 {
		t.Fatal("test position needs at least two bad tactics to check ordering")
	}

	ms := NewMoveSelector(pos, GenNonPV, NewRootNode(), NewHistoryTable(), board.NoMove, nil)
	var gotOrder []board.Move
	for {
		m, ok := ms.Next()
		if !ok {
			break
		}
		if ms.Phase() == PhaseBadTactics {
			gotOrder = append(gotOrder, m)
		}
	}

	if len(gotOrder) != len(wantOrder) {
		t.Fatalf("got %d bad tactics, want %d", len(gotOrder), len(wantOrder))
	}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Errorf("bad tactics not in generation order: got %v, want %v", gotOrder, wantOrder)
			break
		}
	}
}

// TestMoveSelectorKillersIncludeGrandparent checks that at ply >= 2, the
// KILLERS phase also offers the grandparent node's killer moves.
func TestMoveSelectorKillersIncludeGrandparent(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	root := NewRootNode() // ply 0
	mid := root.Child()   // ply 1
	leaf := mid.Child()   // ply 2

	gpKiller := board.NewMove(board.E1, board.D1) // quiet king move
	root.UpdateKillers(gpKiller)

	ms := NewMoveSelector(pos, GenNonPV, leaf, NewHistoryTable(), board.NoMove, nil)

	sawGPKiller := false
	for {
		m, ok := ms.Next()
		if !ok {
			break
		}
		if m == gpKiller && ms.Phase() == PhaseKillers {
			sawGPKiller = true
		}
	}
	if !sawGPKiller {
		t.Error("grandparent's killer move was never offered in the KILLERS phase")
	}
}

// TestMoveSelectorQSearchCapturesOnly checks that, outside check, the
// quiescence generator without includeChecks only yields captures.
func TestMoveSelectorQSearchCapturesOnly(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	node := NewRootNode()
	ms := NewMoveSelector(pos, GenQ, node, NewHistoryTable(), board.NoMove, nil)

	sawCapture := false
	for {
		m, ok := ms.Next()
		if !ok {
			break
		}
		if !m.IsCapture(pos) {
			t.Errorf("GenQ yielded a non-capture move %s", m)
		}
		sawCapture = true
	}
	if !sawCapture {
		t.Error("GenQ produced no moves for a position with a capture available")
	}
}
