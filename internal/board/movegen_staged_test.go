package board

import "testing"

// TestGeneratePseudoTacticalMovesCapturesOnly checks that every move the
// tactical generator returns is a capture or a promotion, and that it
// finds the one capture available in a simple position.
func TestGeneratePseudoTacticalMovesCapturesOnly(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	tactics := pos.GeneratePseudoTacticalMoves()
	if tactics.Len() == 0 {
		t.Fatal("expected at least one tactical move (exd5)")
	}
	for i := 0; i < tactics.Len(); i++ {
		m := tactics.Get(i)
		if !m.IsCapture(pos) && !m.IsPromotion() {
			t.Errorf("tactical generator returned a quiet move %s", m)
		}
	}
}

// TestGeneratePseudoQuietMovesExcludesCaptures checks the quiet generator
// never returns a capture or promotion, and that the tactical and quiet
// generators partition generateAllMoves between them.
func TestGeneratePseudoQuietMovesExcludesCaptures(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	quiets := pos.GeneratePseudoQuietMoves()
	tactics := pos.GeneratePseudoTacticalMoves()
	all := NewMoveList()
	pos.generateAllMoves(all)

	if quiets.Len()+tactics.Len() != all.Len() {
		t.Errorf("quiet (%d) + tactical (%d) != all pseudo-legal moves (%d)",
			quiets.Len(), tactics.Len(), all.Len())
	}
	for i := 0; i < quiets.Len(); i++ {
		m := quiets.Get(i)
		if m.IsCapture(pos) || m.IsPromotion() {
			t.Errorf("quiet generator returned a tactical move %s", m)
		}
	}
}

// TestGenerateEvasionsOnlyWhenInCheck checks that the evasion generator
// returns only legal moves, and that every evasion actually escapes check.
func TestGenerateEvasionsOnlyWhenInCheck(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.InCheck() {
		t.Fatal("test position is not in check")
	}

	evasions := pos.GenerateEvasions()
	if evasions.Len() == 0 {
		t.Fatal("expected at least one evasion")
	}

	for i := 0; i < evasions.Len(); i++ {
		m := evasions.Get(i)
		undo := pos.MakeMove(m)
		if pos.InCheck() {
			t.Errorf("evasion %s left the king in check", m)
		}
		pos.UnmakeMove(m, undo)
	}
}

// TestGenerateQuiescenceMovesChecksOnly checks that, with includeChecks
// true, every returned move is a quiet move that gives check, disjoint
// from the tactical set.
func TestGenerateQuiescenceMovesChecksOnly(t *testing.T) {
	// White rook on h1 can give check by moving along the h-file or
	// eighth rank without capturing anything.
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	checks := pos.GenerateQuiescenceMoves(true)
	if checks.Len() == 0 {
		t.Fatal("expected at least one checking quiet move (Rh8+)")
	}
	for i := 0; i < checks.Len(); i++ {
		m := checks.Get(i)
		if m.IsCapture(pos) || m.IsPromotion() {
			t.Errorf("checking-quiet generator returned a tactical move %s", m)
		}
		if !pos.givesCheck(m) {
			t.Errorf("move %s returned by GenerateQuiescenceMoves(true) does not give check", m)
		}
	}
}

// TestIsPseudoLegalRejectsEmptySquare checks that a move whose origin
// square holds no piece of the side to move is never pseudo-legal --
// the common case for a stale transposition or killer move.
func TestIsPseudoLegalRejectsEmptySquare(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	if pos.IsPseudoLegal(NewMove(A1, A8)) {
		t.Error("IsPseudoLegal accepted a move from an empty square")
	}
}

// TestIsPlausibleLegalRejectsFriendlyCapture checks the cheap sanity
// filter rejects a move landing on a square the mover already occupies.
func TestIsPlausibleLegalRejectsFriendlyCapture(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	// King "moving" onto its own pawn's square.
	m := NewMove(E1, E2)
	if pos.IsPlausibleLegal(m) {
		t.Error("IsPlausibleLegal accepted a move onto a friendly-occupied square")
	}
}
