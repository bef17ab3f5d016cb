package engine

import (
	"sync/atomic"

	"github.com/kehlund/corvid/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// PVTable stores the principal variation collected while unwinding negamax.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

// Searcher performs a single-threaded alpha-beta search driven by
// MoveSelector, a TranspositionTable, and a HistoryTable. The teacher's
// worker.go ran several of these concurrently under a Lazy-SMP scheduler;
// a Searcher here is the whole search: one thread, one position, one set
// of search tables.
type Searcher struct {
	pos     *board.Position
	tt      *TranspositionTable
	history *HistoryTable

	rootData *RootData
	excluded []board.Move
	multiPV  int

	rootHistory []uint64

	nodes    uint64
	stopFlag atomic.Bool

	pv         PVTable
	undoStack  [MaxPly]board.UndoInfo
	pathHashes [MaxPly]uint64
}

// NewSearcher creates a new searcher sharing tt across successive
// searches (e.g. across a game), with its own private history table.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:      tt,
		history: NewHistoryTable(),
	}
}

// Stop signals the search to stop as soon as it next checks.
func (s *Searcher) Stop() {
	s.stopFlag.Store(true)
}

// IsStopped reports whether the search has been asked to stop.
func (s *Searcher) IsStopped() bool {
	return s.stopFlag.Load()
}

// Reset clears per-search state. The history table is not reset here; it
// decays between searches rather than resetting (see ClearOrderer for a
// hard reset between games).
func (s *Searcher) Reset() {
	s.stopFlag.Store(false)
	s.nodes = 0
	s.rootData = nil
	s.history.Clear()
}

// ClearOrderer resets the history table entirely, for ucinewgame.
func (s *Searcher) ClearOrderer() {
	s.history.Reset()
}

// SetExcludedMoves restricts the root generator to skip these moves, for
// multi-PV search.
func (s *Searcher) SetExcludedMoves(moves []board.Move) {
	s.excluded = moves
}

// SetMultiPV records how many principal variations the driver is asking
// for, consulted by the ROOT generator's sort cascade (see RootData.SortRoot).
func (s *Searcher) SetMultiPV(n int) {
	s.multiPV = n
}

// SetRootHistory supplies the game's position hashes (the UCI driver's list
// ends with the search root's own hash), so isDraw can detect repetition
// against positions reached earlier in the game rather than just within
// the search tree.
func (s *Searcher) SetRootHistory(hashes []uint64) {
	s.rootHistory = hashes
}

// Nodes returns the number of nodes searched since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// isLegalAfterMove reports whether the side that just moved left its own
// king safe. Pseudo-legal generators (GeneratePseudoTacticalMoves,
// GeneratePseudoQuietMoves, GenerateQuiescenceMoves) can hand back moves
// that fail this check; the legal generators (GenerateLegalMoves,
// GenerateEvasions) never do, so callers only need this after moves drawn
// from a pseudo-legal phase.
func (s *Searcher) isLegalAfterMove(mover board.Color) bool {
	kingSq := s.pos.KingSquare[mover]
	return !s.pos.IsSquareAttacked(kingSq, mover.Other())
}

// Search runs a single fixed-depth negamax search from scratch, with no
// prior root ordering to reuse.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	s.pos = pos.Copy()
	s.Reset()
	return s.SearchDepth(depth, -Infinity, Infinity)
}

// SearchDepth runs one iterative-deepening iteration at depth against the
// position set by the last Search call, reusing root move ordering
// collected by prior calls (via s.rootData) so each iteration starts with
// its best guess searched first.
func (s *Searcher) SearchDepth(depth, alpha, beta int) (board.Move, int) {
	legal := s.pos.GenerateLegalMoves()
	if s.rootData == nil {
		s.rootData = NewRootData(legal, nil)
	}

	var hashMove board.Move
	if entry, found := s.tt.Probe(s.pos.Hash); found {
		hashMove = entry.Move
	}

	if depth <= 2 {
		s.fillQSearchScores()
	}

	multiPV := s.multiPV
	if multiPV < 1 {
		multiPV = 1
	}
	s.rootData.SortRoot(hashMove, depth, multiPV)

	root := NewRootNode()
	ms := NewMoveSelector(s.pos, GenRoot, root, s.history, hashMove, s.rootData)

	bestScore := -Infinity
	bestMove := board.NoMove
	s.pv.length[0] = 0
	s.pathHashes[0] = s.pos.Hash

	for {
		m, ok := ms.Next()
		if !ok {
			break
		}
		if containsMove(s.excluded, m) {
			continue
		}

		nodesBefore := s.nodes
		s.nodes++
		s.undoStack[0] = s.pos.MakeMove(m)
		child := root.Child()
		s.pathHashes[child.Ply] = s.pos.Hash
		score := -s.negamax(child, depth-1, -beta, -alpha)
		s.pos.UnmakeMove(m, s.undoStack[0])

		if s.stopFlag.Load() {
			return bestMove, bestScore
		}

		if rm := s.rootData.Find(m); rm != nil {
			rm.Score = score
			rm.PrevScore = score
			rm.Nodes = s.nodes - nodesBefore
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
			if score > alpha {
				alpha = score
				s.pv.moves[0][0] = m
				for j := 1; j < s.pv.length[1]; j++ {
					s.pv.moves[0][j] = s.pv.moves[1][j]
				}
				s.pv.length[0] = s.pv.length[1]
				if s.pv.length[0] < 1 {
					s.pv.length[0] = 1
				}
			}
		}
	}

	return bestMove, bestScore
}

func containsMove(list []board.Move, m board.Move) bool {
	for _, x := range list {
		if x == m {
			return true
		}
	}
	return false
}

// fillQSearchScores ranks root moves by a quiescence search under each,
// used by RootData.SortRoot at depth <= 2 when no full-depth score yet
// exists to order by.
func (s *Searcher) fillQSearchScores() {
	for i := range s.rootData.Moves {
		rm := &s.rootData.Moves[i]
		undo := s.pos.MakeMove(rm.Move)
		rm.QSearchScore = -s.quiescence(&SearchNode{Ply: 1}, -Infinity, Infinity, true)
		s.pos.UnmakeMove(rm.Move, undo)
	}
}

// negamax implements alpha-beta search below the root, driven by a
// MoveSelector whose Generator depends on whether the node is in check.
func (s *Searcher) negamax(node *SearchNode, depth, alpha, beta int) int {
	ply := node.Ply

	if s.nodes&4095 == 0 && s.stopFlag.Load() {
		return 0
	}

	s.pv.length[ply] = ply

	if ply > 0 && s.isDraw(ply) {
		return 0
	}

	var ttMove board.Move
	ttEntry, found := s.tt.Probe(s.pos.Hash)
	if found {
		ttMove = ttEntry.Move
		if int(ttEntry.Depth) >= depth {
			score := AdjustScoreFromTT(int(ttEntry.Score), ply)
			switch ttEntry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(node, alpha, beta, true)
	}

	inCheck := s.pos.InCheck()
	node.InCheck = inCheck

	gen := GenNonPV
	if inCheck {
		gen = GenEscape
	}
	ms := NewMoveSelector(s.pos, gen, node, s.history, ttMove, nil)

	bestScore := -Infinity
	bestMove := board.NoMove
	flag := TTUpperBound
	legalCount := 0

	for {
		m, ok := ms.Next()
		if !ok {
			break
		}

		s.undoStack[ply] = s.pos.MakeMove(m)

		if gen == GenNonPV {
			mover := s.pos.SideToMove.Other()
			if !s.isLegalAfterMove(mover) {
				s.pos.UnmakeMove(m, s.undoStack[ply])
				continue
			}
		}

		legalCount++
		node.MoveCount = legalCount
		node.SingleReply = inCheck && legalCount == 1

		child := node.Child()
		s.pathHashes[child.Ply] = s.pos.Hash
		score := -s.negamax(child, depth-1, -beta, -alpha)
		s.pos.UnmakeMove(m, s.undoStack[ply])

		if s.stopFlag.Load() {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m

			if score > alpha {
				alpha = score
				flag = TTExact

				s.pv.moves[ply][ply] = m
				for j := ply + 1; j < s.pv.length[ply+1]; j++ {
					s.pv.moves[ply][j] = s.pv.moves[ply+1][j]
				}
				s.pv.length[ply] = s.pv.length[ply+1]
			}
		}

		if score >= beta {
			s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(score, ply), TTLowerBound, bestMove)

			if !m.IsCapture(s.pos) && !m.IsPromotion() {
				node.UpdateKillers(m)
				s.history.Bump(m.HistoryIndex(s.pos), depth, true)
				if score >= MateScore-MaxPly {
					node.RecordMateKiller(m)
				}
			}
			return score
		}
	}

	if legalCount == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	s.tt.Store(s.pos.Hash, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)
	return bestScore
}

// quiescence searches captures (and, when includeChecks is set, checking
// quiet moves) to avoid the horizon effect. includeChecks applies only at
// the node where quiescence begins; every deeper quiescence ply searches
// captures only. Past maxQuiescencePly plies from the root (or at MaxPly)
// it returns the static evaluation without searching.
func (s *Searcher) quiescence(node *SearchNode, alpha, beta int, includeChecks bool) int {
	const maxQuiescencePly = 32
	ply := node.Ply

	if ply >= MaxPly || ply > maxQuiescencePly {
		return Evaluate(s.pos)
	}
	if s.stopFlag.Load() {
		return 0
	}

	s.nodes++
	standPat := Evaluate(s.pos)

	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	bigDelta := QueenValue
	if standPat+bigDelta < alpha {
		return alpha
	}

	var ttMove board.Move
	if entry, found := s.tt.Probe(s.pos.Hash); found {
		ttMove = entry.Move
	}

	inCheck := s.pos.InCheck()
	gen := GenQ
	if includeChecks && !inCheck {
		gen = GenQCheck
	}
	ms := NewMoveSelector(s.pos, gen, node, s.history, ttMove, nil)

	for {
		m, ok := ms.Next()
		if !ok {
			break
		}

		if !inCheck && m.IsCapture(s.pos) {
			captureValue := pieceValues[m.CapturedType(s.pos)]
			if m.IsPromotion() {
				captureValue += QueenValue - PawnValue
			}
			if standPat+captureValue+200 < alpha {
				continue
			}
		}

		undo := s.pos.MakeMove(m)
		mover := s.pos.SideToMove.Other()
		if !s.isLegalAfterMove(mover) {
			s.pos.UnmakeMove(m, undo)
			continue
		}

		child := node.Child()
		score := -s.quiescence(child, -beta, -alpha, false)
		s.pos.UnmakeMove(m, undo)

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// isDraw checks for the 50-move rule, insufficient material, and
// repetition. Repetition is checked against both the game history supplied
// via SetRootHistory and the path of positions visited earlier in this
// search line (s.pathHashes[0:ply]); a single prior occurrence of the
// current hash is treated as a draw, the common two-occurrences-total
// convention engines use to avoid searching past a line a player would
// simply repeat rather than waiting for a third occurrence.
func (s *Searcher) isDraw(ply int) bool {
	if s.pos.HalfMoveClock >= 100 {
		return true
	}
	if s.pos.IsInsufficientMaterial() {
		return true
	}

	hash := s.pos.Hash
	for _, h := range s.rootHistory {
		if h == hash {
			return true
		}
	}
	for p := 0; p < ply; p++ {
		if s.pathHashes[p] == hash {
			return true
		}
	}
	return false
}

// GetPV returns the principal variation from the last search.
func (s *Searcher) GetPV() []board.Move {
	pv := make([]board.Move, s.pv.length[0])
	for i := 0; i < s.pv.length[0]; i++ {
		pv[i] = s.pv.moves[0][i]
	}
	return pv
}
