package engine

import (
	"github.com/kehlund/corvid/internal/board"
)

// RootMove is one candidate move at the root of the search tree, tracked
// across iterative-deepening iterations so the ROOT generator can reuse
// the previous iteration's ordering instead of re-scoring from scratch.
type RootMove struct {
	Move         board.Move
	Score        int
	PrevScore    int
	Nodes        uint64
	QSearchScore int
}

// RootData holds the move list the ROOT generator hands out, fully sorted
// by SortRoot at the start of every SearchDepth iteration (see GenRoot in
// moveselector.go) rather than lazily best-first like the other
// generators, since the root move count is small and the full order is
// wanted up front for multi-PV and info output.
type RootData struct {
	Moves []RootMove
}

// NewRootData builds root move data from a legal move list, seeding each
// entry's PrevScore from the Score of the matching entry in prev (found by
// move equality), or zero otherwise.
func NewRootData(moves *board.MoveList, prev []RootMove) *RootData {
	rd := &RootData{Moves: make([]RootMove, moves.Len())}
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		rm := RootMove{Move: m}
		for _, p := range prev {
			if p.Move == m {
				rm.PrevScore = p.Score
				break
			}
		}
		rd.Moves[i] = rm
	}
	return rd
}

// SortByPrevScore orders moves by their previous iteration's score,
// descending, so the move most likely to still be best is searched
// first in the next iteration.
func (rd *RootData) SortByPrevScore() {
	moves := rd.Moves
	for i := 1; i < len(moves); i++ {
		j := i
		for j > 0 && moves[j-1].PrevScore < moves[j].PrevScore {
			moves[j-1], moves[j] = moves[j], moves[j-1]
			j--
		}
	}
}

// SortRoot orders rd.Moves per the ROOT phase's sort cascade: the hash move
// always leads, then ties are broken by qsearch_score at shallow depth
// (depth <= 2, before any full-depth score exists to rank by), else by the
// previous iteration's score when multiPV asks for more than one PV, else
// by nodes searched under each move last iteration (a stabilizer: the move
// that took the most work to refute last time is tried again first). The
// sort is insertion sort, stable, matching the expected root move count
// (N ~= 30).
func (rd *RootData) SortRoot(hashMove board.Move, depth, multiPV int) {
	before := func(a, b RootMove) bool {
		aHash := hashMove != board.NoMove && a.Move == hashMove
		bHash := hashMove != board.NoMove && b.Move == hashMove
		if aHash != bHash {
			return aHash
		}
		switch {
		case depth <= 2:
			return a.QSearchScore > b.QSearchScore
		case multiPV > 1:
			return a.PrevScore > b.PrevScore
		default:
			return a.Nodes > b.Nodes
		}
	}

	moves := rd.Moves
	for i := 1; i < len(moves); i++ {
		j := i
		for j > 0 && before(moves[j], moves[j-1]) {
			moves[j-1], moves[j] = moves[j], moves[j-1]
			j--
		}
	}
}

// Find returns a pointer to the RootMove for m, or nil if absent.
func (rd *RootData) Find(m board.Move) *RootMove {
	for i := range rd.Moves {
		if rd.Moves[i].Move == m {
			return &rd.Moves[i]
		}
	}
	return nil
}
