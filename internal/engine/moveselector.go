package engine

import (
	"github.com/kehlund/corvid/internal/board"
)

// Generator identifies which collaborator methods and phase list a
// MoveSelector uses. The teacher's ordering.go scores and sorts an entire
// move list up front, once, for every node; a Generator instead drives a
// small state machine that only generates and scores as much as the
// caller actually consumes, matching real engines' staged move-picker
// designs (see other_examples for comparable MovePicker/staged-generation
// shapes).
type Generator int

const (
	GenRoot Generator = iota
	GenPV
	GenNonPV
	GenEscape
	GenQ
	GenQCheck
)

// Phase is one stage of a Generator's phase list. Each phase generates (or
// reuses already-generated) moves from one collaborator method, scores
// them with one function from scoring.go, and yields them either in
// sorted or raw order depending on its ordered-prefix count.
type Phase int

const (
	PhaseRoot Phase = iota
	PhaseTrans
	PhaseGoodTactics
	PhaseKillers
	PhaseQuiet
	PhaseBadTactics
	PhaseEvasions
	PhaseQSearch
	PhaseQSearchChecks
	PhaseDone
)

// phaseLists fixes, per Generator, the ordered sequence of phases a
// MoveSelector walks through.
var phaseLists = map[Generator][]Phase{
	GenRoot:   {PhaseRoot},
	GenPV:     {PhaseTrans, PhaseGoodTactics, PhaseKillers, PhaseQuiet, PhaseBadTactics},
	GenNonPV:  {PhaseTrans, PhaseGoodTactics, PhaseKillers, PhaseQuiet, PhaseBadTactics},
	GenEscape: {PhaseEvasions},
	GenQ:      {PhaseTrans, PhaseQSearch},
	GenQCheck: {PhaseTrans, PhaseQSearch, PhaseQSearchChecks},
}

// orderedPrefix bounds how many Next() calls within a scored phase use a
// lazy best-first selection (pickBest) before falling back to raw
// generation order. A large value effectively means "always best-first";
// it is kept finite because an unbounded scan over a long quiet-move tail
// buys nothing once the remaining moves are all near-equal history scores.
func orderedPrefix(phase Phase) int {
	switch phase {
	case PhaseGoodTactics, PhaseKillers, PhaseQuiet:
		return 256
	case PhaseEvasions:
		return 16
	case PhaseQSearch, PhaseQSearchChecks:
		return 4
	default:
		// PhaseBadTactics is yielded in insertion order: sorting it by SEE
		// is a listed future experiment, not current behavior.
		return 0
	}
}

// MoveSelector lazily produces moves for one search node in the order a
// given Generator's phase list prescribes, scoring each phase's moves only
// once and only when that phase is actually reached.
type MoveSelector struct {
	pos     *board.Position
	gen     Generator
	node    *SearchNode
	history *HistoryTable

	hashMove board.Move
	rootData *RootData

	phases   []Phase
	phaseIdx int

	buf            []board.Move
	scores         []int
	cursor         int
	orderedYielded int

	badTactics  []board.Move
	badScores   []int
	killerCands [5]board.Move
	killerCount int

	singleReply bool
}

// NewMoveSelector builds a selector for pos at node, driven by gen.
// hashMove is the TT move for this node (board.NoMove if none). history is
// consulted in the QUIET, EVASIONS and QSEARCH_CHECKS phases; rootData is required (and
// only used) when gen is GenRoot.
func NewMoveSelector(pos *board.Position, gen Generator, node *SearchNode, history *HistoryTable, hashMove board.Move, rootData *RootData) *MoveSelector {
	ms := &MoveSelector{
		pos:      pos,
		gen:      gen,
		node:     node,
		history:  history,
		hashMove: hashMove,
		rootData: rootData,
		phases:   phaseLists[gen],
	}
	ms.enterPhase()
	return ms
}

func (ms *MoveSelector) currentPhase() Phase {
	if ms.phaseIdx >= len(ms.phases) {
		return PhaseDone
	}
	return ms.phases[ms.phaseIdx]
}

// enterPhase generates and scores the moves for the phase at ms.phaseIdx,
// or skips over any phase that turns out to be empty so Next never
// returns a spurious false.
func (ms *MoveSelector) enterPhase() {
	for ms.phaseIdx < len(ms.phases) {
		phase := ms.phases[ms.phaseIdx]
		ms.cursor = 0
		ms.orderedYielded = 0

		switch phase {
		case PhaseRoot:
			ms.buf = nil // Root iterates rootData.Moves directly in Next.
			return

		case PhaseTrans:
			// Plausible-legality is the fast, may-false-positive test: cheap
			// enough to run before paying for IsPseudoLegal's geometry check.
			if ms.hashMove != board.NoMove && ms.pos.IsPlausibleLegal(ms.hashMove) {
				ms.buf = []board.Move{ms.hashMove}
				ms.scores = []int{ScoreHash()}
				return
			}

		case PhaseGoodTactics:
			tactics := ms.pos.GeneratePseudoTacticalMoves()
			var good, bad []board.Move
			var goodScores, badScores []int
			for i := 0; i < tactics.Len(); i++ {
				m := tactics.Get(i)
				if m == ms.hashMove {
					continue
				}
				sc := ScoreTactic(ms.pos, m)
				if sc >= ScoreQuietBase {
					good = append(good, m)
					goodScores = append(goodScores, sc)
				} else {
					bad = append(bad, m)
					badScores = append(badScores, sc)
				}
			}
			ms.badTactics, ms.badScores = bad, badScores
			if len(good) > 0 {
				ms.buf, ms.scores = good, goodScores
				return
			}

		case PhaseKillers:
			ms.buildKillerCandidates()
			if ms.killerCount > 0 {
				ms.buf = ms.killerCands[:ms.killerCount]
				// Descending scores keep pickBest on the staged slot order.
				ms.scores = make([]int, ms.killerCount)
				for i := range ms.scores {
					ms.scores[i] = ms.killerCount - i
				}
				return
			}

		case PhaseQuiet:
			quiets := ms.pos.GeneratePseudoQuietMoves()
			var buf []board.Move
			var scores []int
			for i := 0; i < quiets.Len(); i++ {
				m := quiets.Get(i)
				staged := false
				for k := 0; k < ms.killerCount; k++ {
					staged = staged || ms.killerCands[k] == m
				}
				if m == ms.hashMove || staged || ms.node != nil && ms.node.IsKiller(m) {
					continue
				}
				buf = append(buf, m)
				scores = append(scores, ScoreQuiet(ms.history, m.HistoryIndex(ms.pos)))
			}
			if len(buf) > 0 {
				ms.buf, ms.scores = buf, scores
				return
			}

		case PhaseBadTactics:
			if len(ms.badTactics) > 0 {
				ms.buf, ms.scores = ms.badTactics, ms.badScores
				return
			}

		case PhaseEvasions:
			evasions := ms.pos.GenerateEvasions()
			var buf []board.Move
			var scores []int
			for i := 0; i < evasions.Len(); i++ {
				m := evasions.Get(i)
				buf = append(buf, m)
				scores = append(scores, ms.scoreGeneric(m))
			}
			ms.singleReply = len(buf) == 1
			if len(buf) > 0 {
				ms.buf, ms.scores = buf, scores
				return
			}

		case PhaseQSearch:
			tactics := ms.pos.GeneratePseudoTacticalMoves()
			var buf []board.Move
			var scores []int
			for i := 0; i < tactics.Len(); i++ {
				m := tactics.Get(i)
				if m == ms.hashMove {
					continue
				}
				buf = append(buf, m)
				scores = append(scores, ScoreTactic(ms.pos, m))
			}
			if len(buf) > 0 {
				ms.buf, ms.scores = buf, scores
				return
			}

		case PhaseQSearchChecks:
			checks := ms.pos.GenerateQuiescenceMoves(true)
			var buf []board.Move
			var scores []int
			for i := 0; i < checks.Len(); i++ {
				m := checks.Get(i)
				if m == ms.hashMove {
					continue
				}
				buf = append(buf, m)
				scores = append(scores, ScoreQuiet(ms.history, m.HistoryIndex(ms.pos)))
			}
			if len(buf) > 0 {
				ms.buf, ms.scores = buf, scores
				return
			}
		}

		ms.phaseIdx++
	}
	ms.buf = nil
}

// buildKillerCandidates fills killerCands with up to five slots: the mate
// killer, this node's two ordinary killers, and -- once ply >= 2 -- the
// grand-parent's two ordinary killers (the continuation-style lookup the
// teacher reached via raw pointer arithmetic two slots up its searchStack;
// here it is SearchNode.Grandparent()). Duplicates, the hash move, and any
// slot failing the fast plausible-legality test are skipped.
func (ms *MoveSelector) buildKillerCandidates() {
	ms.killerCount = 0
	if ms.node == nil {
		return
	}
	add := func(m board.Move) {
		if m == board.NoMove || m == ms.hashMove {
			return
		}
		if !ms.pos.IsPlausibleLegal(m) {
			return
		}
		for i := 0; i < ms.killerCount; i++ {
			if ms.killerCands[i] == m {
				return
			}
		}
		ms.killerCands[ms.killerCount] = m
		ms.killerCount++
	}
	add(ms.node.MateKiller)
	add(ms.node.Killers[0])
	add(ms.node.Killers[1])
	if ms.node.Ply >= 2 {
		if gp := ms.node.Grandparent(); gp != nil {
			add(gp.Killers[0])
			add(gp.Killers[1])
		}
	}
}

// scoreGeneric scores a single evasion candidate using whichever score
// class applies: hash move, tactic, killer, or quiet history. The EVASIONS
// phase has no separate TRANS phase of its own, but still ranks the hash
// move first by scoring it with ScoreHash here, satisfying the rule that
// the hash move leads every non-root selector.
func (ms *MoveSelector) scoreGeneric(m board.Move) int {
	if m == ms.hashMove {
		return ScoreHash()
	}
	if m.IsCapture(ms.pos) || m.IsPromotion() {
		return ScoreTactic(ms.pos, m)
	}
	if ms.node != nil {
		if m == ms.node.MateKiller {
			return ScoreKiller(MateKillerSlot)
		}
		if m == ms.node.Killers[0] {
			return ScoreKiller(0)
		}
		if m == ms.node.Killers[1] {
			return ScoreKiller(1)
		}
	}
	return ScoreQuiet(ms.history, m.HistoryIndex(ms.pos))
}

// Next returns the next move in phase-list order, or (NoMove, false) once
// every phase is exhausted.
func (ms *MoveSelector) Next() (board.Move, bool) {
	if ms.gen == GenRoot {
		return ms.nextRoot()
	}

	for {
		if ms.buf == nil || ms.cursor >= len(ms.buf) {
			ms.phaseIdx++
			ms.enterPhase()
			if ms.currentPhase() == PhaseDone {
				return board.NoMove, false
			}
			continue
		}

		prefix := orderedPrefix(ms.phases[ms.phaseIdx])
		if ms.orderedYielded < prefix {
			pickBest(ms.buf, ms.scores, ms.cursor)
			ms.orderedYielded++
		}

		m := ms.buf[ms.cursor]
		ms.cursor++
		return m, true
	}
}

func (ms *MoveSelector) nextRoot() (board.Move, bool) {
	if ms.rootData == nil || ms.cursor >= len(ms.rootData.Moves) {
		return board.NoMove, false
	}
	m := ms.rootData.Moves[ms.cursor].Move
	ms.cursor++
	return m, true
}

// Phase reports which phase the most recently returned move came from,
// for callers that apply different search extensions/reductions per
// phase (e.g. no late-move reductions while still in PhaseGoodTactics).
func (ms *MoveSelector) Phase() Phase {
	return ms.currentPhase()
}

// SingleReply reports whether this node had exactly one legal evasion,
// valid once construction has run the ESCAPE generator's single EVASIONS
// phase. Consumers use it to grant a search extension for forced replies.
func (ms *MoveSelector) SingleReply() bool {
	return ms.singleReply
}
