package engine

import (
	"testing"

	"github.com/kehlund/corvid/internal/board"
)

func newTestTT(t *testing.T) *TranspositionTable {
	t.Helper()
	tt, err := NewTranspositionTable(1 << 20)
	if err != nil {
		t.Fatalf("NewTranspositionTable: %v", err)
	}
	return tt
}

func TestTranspositionTableRejectsTooSmall(t *testing.T) {
	if _, err := NewTranspositionTable(16); err == nil {
		t.Error("expected an error for a table smaller than the minimum")
	}
}

func TestTranspositionStoreProbeRoundTrip(t *testing.T) {
	tt := newTestTT(t)
	hash := uint64(0xdeadbeefcafef00d)
	move := board.NewMove(board.E2, board.E4)

	tt.Store(hash, 6, 125, TTExact, move)

	entry, found := tt.Probe(hash)
	if !found {
		t.Fatal("Probe did not find a just-stored entry")
	}
	if entry.Move != move || int(entry.Score) != 125 || int(entry.Depth) != 6 || entry.Flag != TTExact {
		t.Errorf("round-tripped entry = %+v, want move=%s score=125 depth=6 flag=exact", entry, move)
	}
}

func TestTranspositionProbeMiss(t *testing.T) {
	tt := newTestTT(t)
	if _, found := tt.Probe(0x12345); found {
		t.Error("Probe found an entry in an empty table")
	}
}

func TestTranspositionReplacesShallowestWhenBucketFull(t *testing.T) {
	tt := newTestTT(t)

	// Pick bucketSize+1 hashes that collide into the same bucket so the
	// bucket fills and a replacement decision is forced.
	var base uint64 = 7
	hashes := make([]uint64, bucketSize+1)
	for i := range hashes {
		hashes[i] = base + uint64(i)*(tt.mask+1)
	}

	for i, h := range hashes[:bucketSize] {
		tt.Store(h, i+1, 0, TTExact, board.NoMove)
	}

	// The shallowest entry (depth 1, hashes[0]) should be the one evicted
	// when a new entry needs room in the same bucket.
	tt.Store(hashes[bucketSize], 10, 0, TTExact, board.NoMove)

	if _, found := tt.Probe(hashes[0]); found {
		t.Error("shallowest entry survived eviction; replacement policy did not evict it")
	}
	if _, found := tt.Probe(hashes[bucketSize]); !found {
		t.Error("newly stored deep entry was not retained")
	}
}

func TestTranspositionNewSearchAgesEntries(t *testing.T) {
	tt := newTestTT(t)
	hash := uint64(99)
	tt.Store(hash, 3, 0, TTExact, board.NoMove)

	gen0 := tt.generation
	tt.NewSearch()
	if tt.generation == gen0 {
		t.Error("NewSearch did not advance the generation counter")
	}

	entry, found := tt.Probe(hash)
	if !found {
		t.Fatal("entry vanished across NewSearch")
	}
	// Probe refreshes the age to the current generation.
	if entry.Age != tt.generation {
		t.Errorf("entry age %d not refreshed to current generation %d", entry.Age, tt.generation)
	}
}

func TestTranspositionGenerationWraps(t *testing.T) {
	tt := newTestTT(t)
	for i := 0; i < GenLimit*2+1; i++ {
		tt.NewSearch()
	}
	if int(tt.generation) >= GenLimit {
		t.Errorf("generation %d did not wrap modulo GenLimit (%d)", tt.generation, GenLimit)
	}
}

func TestAdjustScoreToFromTTRoundTrip(t *testing.T) {
	score := MateScore - 5
	ply := 3

	stored := AdjustScoreToTT(score, ply)
	restored := AdjustScoreFromTT(stored, ply)

	if restored != score {
		t.Errorf("mate score round trip: got %d, want %d", restored, score)
	}

	// Ordinary scores pass through unchanged at any ply.
	plain := 150
	if got := AdjustScoreFromTT(AdjustScoreToTT(plain, ply), ply); got != plain {
		t.Errorf("non-mate score round trip: got %d, want %d", got, plain)
	}
}

func TestStoreLineWritesWithoutMutatingPosition(t *testing.T) {
	tt := newTestTT(t)
	pos := board.NewPosition()
	fenBefore := pos.Hash

	pv := []board.Move{
		board.NewMove(board.E2, board.E4),
		board.NewMove(board.E7, board.E5),
	}
	tt.StoreLine(pos, pv, 4, 30)

	if pos.Hash != fenBefore {
		t.Error("StoreLine left the position mutated after returning")
	}

	entry, found := tt.Probe(fenBefore)
	if !found {
		t.Fatal("StoreLine did not store the root position")
	}
	if entry.Move != pv[0] || entry.Flag != TTExact {
		t.Errorf("root entry = %+v, want move=%s flag=exact", entry, pv[0])
	}
}

func TestHashFullEmptyIsZero(t *testing.T) {
	tt := newTestTT(t)
	if hf := tt.HashFull(); hf != 0 {
		t.Errorf("HashFull() on empty table = %d, want 0", hf)
	}
}
