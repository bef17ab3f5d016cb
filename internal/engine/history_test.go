package engine

import "testing"

func TestHistoryBumpIncreasesScore(t *testing.T) {
	h := NewHistoryTable()
	idx := 5*64 + 28

	before := h.Get(idx)
	h.Bump(idx, 4, true)
	after := h.Get(idx)

	if after <= before {
		t.Errorf("Bump(good) did not increase score: before=%d after=%d", before, after)
	}
}

func TestHistoryBumpDecreasesOnFail(t *testing.T) {
	h := NewHistoryTable()
	idx := 5*64 + 28

	h.Bump(idx, 6, true)
	before := h.Get(idx)
	h.Bump(idx, 6, false)
	after := h.Get(idx)

	if after >= before {
		t.Errorf("Bump(bad) did not decrease score: before=%d after=%d", before, after)
	}
}

func TestHistorySaturatesAtMaxHistory(t *testing.T) {
	h := NewHistoryTable()
	idx := 3*64 + 12

	for i := 0; i < 10000; i++ {
		h.Bump(idx, 20, true)
	}

	if got := h.Get(idx); got > MaxHistory || got < -MaxHistory {
		t.Errorf("history score %d exceeds +/-MaxHistory (%d)", got, MaxHistory)
	}
}

func TestHistoryClearHalves(t *testing.T) {
	h := NewHistoryTable()
	idx := 1*64 + 1
	h.Bump(idx, 10, true)
	before := h.Get(idx)

	h.Clear()
	after := h.Get(idx)

	if after != before/2 {
		t.Errorf("Clear() = %d, want %d (half of %d)", after, before/2, before)
	}
}

func TestHistoryResetZeroes(t *testing.T) {
	h := NewHistoryTable()
	idx := 2*64 + 40
	h.Bump(idx, 10, true)

	h.Reset()

	if got := h.Get(idx); got != 0 {
		t.Errorf("Reset() left score %d, want 0", got)
	}
}
