package dispatch

import (
	"context"
	"testing"
	"time"
)

func newTestCycle(cands *stubCandidates, store *stubStore) *Cycle {
	d := NewDispatcher(cands, store, nil, testLogger{}, Settings{})
	return NewCycle(d, store, testLogger{}, Settings{})
}

func TestCycleInitialBatch(t *testing.T) {
	store := &stubStore{awaiting: []AwaitingRequest{
		{Request: openRequest(), TotalDispatches: 0, MaxBatch: 0},
	}}
	c := newTestCycle(&stubCandidates{cands: manyCandidates(40)}, store)

	c.Tick(context.Background())

	if store.expireCalls != 1 {
		t.Fatalf("expiry sweep ran %d times, want 1", store.expireCalls)
	}
	if len(store.inserts) != 1 {
		t.Fatalf("expected one batch, got %d", len(store.inserts))
	}
	ins := store.inserts[0]
	if ins.batchNo != 1 || len(ins.masterIDs) != 15 {
		t.Fatalf("first wave must be batch 1 of at most 15, got batch %d of %d", ins.batchNo, len(ins.masterIDs))
	}
}

func TestCycleExpandedBatch(t *testing.T) {
	req := openRequest()
	store := &stubStore{awaiting: []AwaitingRequest{
		{Request: req, TotalDispatches: 15, MaxBatch: 1},
	}}
	c := newTestCycle(&stubCandidates{cands: manyCandidates(40)}, store)

	c.Tick(context.Background())

	if len(store.inserts) != 1 {
		t.Fatalf("expected one batch, got %d", len(store.inserts))
	}
	ins := store.inserts[0]
	if ins.batchNo != 2 || len(ins.masterIDs) != 20 {
		t.Fatalf("expansion must be batch 2 of at most 20, got batch %d of %d", ins.batchNo, len(ins.masterIDs))
	}
}

func TestCycleSingleFlight(t *testing.T) {
	store := &stubStore{awaiting: []AwaitingRequest{
		{Request: openRequest()},
	}}
	c := newTestCycle(&stubCandidates{cands: manyCandidates(5)}, store)

	c.running.Store(true)
	c.Tick(context.Background())

	if store.expireCalls != 0 || len(store.inserts) != 0 {
		t.Fatalf("overlapping tick must be dropped, got sweep=%d inserts=%d", store.expireCalls, len(store.inserts))
	}

	c.running.Store(false)
	c.Tick(context.Background())
	if store.expireCalls != 1 {
		t.Fatalf("tick after release must run, sweep=%d", store.expireCalls)
	}
}

func TestCycleSweepIdempotent(t *testing.T) {
	store := &stubStore{expired: 3}
	c := newTestCycle(&stubCandidates{}, store)

	c.Tick(context.Background())
	c.Tick(context.Background())

	if store.expireCalls != 2 {
		t.Fatalf("sweep ran %d times, want 2", store.expireCalls)
	}
	if len(store.inserts) != 0 {
		t.Fatalf("no awaiting requests, nothing should be dispatched")
	}
}

func TestCycleRunStopsOnCancel(t *testing.T) {
	store := &stubStore{}
	c := newTestCycle(&stubCandidates{}, store)
	c.settings.CycleInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if store.expireCalls == 0 {
		t.Fatal("expected at least one tick before cancel")
	}
}
