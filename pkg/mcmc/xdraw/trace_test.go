package xdraw

import (
	"errors"
	"sync"
	"testing"
)

// appendN 追加 tune 条调优记录和 draws 条正式记录，失败即 Fatal。
func appendN(t *testing.T, tr *ChainTrace, tune, draws int) {
	t.Helper()
	for i := 0; i < tune; i++ {
		if err := tr.Append(NewDrawRecord(tr.ChainID(), i, true, nil, nil)); err != nil {
			t.Fatalf("Append tuning %d failed: %v", i, err)
		}
	}
	for i := 0; i < draws; i++ {
		if err := tr.Append(NewDrawRecord(tr.ChainID(), i, false, nil, nil)); err != nil {
			t.Fatalf("Append draw %d failed: %v", i, err)
		}
	}
}

func TestChainTrace_Append(t *testing.T) {
	t.Run("contiguous phases", func(t *testing.T) {
		tr := NewChainTrace(0)
		appendN(t, tr, 3, 5)
		if tr.Len() != 8 {
			t.Errorf("Len = %d, expected 8", tr.Len())
		}
		if tr.NonTuningLen() != 5 {
			t.Errorf("NonTuningLen = %d, expected 5", tr.NonTuningLen())
		}
	})

	t.Run("chain mismatch", func(t *testing.T) {
		tr := NewChainTrace(0)
		err := tr.Append(NewDrawRecord(1, 0, true, nil, nil))
		if !errors.Is(err, ErrChainMismatch) {
			t.Errorf("expected ErrChainMismatch, got %v", err)
		}
	})

	t.Run("index gap in tuning phase", func(t *testing.T) {
		tr := NewChainTrace(0)
		err := tr.Append(NewDrawRecord(0, 1, true, nil, nil))
		if !errors.Is(err, ErrIndexGap) {
			t.Errorf("expected ErrIndexGap, got %v", err)
		}
	})

	t.Run("sampling index restarts at zero", func(t *testing.T) {
		tr := NewChainTrace(0)
		appendN(t, tr, 2, 0)
		// 正式采样序号独立于调优计数，从 0 开始
		if err := tr.Append(NewDrawRecord(0, 2, false, nil, nil)); !errors.Is(err, ErrIndexGap) {
			t.Errorf("expected ErrIndexGap for index 2, got %v", err)
		}
		if err := tr.Append(NewDrawRecord(0, 0, false, nil, nil)); err != nil {
			t.Errorf("Append draw 0 failed: %v", err)
		}
	})

	t.Run("tuning after sampling rejected", func(t *testing.T) {
		tr := NewChainTrace(0)
		appendN(t, tr, 0, 1)
		err := tr.Append(NewDrawRecord(0, 1, true, nil, nil))
		if !errors.Is(err, ErrTuningAfterSampling) {
			t.Errorf("expected ErrTuningAfterSampling, got %v", err)
		}
	})

	t.Run("finalized trace rejects append", func(t *testing.T) {
		tr := NewChainTrace(0)
		appendN(t, tr, 0, 2)
		tr.Finalize()
		tr.Finalize() // 幂等
		if !tr.Finalized() {
			t.Fatal("trace should be finalized")
		}
		err := tr.Append(NewDrawRecord(0, 2, false, nil, nil))
		if !errors.Is(err, ErrTraceFinalized) {
			t.Errorf("expected ErrTraceFinalized, got %v", err)
		}
		if tr.Len() != 2 {
			t.Errorf("Len = %d, expected 2 (finalize must not discard draws)", tr.Len())
		}
	})
}

func TestChainTrace_View(t *testing.T) {
	tr := NewChainTrace(3)
	appendN(t, tr, 1, 2)

	view := tr.View()
	if view.ChainID() != 3 {
		t.Errorf("ChainID = %d, expected 3", view.ChainID())
	}
	if view.Len() != 3 || view.NonTuningLen() != 2 {
		t.Errorf("view dims = (%d, %d), expected (3, 2)", view.Len(), view.NonTuningLen())
	}

	t.Run("later appends invisible to snapshot", func(t *testing.T) {
		if err := tr.Append(NewDrawRecord(3, 2, false, nil, nil)); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if view.Len() != 3 {
			t.Errorf("view Len = %d after append, expected frozen 3", view.Len())
		}
		last, ok := view.Last()
		if !ok || last.DrawIndex() != 1 || last.IsTuning() {
			t.Errorf("view Last = (%+v, %v), expected sampling draw 1", last, ok)
		}
	})

	t.Run("empty view", func(t *testing.T) {
		empty := NewChainTrace(0).View()
		if _, ok := empty.Last(); ok {
			t.Error("expected Last ok=false on empty view")
		}
	})

	t.Run("out of range panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic on out-of-range At")
			}
		}()
		view.At(3)
	})
}

func TestChainTrace_Last(t *testing.T) {
	tr := NewChainTrace(0)
	if _, ok := tr.Last(); ok {
		t.Error("expected Last ok=false on empty trace")
	}
	appendN(t, tr, 0, 1)
	last, ok := tr.Last()
	if !ok || last.DrawIndex() != 0 {
		t.Errorf("Last = (%+v, %v), expected draw 0", last, ok)
	}
}

// 快照经互斥锁交接后，与所属链的持续追加并发读取必须安全（-race 验证）：
// 快照自持定容切片头，链的追加不触及快照可见的槽位。
func TestChainTrace_View_ConcurrentAppend(t *testing.T) {
	tr := NewChainTrace(0)

	var mu sync.Mutex
	var latest TraceView = tr.View()

	const total = 1000
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < total; i++ {
			if err := tr.Append(NewDrawRecord(0, i, false, map[string][]float64{"x": {float64(i)}}, nil)); err != nil {
				t.Errorf("Append %d failed: %v", i, err)
				return
			}
			mu.Lock()
			latest = tr.View()
			mu.Unlock()
		}
	}()

	check := func(view TraceView) {
		for i := 0; i < view.Len(); i++ {
			if got := view.At(i).DrawIndex(); got != i {
				t.Fatalf("At(%d).DrawIndex = %d", i, got)
			}
		}
	}

	for {
		mu.Lock()
		view := latest
		mu.Unlock()
		check(view)

		select {
		case <-done:
			mu.Lock()
			final := latest
			mu.Unlock()
			if final.Len() != total {
				t.Fatalf("final view Len = %d, expected %d", final.Len(), total)
			}
			check(final)
			return
		default:
		}
	}
}
