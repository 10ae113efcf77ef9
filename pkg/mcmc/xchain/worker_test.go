package xchain

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/mckit/pkg/mcmc/xcallback"
	"github.com/omeyang/mckit/pkg/mcmc/xdraw"
)

// countingKernel 产出 mu = 产出序数的确定性 kernel。
type countingKernel struct {
	steps int
	fail  map[int]error // 指定步序号的注入错误
}

func (k *countingKernel) Step(_ context.Context, _ bool) (map[string][]float64, map[string]float64, error) {
	if err, ok := k.fail[k.steps]; ok {
		return nil, nil, err
	}
	v := float64(k.steps)
	k.steps++
	return map[string][]float64{"mu": {v}}, map[string]float64{"accept": 1}, nil
}

// emptyRegistry 构造空注册表。
func emptyRegistry(t *testing.T) *xcallback.Registry {
	t.Helper()
	reg, err := xcallback.NewRegistry()
	require.NoError(t, err)
	return reg
}

// stopRegistry 构造含 StopAfter(k) 的注册表。
func stopRegistry(t *testing.T, k int) *xcallback.Registry {
	t.Helper()
	stop, err := xcallback.StopAfter(k)
	require.NoError(t, err)
	reg, err := xcallback.NewRegistry(stop)
	require.NoError(t, err)
	return reg
}

func TestNewWorker(t *testing.T) {
	t.Run("negative chain id", func(t *testing.T) {
		_, err := NewWorker(-1)
		assert.ErrorIs(t, err, ErrInvalidChainID)
	})

	t.Run("valid", func(t *testing.T) {
		w, err := NewWorker(3)
		require.NoError(t, err)
		assert.Equal(t, 3, w.ChainID())
		assert.Equal(t, StateRunning, w.Signal().State())
	})
}

func TestWorker_Run_Completed(t *testing.T) {
	w, err := NewWorker(0)
	require.NoError(t, err)

	res := w.Run(context.Background(), 10, 50, &countingKernel{}, emptyRegistry(t))

	require.NoError(t, res.Err)
	assert.Equal(t, xdraw.ReasonCompleted, res.Reason)
	assert.Equal(t, 60, res.Produced)
	assert.Equal(t, 60, res.Trace.Len())
	assert.Equal(t, 50, res.Trace.NonTuningLen())
	assert.Equal(t, StateCompleted, w.Signal().State())

	// 无停止回调时：正式 draw 序号 0..N-1 连续，独立于调优计数
	nonTuning := 0
	for i := 0; i < res.Trace.Len(); i++ {
		rec := res.Trace.At(i)
		if i < 10 {
			assert.True(t, rec.IsTuning(), "draw %d should be tuning", i)
			assert.Equal(t, i, rec.DrawIndex())
		} else {
			assert.False(t, rec.IsTuning(), "draw %d should be sampling", i)
			assert.Equal(t, nonTuning, rec.DrawIndex())
			nonTuning++
		}
	}
}

func TestWorker_Run_StoppedEarly(t *testing.T) {
	// draws=500、停止条件 len >= 100 → 最终长度恰为 100
	w, err := NewWorker(0)
	require.NoError(t, err)

	res := w.Run(context.Background(), 0, 500, &countingKernel{}, stopRegistry(t, 100))

	require.NoError(t, res.Err)
	assert.Equal(t, xdraw.ReasonStoppedEarly, res.Reason)
	assert.Equal(t, 100, res.Trace.NonTuningLen(), "trace length must be exactly K, never K±1")
	assert.Equal(t, StateStopped, w.Signal().State())
}

func TestWorker_Run_StopOnFinalDrawCompletes(t *testing.T) {
	// 停止条件在最后一个 draw 上成立：没有 draw 被省掉，按正常完成处理
	w, err := NewWorker(0)
	require.NoError(t, err)

	res := w.Run(context.Background(), 0, 100, &countingKernel{}, stopRegistry(t, 100))

	require.NoError(t, res.Err)
	assert.Equal(t, xdraw.ReasonCompleted, res.Reason)
	assert.Equal(t, 100, res.Trace.NonTuningLen())
	assert.Equal(t, StateCompleted, w.Signal().State())
}

func TestWorker_Run_KernelFailure(t *testing.T) {
	boom := errors.New("leapfrog diverged")
	kernel := &countingKernel{fail: map[int]error{30: boom}}
	w, err := NewWorker(2)
	require.NoError(t, err)

	res := w.Run(context.Background(), 0, 100, kernel, emptyRegistry(t))

	assert.Equal(t, xdraw.ReasonFailed, res.Reason)
	assert.Equal(t, StateFailed, w.Signal().State())
	assert.Equal(t, 30, res.Trace.Len(), "draws before the failure are preserved")

	var kerr *KernelError
	require.ErrorAs(t, res.Err, &kerr)
	assert.Equal(t, 2, kerr.ChainID)
	assert.ErrorIs(t, res.Err, boom)
}

func TestWorker_Run_CallbackFailure(t *testing.T) {
	boom := errors.New("rhat shape mismatch")
	failAt50 := xcallback.Func(func(_ context.Context, view xdraw.TraceView, _ xdraw.DrawRecord) (xcallback.Action, error) {
		if view.Len() >= 50 {
			return xcallback.ActionContinue, boom
		}
		return xcallback.ActionContinue, nil
	})
	reg, err := xcallback.NewRegistry(failAt50)
	require.NoError(t, err)

	w, err := NewWorker(1)
	require.NoError(t, err)
	res := w.Run(context.Background(), 0, 500, &countingKernel{}, reg)

	assert.Equal(t, xdraw.ReasonFailed, res.Reason)
	assert.Equal(t, 50, res.Trace.Len(), "trace frozen at the failing draw")

	var cerr *CallbackError
	require.ErrorAs(t, res.Err, &cerr)
	assert.Equal(t, 1, cerr.ChainID)
	assert.Equal(t, 49, cerr.DrawIndex)
	assert.ErrorIs(t, res.Err, boom)
}

func TestWorker_Run_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancelAt := xcallback.Func(func(_ context.Context, view xdraw.TraceView, _ xdraw.DrawRecord) (xcallback.Action, error) {
		if view.Len() >= 10 {
			cancel() // 模拟编排器在边界间传播取消
		}
		return xcallback.ActionContinue, nil
	})
	reg, err := xcallback.NewRegistry(cancelAt)
	require.NoError(t, err)

	w, err := NewWorker(0)
	require.NoError(t, err)
	res := w.Run(ctx, 0, 500, &countingKernel{}, reg)

	require.NoError(t, res.Err)
	assert.Equal(t, xdraw.ReasonStoppedEarly, res.Reason)
	assert.Equal(t, 10, res.Trace.Len(), "cancellation honored at the next draw boundary")
	assert.Equal(t, StateStopped, w.Signal().State())
}

func TestWorker_Run_ExternalStopRequest(t *testing.T) {
	w, err := NewWorker(0)
	require.NoError(t, err)

	// 编排器在链启动前就请求了停止
	w.Signal().RequestStop()
	res := w.Run(context.Background(), 0, 100, &countingKernel{}, emptyRegistry(t))

	require.NoError(t, res.Err)
	assert.Equal(t, xdraw.ReasonStoppedEarly, res.Reason)
	assert.Zero(t, res.Trace.Len())
}

func TestWorker_Run_InvalidInputs(t *testing.T) {
	t.Run("negative draws", func(t *testing.T) {
		w, err := NewWorker(0)
		require.NoError(t, err)
		res := w.Run(context.Background(), -1, 10, &countingKernel{}, emptyRegistry(t))
		assert.Equal(t, xdraw.ReasonFailed, res.Reason)
		assert.ErrorIs(t, res.Err, ErrNegativeDraws)
	})

	t.Run("nil kernel", func(t *testing.T) {
		w, err := NewWorker(0)
		require.NoError(t, err)
		res := w.Run(context.Background(), 0, 10, nil, emptyRegistry(t))
		assert.Equal(t, xdraw.ReasonFailed, res.Reason)
		assert.ErrorIs(t, res.Err, ErrNilKernel)
	})

	t.Run("worker reuse", func(t *testing.T) {
		w, err := NewWorker(0)
		require.NoError(t, err)
		_ = w.Run(context.Background(), 0, 1, &countingKernel{}, emptyRegistry(t))
		res := w.Run(context.Background(), 0, 1, &countingKernel{}, emptyRegistry(t))
		assert.Equal(t, xdraw.ReasonFailed, res.Reason)
		assert.ErrorIs(t, res.Err, ErrWorkerReused)
	})

	t.Run("zero draws completes immediately", func(t *testing.T) {
		w, err := NewWorker(0)
		require.NoError(t, err)
		res := w.Run(context.Background(), 0, 0, &countingKernel{}, emptyRegistry(t))
		require.NoError(t, res.Err)
		assert.Equal(t, xdraw.ReasonCompleted, res.Reason)
		assert.Zero(t, res.Trace.Len())
	})
}

func TestWorker_Run_DiscardTuning(t *testing.T) {
	seen := 0
	counter := xcallback.Func(func(context.Context, xdraw.TraceView, xdraw.DrawRecord) (xcallback.Action, error) {
		seen++
		return xcallback.ActionContinue, nil
	})
	reg, err := xcallback.NewRegistry(counter)
	require.NoError(t, err)

	w, err := NewWorker(0, WithDiscardTuning())
	require.NoError(t, err)
	res := w.Run(context.Background(), 5, 10, &countingKernel{}, reg)

	require.NoError(t, res.Err)
	assert.Equal(t, 10, res.Trace.Len(), "tuning records discarded from trace")
	assert.Equal(t, 10, res.Trace.NonTuningLen())
	assert.Equal(t, 15, res.Produced)
	assert.Equal(t, 15, seen, "callbacks still see every produced draw")
}

// stubRecorder 收集观测事件。
type stubRecorder struct {
	mu           sync.Mutex
	draws        int
	callbacks    int
	terminations []xdraw.TerminationReason
}

func (r *stubRecorder) RecordDraw(context.Context, xdraw.DrawRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws++
}

func (r *stubRecorder) RecordCallback(_ context.Context, _ int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks++
}

func (r *stubRecorder) RecordTermination(_ context.Context, _ int, reason xdraw.TerminationReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terminations = append(r.terminations, reason)
}

func TestWorker_Run_Recorder(t *testing.T) {
	rec := &stubRecorder{}
	w, err := NewWorker(0, WithRecorder(rec))
	require.NoError(t, err)

	res := w.Run(context.Background(), 2, 8, &countingKernel{}, emptyRegistry(t))

	require.NoError(t, res.Err)
	assert.Equal(t, 10, rec.draws)
	assert.Equal(t, 10, rec.callbacks)
	assert.Equal(t, []xdraw.TerminationReason{xdraw.ReasonCompleted}, rec.terminations)
}

func TestWorker_Run_Deterministic(t *testing.T) {
	// 确定性 kernel + 无停止回调 → 两次运行的序号序列与记录数一致
	run := func() []int {
		w, err := NewWorker(0)
		require.NoError(t, err)
		res := w.Run(context.Background(), 0, 20, &countingKernel{}, emptyRegistry(t))
		require.NoError(t, res.Err)
		indexes := make([]int, res.Trace.Len())
		for i := range indexes {
			indexes[i] = res.Trace.At(i).DrawIndex()
		}
		return indexes
	}
	assert.Equal(t, run(), run())
}
