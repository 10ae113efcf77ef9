package xchain

import (
	"context"
	"log/slog"
	"time"

	"github.com/omeyang/mckit/pkg/mcmc/xcallback"
	"github.com/omeyang/mckit/pkg/mcmc/xdraw"
)

// Result 是单链采样的终态结果。
type Result struct {
	// ChainID 链 ID。
	ChainID int

	// Trace 封存后的完整 trace 视图。早停与失败时同样携带
	// 截至终止已追加的全部 draw——已完成的 draw 永不丢弃。
	Trace xdraw.TraceView

	// Reason 终止原因，恰有一种成立。
	Reason xdraw.TerminationReason

	// Err Reason 为 ReasonFailed 时的具体错误（*KernelError 或
	// *CallbackError），否则为 nil。
	Err error

	// Produced kernel 实际产出的 draw 数（含调优，含被丢弃的调优记录）。
	Produced int
}

// Entry 将结果转换为合并视图的条目。
func (r Result) Entry() xdraw.ChainEntry {
	return xdraw.ChainEntry{
		ChainID: r.ChainID,
		Trace:   r.Trace,
		Reason:  r.Reason,
		Err:     r.Err,
	}
}

// Worker 驱动一条链的采样循环。
//
// Worker 独占拥有链的 trace 与停止信号；一个 Worker 只能 Run 一次。
type Worker struct {
	chainID int
	opts    *workerOptions
	trace   *xdraw.ChainTrace
	signal  *Signal
	ran     bool
}

// NewWorker 创建指定链的 Worker。
// chainID 为负时返回 ErrInvalidChainID。
func NewWorker(chainID int, opts ...Option) (*Worker, error) {
	if chainID < 0 {
		return nil, ErrInvalidChainID
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	return &Worker{
		chainID: chainID,
		opts:    options,
		trace:   xdraw.NewChainTrace(chainID),
		signal:  NewSignal(),
	}, nil
}

// ChainID 返回链 ID。
func (w *Worker) ChainID() int {
	return w.chainID
}

// Signal 返回链的停止信号。
//
// 编排器经由它查询链状态、向兄弟链传播取消（RequestStop）；
// 终态转移始终由 Worker 自己执行。
func (w *Worker) Signal() *Signal {
	return w.signal
}

// Run 执行链的采样循环：先产出 tune 条调优 draw，再产出 draws 条正式 draw。
//
// 每次迭代：(a) draw 边界检查——context 已取消或停止信号处于
// StopRequested 时，以 ReasonStoppedEarly 退出；(b) kernel 产出下一个
// 采样点；(c) 记录追加到 trace；(d) 按注册顺序通知回调，回调请求停止
// 时置位停止信号，在下一个边界生效。
//
// Run 总是返回携带终态的 Result，不丢弃任何已追加的 draw。
// 参数无效（负数 draw 数、nil kernel）或 Worker 重复使用时，
// Result.Reason 为 ReasonFailed 且 Err 为对应的哨兵错误。
func (w *Worker) Run(ctx context.Context, tune, draws int, kernel Kernel, callbacks *xcallback.Registry) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	if w.ran {
		return w.finish(ctx, 0, xdraw.ReasonFailed, ErrWorkerReused)
	}
	w.ran = true

	if tune < 0 || draws < 0 {
		return w.finish(ctx, 0, xdraw.ReasonFailed, ErrNegativeDraws)
	}
	if kernel == nil {
		return w.finish(ctx, 0, xdraw.ReasonFailed, ErrNilKernel)
	}

	w.opts.logger.Debug("chain starting",
		slog.Int("chain_id", w.chainID),
		slog.Int("tune", tune),
		slog.Int("draws", draws),
	)

	total := tune + draws
	produced := 0
	for produced < total {
		// draw 边界：协作式停止只在这里生效，不打断进行中的 kernel 步骤
		if ctx.Err() != nil || w.signal.State() == StateStopRequested {
			return w.finish(ctx, produced, xdraw.ReasonStoppedEarly, nil)
		}

		tuning := produced < tune
		drawIndex := produced
		if !tuning {
			drawIndex = produced - tune
		}

		values, stats, err := kernel.Step(ctx, tuning)
		if err != nil {
			return w.finish(ctx, produced, xdraw.ReasonFailed, &KernelError{ChainID: w.chainID, Err: err})
		}
		produced++

		rec := xdraw.NewDrawRecord(w.chainID, drawIndex, tuning, values, stats)
		if !tuning || !w.opts.discardTuning {
			if err := w.trace.Append(rec); err != nil {
				// trace 不变式被破坏属于编程错误，按链失败上浮
				return w.finish(ctx, produced, xdraw.ReasonFailed, err)
			}
		}
		if w.opts.recorder != nil {
			w.opts.recorder.RecordDraw(ctx, rec)
		}

		start := time.Now()
		action, err := callbacks.Notify(ctx, w.trace.View(), rec)
		if w.opts.recorder != nil {
			w.opts.recorder.RecordCallback(ctx, w.chainID, time.Since(start))
		}
		if err != nil {
			return w.finish(ctx, produced, xdraw.ReasonFailed, &CallbackError{ChainID: w.chainID, DrawIndex: drawIndex, Err: err})
		}
		if action == xcallback.ActionStop {
			w.signal.RequestStop()
		}
	}

	return w.finish(ctx, produced, xdraw.ReasonCompleted, nil)
}

// finish 封存 trace、落定信号终态并组装结果。
func (w *Worker) finish(ctx context.Context, produced int, reason xdraw.TerminationReason, err error) Result {
	w.trace.Finalize()

	switch reason {
	case xdraw.ReasonCompleted:
		w.signal.markCompleted()
	case xdraw.ReasonStoppedEarly:
		w.signal.markStopped()
	default:
		w.signal.markFailed()
	}

	if err != nil {
		w.opts.logger.Warn("chain failed",
			slog.Int("chain_id", w.chainID),
			slog.Int("produced", produced),
			slog.Any("error", err),
		)
	} else {
		w.opts.logger.Debug("chain finished",
			slog.Int("chain_id", w.chainID),
			slog.String("reason", reason.String()),
			slog.Int("produced", produced),
		)
	}

	if w.opts.recorder != nil {
		w.opts.recorder.RecordTermination(ctx, w.chainID, reason)
	}

	return Result{
		ChainID:  w.chainID,
		Trace:    w.trace.View(),
		Reason:   reason,
		Err:      err,
		Produced: produced,
	}
}
