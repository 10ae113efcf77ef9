package xchain

import (
	"context"
	"log/slog"
	"time"

	"github.com/omeyang/mckit/pkg/mcmc/xdraw"
)

// Recorder 接收采样过程的观测事件，供编排层做指标采集。
//
// 实现必须轻量且并发安全（并行模式下多条链同时上报）。
// nil Recorder 表示不采集。
type Recorder interface {
	// RecordDraw 每产出一条 draw 记录调用一次。
	RecordDraw(ctx context.Context, rec xdraw.DrawRecord)

	// RecordCallback 每轮回调通知结束后上报耗时。
	RecordCallback(ctx context.Context, chainID int, elapsed time.Duration)

	// RecordTermination 链到达终态时调用一次。
	RecordTermination(ctx context.Context, chainID int, reason xdraw.TerminationReason)
}

// Option 配置 Worker 的选项函数。
type Option func(*workerOptions)

type workerOptions struct {
	logger        *slog.Logger
	recorder      Recorder
	discardTuning bool
}

func defaultOptions() *workerOptions {
	return &workerOptions{
		logger: slog.Default(),
	}
}

// WithLogger 设置日志记录器。
//
// 用于记录链启动、终止等生命周期事件。默认使用 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(o *workerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRecorder 设置观测事件接收器。
// 默认不采集。传入 nil 会被静默忽略。
func WithRecorder(r Recorder) Option {
	return func(o *workerOptions) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithDiscardTuning 丢弃调优 draw：调优记录不追加到 trace。
//
// 回调仍会收到每一条产出的 draw（含被丢弃的调优 draw），
// 只是 trace 快照里看不到它们。默认保留调优记录（以 IsTuning 区分）。
func WithDiscardTuning() Option {
	return func(o *workerOptions) {
		o.discardTuning = true
	}
}
