package xcallback

import (
	"context"
	"time"

	"github.com/omeyang/mckit/pkg/mcmc/xdraw"
)

// StopAfter 返回在正式采样长度达到 k 时请求停止的回调。
//
// 停止条件基于视图的 NonTuningLen，调优 draw 不计入；条件在第 k 条
// 正式记录追加后立即成立，因此链的最终正式长度恰为 k。
// k < 1 时返回 ErrInvalidThreshold。
//
// 无内部状态，可安全地被多条链并发调用。
func StopAfter(k int) (Callback, error) {
	if k < 1 {
		return nil, ErrInvalidThreshold
	}
	return Func(func(_ context.Context, view xdraw.TraceView, _ xdraw.DrawRecord) (Action, error) {
		if view.NonTuningLen() >= k {
			return ActionStop, nil
		}
		return ActionContinue, nil
	}), nil
}

// Every 返回每 n 条记录转发一次给 cb 的包装回调。
//
// 周期基于视图长度（Len() % n == 0）而非内部计数器，因此包装器无状态，
// 多链共享时各链的周期互不干扰。未命中周期的 draw 返回 ActionContinue。
// n < 1 时返回 ErrInvalidInterval，cb 为 nil 时返回 ErrNilCallback。
func Every(n int, cb Callback) (Callback, error) {
	if n < 1 {
		return nil, ErrInvalidInterval
	}
	if cb == nil {
		return nil, ErrNilCallback
	}
	return Func(func(ctx context.Context, view xdraw.TraceView, rec xdraw.DrawRecord) (Action, error) {
		if view.Len()%n != 0 {
			return ActionContinue, nil
		}
		return cb.OnDraw(ctx, view, rec)
	}), nil
}

// SkipTuning 返回忽略调优 draw 的包装回调。
//
// 调优阶段的 draw 直接返回 ActionContinue，cb 完全感知不到它们；
// cb 的停止条件因此只在正式采样记录上求值。
// cb 为 nil 时返回 ErrNilCallback。
func SkipTuning(cb Callback) (Callback, error) {
	if cb == nil {
		return nil, ErrNilCallback
	}
	return Func(func(ctx context.Context, view xdraw.TraceView, rec xdraw.DrawRecord) (Action, error) {
		if rec.IsTuning() {
			return ActionContinue, nil
		}
		return cb.OnDraw(ctx, view, rec)
	}), nil
}

// Deadline 返回超过墙钟时限后请求停止的回调。
//
// 时限从构造时刻起算。停止是协作式的：时限到达后的下一个 draw 边界生效，
// 进行中的 kernel 步骤不会被打断。d <= 0 时返回 ErrInvalidDeadline。
func Deadline(d time.Duration) (Callback, error) {
	if d <= 0 {
		return nil, ErrInvalidDeadline
	}
	start := time.Now()
	return Func(func(_ context.Context, _ xdraw.TraceView, _ xdraw.DrawRecord) (Action, error) {
		if time.Since(start) >= d {
			return ActionStop, nil
		}
		return ActionContinue, nil
	}), nil
}
