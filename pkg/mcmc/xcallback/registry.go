package xcallback

import (
	"context"

	"github.com/omeyang/mckit/pkg/mcmc/xdraw"
)

// Registry 持有采样期间只读的有序回调列表。
//
// Registry 在采样开始前构造一次，之后列表不再变化；
// 多条链以只读方式共享同一个 Registry。
type Registry struct {
	callbacks []Callback
}

// NewRegistry 创建回调注册表。
// 任一回调为 nil 时返回 ErrNilCallback。零个回调是合法的（空注册表）。
func NewRegistry(callbacks ...Callback) (*Registry, error) {
	for _, cb := range callbacks {
		if cb == nil {
			return nil, ErrNilCallback
		}
	}
	// 拷贝入参切片，防止调用方后续修改导致注册表漂移
	return &Registry{callbacks: append([]Callback(nil), callbacks...)}, nil
}

// Len 返回注册的回调数量。
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.callbacks)
}

// Notify 按注册顺序调用全部回调。
//
// 任一回调返回 ActionStop 时，最终结果为 ActionStop，但同一 draw 上的
// 后续回调仍会被调用——所有回调看到所有 draw，保证各自内部计数一致。
// 任一回调返回错误时立即短路，后续回调不再调用，错误原样返回。
//
// nil Registry 等价于空注册表，直接返回 ActionContinue。
func (r *Registry) Notify(ctx context.Context, view xdraw.TraceView, rec xdraw.DrawRecord) (Action, error) {
	if r == nil || len(r.callbacks) == 0 {
		return ActionContinue, nil
	}
	if ctx == nil {
		return ActionContinue, ErrNilContext
	}
	if view == nil {
		return ActionContinue, ErrNilView
	}

	result := ActionContinue
	for _, cb := range r.callbacks {
		action, err := cb.OnDraw(ctx, view, rec)
		if err != nil {
			return ActionContinue, err
		}
		if action == ActionStop {
			result = ActionStop
		}
	}
	return result, nil
}
