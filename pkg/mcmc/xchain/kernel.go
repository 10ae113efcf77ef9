package xchain

import "context"

// Kernel 是转移核能力（外部协作方）。
//
// Step 产出下一个采样点的参数值与诊断统计量（如散度标记、接受概率）。
// tuning 标记本次请求是否处于调优（warm-up）阶段，转移核可据此做参数自适应。
//
// Step 被假定为可失败的：返回的错误被视为链的致命错误（KernelError），
// 原样上浮，不做重试——瞬态故障的重试属于转移核自身的职责。
//
// 实现无需并发安全：一个 Kernel 实例只被一条链串行调用。
type Kernel interface {
	Step(ctx context.Context, tuning bool) (values map[string][]float64, stats map[string]float64, err error)
}

// KernelFunc 将函数适配为 Kernel 接口。
type KernelFunc func(ctx context.Context, tuning bool) (map[string][]float64, map[string]float64, error)

// Step 实现 Kernel 接口。
func (f KernelFunc) Step(ctx context.Context, tuning bool) (map[string][]float64, map[string]float64, error) {
	return f(ctx, tuning)
}
