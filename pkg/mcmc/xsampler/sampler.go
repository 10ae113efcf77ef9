package xsampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/omeyang/mckit/pkg/mcmc/xcallback"
	"github.com/omeyang/mckit/pkg/mcmc/xchain"
	"github.com/omeyang/mckit/pkg/mcmc/xdraw"
	"github.com/omeyang/mckit/pkg/util/xseed"
)

// KernelFactory 按链构造转移核（外部协作方）。
//
// seed 是经 xseed.Derive 从基础种子派生的链种子，与调度顺序无关；
// 用它初始化随机源即可获得可复现的链。
type KernelFactory interface {
	NewKernel(chainID int, seed uint64) (xchain.Kernel, error)
}

// KernelFactoryFunc 将函数适配为 KernelFactory 接口。
type KernelFactoryFunc func(chainID int, seed uint64) (xchain.Kernel, error)

// NewKernel 实现 KernelFactory 接口。
func (f KernelFactoryFunc) NewKernel(chainID int, seed uint64) (xchain.Kernel, error) {
	return f(chainID, seed)
}

// Result 是一次采样调用的最终结果。
type Result struct {
	// RunID 本次调用的唯一标识，用于日志与指标关联。
	RunID string

	// Merged 跨链合并视图：每条链的终止原因、实际长度与完整 draw 序列。
	Merged *xdraw.MergedTrace

	// Elapsed 采样墙钟耗时。
	Elapsed time.Duration
}

// Sampler 是多链采样编排器。
//
// Sampler 本身无可变状态，可跨多次 Sample 调用复用；
// 每次调用内部构造全新的 Worker、停止信号与回调注册表。
type Sampler struct {
	cfg     Config
	opts    *samplerOptions
	metrics *Metrics
}

// New 创建编排器。配置无效时返回对应的哨兵错误。
func New(cfg Config, opts ...Option) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	metrics, err := NewMetrics(options.meterProvider)
	if err != nil {
		return nil, err
	}

	return &Sampler{cfg: cfg, opts: options, metrics: metrics}, nil
}

// Config 返回归一化后的配置副本。
func (s *Sampler) Config() Config {
	return s.cfg
}

// Sample 运行全部链并合并结果。
//
// callbacks 按注册顺序在每条链的每个 draw 后被同步调用；应为每次调用
// 构造新的回调实例（有状态回调的状态限定在单次采样内）。
//
// 返回语义：
//   - 全部链 Completed 或 StoppedEarly: (result, nil)——早停是成功结果
//   - 任一链 Failed: (result, error)。result 仍携带全部链的完好 trace，
//     error 包裹 ErrChainsFailed 与各链的具体失败原因
//   - 参数或配置问题（nil factory、kernel 初始化失败）: (nil, error)，
//     不产出任何 draw
func (s *Sampler) Sample(ctx context.Context, factory KernelFactory, callbacks ...xcallback.Callback) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if factory == nil {
		return nil, ErrNilFactory
	}

	registry, err := xcallback.NewRegistry(callbacks...)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()

	// kernel 与 worker 全部先于任何链启动构造完毕：初始化失败时快速返回，
	// 不会留下跑了一半的链
	kernels := make([]xchain.Kernel, s.cfg.Chains)
	workers := make([]*xchain.Worker, s.cfg.Chains)
	for i := 0; i < s.cfg.Chains; i++ {
		kernel, err := factory.NewKernel(i, xseed.Derive(s.cfg.Seed, i))
		if err != nil {
			return nil, fmt.Errorf("%w: chain %d: %w", ErrKernelInit, i, err)
		}
		if kernel == nil {
			return nil, fmt.Errorf("%w: chain %d: factory returned nil kernel", ErrKernelInit, i)
		}
		kernels[i] = kernel

		workerOpts := []xchain.Option{
			xchain.WithLogger(s.opts.logger),
			xchain.WithRecorder(s.metrics),
		}
		if s.cfg.DiscardTuning {
			workerOpts = append(workerOpts, xchain.WithDiscardTuning())
		}
		worker, err := xchain.NewWorker(i, workerOpts...)
		if err != nil {
			return nil, err
		}
		workers[i] = worker
	}

	s.opts.logger.Info("sampling started",
		slog.String("run_id", runID),
		slog.Int("chains", s.cfg.Chains),
		slog.Int("tune", s.cfg.Tune),
		slog.Int("draws", s.cfg.Draws),
		slog.String("mode", string(s.cfg.Mode)),
	)

	var results []xchain.Result
	if s.cfg.Mode == ModeParallel {
		results = s.runParallel(ctx, workers, kernels, registry)
	} else {
		results = s.runSequential(ctx, workers, kernels, registry)
	}

	entries := make([]xdraw.ChainEntry, 0, len(results))
	var failures []error
	for _, res := range results {
		entries = append(entries, res.Entry())
		if res.Reason == xdraw.ReasonFailed {
			failures = append(failures, res.Err)
		}
	}

	merged, err := xdraw.NewMergedTrace(entries)
	if err != nil {
		return nil, err
	}

	result := &Result{RunID: runID, Merged: merged, Elapsed: time.Since(start)}

	s.opts.logger.Info("sampling finished",
		slog.String("run_id", runID),
		slog.Duration("elapsed", result.Elapsed),
		slog.String("summary", merged.Summary()),
	)

	if len(failures) > 0 {
		return result, fmt.Errorf("%w: %w", ErrChainsFailed, errors.Join(failures...))
	}
	return result, nil
}

// shouldHalt 判断某条链的终态是否应触发对兄弟链的取消传播。
// 早停始终传播；失败仅在默认的 abort-all 策略下传播。
func (s *Sampler) shouldHalt(reason xdraw.TerminationReason) bool {
	if reason == xdraw.ReasonStoppedEarly {
		return true
	}
	return reason == xdraw.ReasonFailed && s.opts.abortOnFailure
}

// runSequential 单控制流逐链运行。
//
// 某条链触发取消传播后，其余链的信号在启动前被置位，
// 它们在第一个 draw 边界即以 StoppedEarly（零长度）退出——
// 与并行模式下"下一个安全检查点停下"的语义保持一致。
func (s *Sampler) runSequential(ctx context.Context, workers []*xchain.Worker, kernels []xchain.Kernel, registry *xcallback.Registry) []xchain.Result {
	results := make([]xchain.Result, len(workers))
	halted := false
	for i, w := range workers {
		if halted {
			w.Signal().RequestStop()
		}
		results[i] = w.Run(ctx, s.cfg.Tune, s.cfg.Draws, kernels[i], registry)
		if !halted && s.shouldHalt(results[i].Reason) {
			halted = true
			s.opts.logger.Debug("propagating cancellation to remaining chains",
				slog.Int("chain_id", i),
				slog.String("reason", results[i].Reason.String()),
			)
		}
	}
	return results
}

// runParallel 并发运行链，同时在跑的链数受 MaxParallel 约束。
//
// 取消传播走两条路：兄弟链的停止信号逐一置位（draw 边界可见），
// 同时取消共享 context（让阻塞在 kernel 内部或还没拿到信号量的链退出）。
// 兄弟链在传播生效前可能再产出若干 draw，这一滞后是协议属性。
func (s *Sampler) runParallel(ctx context.Context, workers []*xchain.Worker, kernels []xchain.Kernel, registry *xcallback.Registry) []xchain.Result {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(s.cfg.MaxParallel))
	results := make([]xchain.Result, len(workers))

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			if err := sem.Acquire(runCtx, 1); err == nil {
				defer sem.Release(1)
			}
			// Acquire 失败说明取消已传播：照常 Run，
			// 第一个边界检查即以 StoppedEarly（零长度）退出

			res := workers[i].Run(runCtx, s.cfg.Tune, s.cfg.Draws, kernels[i], registry)
			results[i] = res

			if s.shouldHalt(res.Reason) {
				s.opts.logger.Debug("propagating cancellation to sibling chains",
					slog.Int("chain_id", res.ChainID),
					slog.String("reason", res.Reason.String()),
				)
				for j, sibling := range workers {
					if j != i {
						sibling.Signal().RequestStop()
					}
				}
				cancel()
			}
			return nil
		})
	}
	// worker 从不向 errgroup 返回错误，失败都编码在 Result 里
	_ = g.Wait()

	return results
}
