package xsampler

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/mckit/pkg/mcmc/xchain"
	"github.com/omeyang/mckit/pkg/mcmc/xdraw"
)

// 指标名称常量
const (
	// metricNameDrawsTotal 产出 draw 总数计数器
	metricNameDrawsTotal = "mckit.draws.total"
	// metricNameChainsTotal 链终止计数器（按终止原因区分）
	metricNameChainsTotal = "mckit.chains.total"
	// metricNameCallbackDuration 回调通知耗时直方图
	metricNameCallbackDuration = "mckit.callback.duration"
)

// Metrics 采样指标收集器，实现 xchain.Recorder。
// 所有方法 nil 安全：nil *Metrics 不收集任何指标。
type Metrics struct {
	drawsTotal       metric.Int64Counter
	chainsTotal      metric.Int64Counter
	callbackDuration metric.Float64Histogram
}

// NewMetrics 创建指标收集器。
// meterProvider 为 nil 时返回 (nil, nil)，表示不收集指标。
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		return nil, nil
	}

	meter := meterProvider.Meter("mckit",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	drawsTotal, err := meter.Int64Counter(
		metricNameDrawsTotal,
		metric.WithDescription("产出的 draw 总数"),
		metric.WithUnit("{draw}"),
	)
	if err != nil {
		return nil, err
	}

	chainsTotal, err := meter.Int64Counter(
		metricNameChainsTotal,
		metric.WithDescription("到达终态的链数（按终止原因区分）"),
		metric.WithUnit("{chain}"),
	)
	if err != nil {
		return nil, err
	}

	callbackDuration, err := meter.Float64Histogram(
		metricNameCallbackDuration,
		metric.WithDescription("单次 draw 的回调通知耗时"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0,
		),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		drawsTotal:       drawsTotal,
		chainsTotal:      chainsTotal,
		callbackDuration: callbackDuration,
	}, nil
}

// RecordDraw 实现 xchain.Recorder。
func (m *Metrics) RecordDraw(ctx context.Context, rec xdraw.DrawRecord) {
	if m == nil {
		return
	}
	m.drawsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("chain_id", rec.ChainID()),
		attribute.Bool("tuning", rec.IsTuning()),
	))
}

// RecordCallback 实现 xchain.Recorder。
func (m *Metrics) RecordCallback(ctx context.Context, chainID int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.callbackDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.Int("chain_id", chainID),
	))
}

// RecordTermination 实现 xchain.Recorder。
func (m *Metrics) RecordTermination(ctx context.Context, chainID int, reason xdraw.TerminationReason) {
	if m == nil {
		return
	}
	m.chainsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("chain_id", chainID),
		attribute.String("reason", reason.String()),
	))
}

// 编译时接口检查
var _ xchain.Recorder = (*Metrics)(nil)
