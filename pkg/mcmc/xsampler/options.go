package xsampler

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// Option 配置 Sampler 的选项函数。
type Option func(*samplerOptions)

type samplerOptions struct {
	logger         *slog.Logger
	meterProvider  metric.MeterProvider
	abortOnFailure bool
}

func defaultOptions() *samplerOptions {
	return &samplerOptions{
		logger:         slog.Default(),
		abortOnFailure: true,
	}
}

// WithLogger 设置日志记录器。
//
// 用于记录采样启动、链终止、取消传播等事件。默认使用 slog.Default()。
func WithLogger(logger *slog.Logger) Option {
	return func(o *samplerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMeterProvider 设置 OpenTelemetry MeterProvider，启用指标采集。
// 默认不采集。传入 nil 会被静默忽略。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(o *samplerOptions) {
		if provider != nil {
			o.meterProvider = provider
		}
	}
}

// WithKeepRunningOnFailure 某条链失败后不中止其余链。
//
// 默认任一链失败即向全部链传播取消（崩溃 kernel 的部分结果不可信）。
// 开启后其余链继续跑到各自的终态，失败仍会在 Sample 的返回错误中上报。
// 回调请求的早停不受此选项影响，始终传播到全部链。
func WithKeepRunningOnFailure() Option {
	return func(o *samplerOptions) {
		o.abortOnFailure = false
	}
}
