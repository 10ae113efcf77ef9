// Package mcmc 提供 MCMC 迭代采样控制相关的子包。
//
// 子包列表：
//   - xdraw: 采样数据模型，DrawRecord、ChainTrace、MergedTrace
//   - xcallback: 逐 draw 回调协议，内置停止条件与收敛监视器
//   - xchain: 单链采样循环，Kernel 接口与协作式停止信号
//   - xsampler: 多链编排器，顺序/并行调度、取消传播与结果合并
//
// 设计原则：
//   - 停止信号是显式的返回值（Continue/Stop），不借用异常或 panic 传递控制流
//   - 取消是协作式的，只在 draw 边界生效，不打断进行中的 kernel 步骤
//   - 已完成的 draw 永不丢弃，早停是成功结果而非错误
package mcmc
