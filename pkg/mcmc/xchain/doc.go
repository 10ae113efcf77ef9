// Package xchain 实现单链采样循环与协作式停止协议。
//
// # 核心接口
//
// Kernel 是外部协作方：转移核按请求产出下一个采样点的参数值与统计量。
// 本包不实现任何具体的 MCMC 转移核（NUTS/HMC 等），只消费该能力。
//
// Worker 驱动一条链：每次迭代先做 draw 边界检查（context 取消、停止信号），
// 再请求 kernel 产出、追加到链的 trace、按注册顺序通知回调。
// 回调请求停止时，Worker 在下一个边界退出循环——进行中的 kernel 步骤
// 不会被打断，已追加的 draw 永不丢弃。
//
// # 停止信号状态机
//
// 每条链持有一个 Signal，状态转移：
//
//	Running → StopRequested → Stopped        回调请求早停
//	Running → Completed                      全部请求的 draw 产出完毕
//	Running/StopRequested → Failed           kernel 或回调出错
//
// RequestStop 只是请求：由拥有该链的 Worker 在边界处观察并执行，
// 停止的决定权始终在 Worker 自己的回调求值，编排器只持有信号引用
// 用于查询状态与传播取消。
//
// # 终止原因
//
// 三种原因互斥，退出时恰有一种成立：
//
//   - Completed: 请求的 tune+draws 全部产出（最后一个 draw 上的停止请求
//     不再有 draw 可省，按正常完成处理）
//   - StoppedEarly: 回调（或经 context 传播的编排器取消）请求早停
//   - Failed: kernel 错误（KernelError）或回调错误（CallbackError），
//     原样上浮，不吞没
//
// # 并发安全
//
// 一个 Worker 只驱动一条链、只能 Run 一次；trace 由 Worker 独占写入。
// Signal 的全部方法并发安全，可被编排器从其他 goroutine 调用。
package xchain
