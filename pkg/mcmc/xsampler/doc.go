// Package xsampler 实现多链采样编排器。
//
// Sampler 拥有一组链（每链一个 xchain.Worker），按配置的调度模式运行，
// 并把各链的终态结果合并为跨链 MergedTrace。
//
// # 调度模式
//
//   - sequential: 单控制流，链逐条跑完；回调在同一线程内同步执行，
//     可以无锁维护跨链状态（任意时刻只有一条链活跃）
//   - parallel: 每条链是独立调度的 goroutine，受 max_parallel 并发上限
//     约束；回调可能被多条链并发调用，有状态回调必须自行同步
//
// # 取消传播
//
// 任一链以 StoppedEarly 或 Failed 终止时，编排器向所有仍在运行的链
// 传播停止请求（信号置位 + context 取消），兄弟链在各自的下一个 draw
// 边界退出。传播存在滞后：兄弟链在取消生效前可能再产出若干 draw，
// 这是协议属性，如实记录而非消除。
//
// # 结果与错误
//
// 早停是成功结果：调用方拿到截至停止点累积的 trace，不是错误。
// 任一链失败（KernelError/CallbackError）时 Sample 返回错误（多条失败
// 以 errors.Join 聚合）；合并结果仍随错误一起返回——trace 本身是完好的，
// 编排器绝不呈现被破坏或部分覆盖的合并视图。
//
// 默认任一链失败即中止全部链（崩溃 kernel 的部分结果不可信）；
// 可通过 WithKeepRunningOnFailure 让其余链继续跑完。
//
// # 每次调用的状态隔离
//
// Worker、停止信号与回调注册表都在 Sample 调用内部构造，
// 没有进程级可变状态；回调实例由调用方逐次传入，不要复用单例。
package xsampler
