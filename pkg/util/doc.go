// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xseed: 确定性随机种子派生，多链采样的可复现性基础
package util
