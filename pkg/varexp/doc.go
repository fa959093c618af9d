// Package varexp 对同一命名空间内互相引用的变量做迭代展开。
//
// 变量值中可以出现对其他变量的引用，两种写法：
//
//   - ${CI_TRON_NAME} - 花括号形式
//   - $CI_TRON_NAME   - 裸形式，遇到第一个非变量名字符即结束
//
// 只有以命名空间前缀（默认 "CI_TRON_"）开头的名字才会被识别为引用，
// 其余 "$" 用法保持原样。未定义的引用展开为空字符串，不视为错误。
//
// # 展开过程
//
//  1. 每一轮只处理当前值中含有引用的变量
//  2. 默认按引用数量升序处理（引用少的先展开），名字作为次序
//  3. 每个被引用的名字先替换花括号形式，再替换裸形式
//  4. 一轮内没有任何变化即到达不动点，提前结束
//  5. 达到最大轮数仍有变化时停止并告警，返回部分展开的结果
//
// 自引用或循环引用不会被特别检测，只会退化为最大轮数截断。
//
// # 快速开始
//
//	vars := map[string]string{
//	    "CI_TRON_A": "${CI_TRON_B}",
//	    "CI_TRON_B": "done",
//	}
//	out := varexp.Expand(vars, varexp.DefaultMaxPasses)
//
// 需要轮数与收敛信息时使用 [Expander]：
//
//	res := varexp.New(varexp.WithOrder(varexp.OrderTopological)).Run(vars)
//	if !res.Converged { ... }
package varexp
