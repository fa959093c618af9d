// Package jobtmpl 解析 CI 作业模板文档，并沿 extends 继承图计算作业的默认变量。
//
// 模板文档是 "作业名 → 作业定义" 的映射，每个定义可以有：
//
//   - extends: 单个父作业名或有序列表
//   - variables: 变量名到标量值的映射，null 值被丢弃
//
// # 文档格式
//
// 按文件扩展名选择解析器（见 [Parse]）：
//   - .yaml / .yml / 其他 - YAML，支持锚点、别名与 "<<" 合并键
//   - .json / .jsonc - JSON，允许注释与尾随逗号
//   - .hcl - HCL，每个作业是一个 job 块
//
// YAML 示例：
//
//	.base:
//	  variables:
//	    CI_TRON_TIMEOUT: 60
//	.ci-tron-job-v1:
//	  extends: .base
//	  variables:
//	    CI_TRON_KERNEL: "${CI_TRON_KERNEL_URL}"
//
// HCL 示例（字符串中的 "${" 需写成 "$${"）：
//
//	job ".ci-tron-job-v1" {
//	  extends   = [".base"]
//	  variables = {
//	    CI_TRON_KERNEL = "$${CI_TRON_KERNEL_URL}"
//	  }
//	}
//
// # 继承语义
//
// 优先级：作业自身 > 第一个父作业 > 第二个父作业 > … > 更远的祖先。
// 父作业按声明的逆序合并且已有 key 不覆盖，因此先声明者优先。
// 未知作业与缺失的父作业贡献空集合；继承环中重复访问的作业贡献空集合。
// 同一次解析内每个作业只计算一次。
package jobtmpl
