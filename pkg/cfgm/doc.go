// Package cfgm 提供通用的配置加载功能。
//
// 支持 YAML/JSON，按默认值、配置文件、环境变量与 CLI flags 逐层覆盖。
// 配置 key 使用 json tag 统一描述，YAML 与 JSON 共享同一套 key。
//
// # 加载优先级 (从低到高)
//
//  1. 默认值 - 通过 defaultConfig 参数传入
//  2. 配置文件 - 通过 [WithConfigPaths] 或 [WithAppName] 设置
//  3. 环境变量 - [WithEnvPrefix] 自动生成绑定，[WithEnvBindings] 绑定固定名字
//  4. CLI flags - 通过 [WithCommand] 选项设置，最高优先级
//
// # 快速开始
//
// 定义配置结构体（json + desc 标签）：
//
//	type Config struct {
//	    JobType string        `json:"job-type" desc:"作业类型"`
//	    Timeout time.Duration `json:"timeout"  desc:"超时时间"`
//	}
//
// 推荐使用 LoadCmd：
//
//	cfg, err := cfgm.LoadCmd(cmd, DefaultConfig(), "civars",
//	    cfgm.WithEnvPrefix("CIVARS_"),
//	    cfgm.WithEnvBindings(map[string]string{"JOB_TYPE": "job-type"}),
//	)
//
// # 配置文件路径
//
// [WithAppName] 会生成默认搜索路径（见 [DefaultPaths]）：
//   - .civars.yaml (当前目录)
//   - ~/.civars.yaml (用户主目录)
//   - /etc/civars/config.yaml (系统配置)
//   - config.yaml, config/config.yaml (通用路径)
//
// 以 .json 结尾的文件按 JSON 解析，允许注释与尾逗号。
//
// # 环境变量
//
// 前缀绑定规则：前缀 + 大写的配置 key，点号 (.) 和连字符 (-) 转为下划线 (_)。
//   - CIVARS_JOB_TYPE → job-type
//   - CIVARS_TEMPLATE_URL → template.url
//
// 空值视为未设置。布尔值接受 true/false、1/0、yes/no、on/off。
// 列表值以逗号分隔。
//
// # CLI Flag 映射
//
// 仅替换 "." 为 "-"（见 [FlagName]）：
//   - template.url → --template-url
//   - expand.max-passes → --expand-max-passes
//
// 只有用户显式设置的 flag 才会覆盖配置，flag 的默认值不参与合并。
package cfgm
