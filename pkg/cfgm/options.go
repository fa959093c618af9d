package cfgm

import (
	"maps"
	"os"

	"github.com/urfave/cli/v3"
)

// options 配置加载选项。
type options struct {
	appName     string // 应用名称，用于生成默认配置路径
	cmd         *cli.Command
	configPaths []string
	envPrefix   string
	envBindings map[string]string // 环境变量名 → 配置 key
	lookupEnv   func(string) (string, bool)
}

// Option 配置加载选项函数。
type Option func(*options)

// WithCommand 绑定 CLI 命令，读取显式设置的 flags 以覆盖配置（最高优先级）。
func WithCommand(cmd *cli.Command) Option {
	return func(o *options) {
		o.cmd = cmd
	}
}

// WithAppName 设置应用名称，用于生成默认搜索路径（见 [DefaultPaths]）。
func WithAppName(name string) Option {
	return func(o *options) {
		o.appName = name
	}
}

// WithConfigPaths 设置配置文件搜索路径。
//
// 按顺序查找，命中首个文件即停止。空字符串会被忽略。
func WithConfigPaths(paths ...string) Option {
	return func(o *options) {
		for _, p := range paths {
			if p != "" {
				o.configPaths = append(o.configPaths, p)
			}
		}
	}
}

// WithEnvPrefix 启用环境变量前缀解析。
//
// 环境变量命名规则：
//   - 前缀 + 大写的配置 key
//   - 点号 (.) 和连字符 (-) 转为下划线 (_)
//
// 示例 (前缀为 "CIVARS_")：
//   - CIVARS_JOB_TYPE → job-type
//   - CIVARS_EXPAND_MAX_PASSES → expand.max-passes
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithEnvBindings 绑定固定名字的环境变量到配置 key，优先于前缀绑定。
//
// 示例：
//
//	cfgm.WithEnvBindings(map[string]string{
//	    "JOB_TYPE":                 "job-type",
//	    "CI_TRON_JOB_TEMPLATE_URL": "template.url",
//	})
func WithEnvBindings(bindings map[string]string) Option {
	return func(o *options) {
		if o.envBindings == nil {
			o.envBindings = make(map[string]string, len(bindings))
		}
		maps.Copy(o.envBindings, bindings)
	}
}

// WithLookupEnv 替换环境变量查询函数，默认 os.LookupEnv。
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		o.lookupEnv = lookup
	}
}

func defaultOptions() *options {
	return &options{lookupEnv: os.LookupEnv}
}
