// Package config 提供应用配置管理。
//
// 配置加载优先级 (从低到高)：
//  1. 默认值 - DefaultConfig() 函数中定义
//  2. 配置文件 - 通过 WithAppName / WithConfigPaths 选项设置
//  3. 环境变量 - EnvBindings 中的固定名字，以及 EnvPrefix 前缀
//  4. CLI flags - 通过 WithCommand 选项设置
package config

import (
	"time"

	"github.com/lwmacct/251207-go-pkg-civars/pkg/shellexport"
	"github.com/lwmacct/251207-go-pkg-civars/pkg/varexp"
)

// EnvPrefix 通用环境变量前缀，如 CIVARS_LOG_LEVEL → log.level。
const EnvPrefix = "CIVARS_"

// EnvBindings CI 环境中约定的变量名到配置 key 的映射。
var EnvBindings = map[string]string{
	"JOB_TYPE":                    "job-type",
	"CI_TRON_JOB_TEMPLATE_URL":    "template.url",
	"CI_TRON_JOB_TEMPLATE_COMMIT": "template.commit",
	"CI_TRON_USE_LOCAL_DUT_YML":   "template.local",
}

// Config 应用配置。
type Config struct {
	JobType    string            `json:"job-type" desc:"作业类型 (JOB_TYPE)"`
	Template   TemplateConfig    `json:"template" desc:"作业模板来源"`
	Jobs       map[string]string `json:"jobs" desc:"作业类型到模板作业名的映射"`
	DefaultJob string            `json:"default-job" desc:"未映射作业类型使用的模板作业"`
	Expand     ExpandConfig      `json:"expand" desc:"变量展开"`
	Export     ExportConfig      `json:"export" desc:"export 语句输出"`
	Log        LogConfig         `json:"log" desc:"日志"`
}

// TemplateConfig 作业模板来源配置。
type TemplateConfig struct {
	URL       string        `json:"url" desc:"模板仓库地址 (CI_TRON_JOB_TEMPLATE_URL)"`
	Commit    string        `json:"commit" desc:"模板仓库提交或分支 (CI_TRON_JOB_TEMPLATE_COMMIT)"`
	Path      string        `json:"path" desc:"模板在仓库中的路径"`
	Local     bool          `json:"local" desc:"读取本地模板 (CI_TRON_USE_LOCAL_DUT_YML)"`
	LocalPath string        `json:"local-path" desc:"本地模板路径"`
	Timeout   time.Duration `json:"timeout" desc:"下载超时"`
}

// ExpandConfig 变量展开配置。
type ExpandConfig struct {
	Prefix      string `json:"prefix" desc:"可被引用的变量名前缀"`
	MaxPasses   int    `json:"max-passes" desc:"最大展开轮数"`
	CommandVar  string `json:"command-var" desc:"换行替换为 ' ; ' 的命令变量"`
	Topological bool   `json:"topological" desc:"按依赖拓扑顺序展开"`
}

// ExportConfig export 输出配置。
type ExportConfig struct {
	ShellVars         []string `json:"shell-vars" desc:"不导出的 shell 变量"`
	SensitiveKeywords []string `json:"sensitive-keywords" desc:"视为凭据的变量名关键字"`
	EnvFiles          []string `json:"env-files" desc:"额外读取的 .env 文件"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level  string `json:"level" desc:"日志级别 (debug/info/warn/error)"`
	Format string `json:"format" desc:"日志格式 (text/json)"`
}

// DefaultConfig 返回默认配置。
// 注意：internal/command/command.go 中的 Defaults 变量引用此函数以实现单一配置来源。
func DefaultConfig() Config {
	return Config{
		Template: TemplateConfig{
			URL:       "https://gitlab.freedesktop.org/gfx-ci/ci-tron",
			Commit:    "main",
			Path:      ".gitlab-ci/dut.yml",
			LocalPath: "dut.yml",
			Timeout:   30 * time.Second,
		},
		Jobs: map[string]string{
			"ci-tron-job":          ".ci-tron-job-v1",
			"ci-tron-b2c-job":      ".ci-tron-b2c-job-v1",
			"ci-tron-b2c-diskless": ".ci-tron-b2c-diskless-v1",
		},
		DefaultJob: ".ci-tron-b2c-job-v1",
		Expand: ExpandConfig{
			Prefix:     varexp.DefaultPrefix,
			MaxPasses:  varexp.DefaultMaxPasses,
			CommandVar: varexp.DefaultCommandVar,
		},
		Export: ExportConfig{
			ShellVars:         append([]string(nil), shellexport.DefaultShellVars...),
			SensitiveKeywords: append([]string(nil), shellexport.DefaultSensitiveKeywords...),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// JobName 返回作业类型对应的模板作业名，未映射时使用 DefaultJob。
func (c *Config) JobName() string {
	if name, ok := c.Jobs[c.JobType]; ok && name != "" {
		return name
	}

	return c.DefaultJob
}
