// Package command 提供各子命令共享的 flags、配置加载与输出辅助。
package command

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-civars/internal/config"
	"github.com/lwmacct/251207-go-pkg-civars/internal/logging"
	"github.com/lwmacct/251207-go-pkg-civars/internal/pipeline"
	"github.com/lwmacct/251207-go-pkg-civars/internal/version"
	"github.com/lwmacct/251207-go-pkg-civars/pkg/cfgm"
	"github.com/lwmacct/251207-go-pkg-civars/pkg/shellexport"
)

// Defaults 为默认配置的单一来源。
var Defaults = config.DefaultConfig()

// ═══════════════════════════════════════════════════════════════════════════
// Flags
// ═══════════════════════════════════════════════════════════════════════════

// 每次调用都返回新的 flag 实例，flag 会保存解析状态，不能在命令之间共享。

// BaseFlags 配置文件与日志。
func BaseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "配置文件路径 (默认搜索 .civars.yaml 等)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: Defaults.Log.Level,
			Usage: "日志级别 (debug/info/warn/error)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Value: Defaults.Log.Format,
			Usage: "日志格式 (text/json)",
		},
	}
}

// TemplateFlags 作业类型与模板来源。
func TemplateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "job-type",
			Aliases: []string{"t"},
			Usage:   "作业类型 (JOB_TYPE)",
		},
		&cli.StringFlag{
			Name:  "template-url",
			Value: Defaults.Template.URL,
			Usage: "模板仓库地址",
		},
		&cli.StringFlag{
			Name:  "template-commit",
			Value: Defaults.Template.Commit,
			Usage: "模板仓库提交或分支",
		},
		&cli.StringFlag{
			Name:  "template-path",
			Value: Defaults.Template.Path,
			Usage: "模板在仓库中的路径",
		},
		&cli.BoolFlag{
			Name:  "template-local",
			Usage: "读取本地模板文件",
		},
		&cli.StringFlag{
			Name:  "template-local-path",
			Value: Defaults.Template.LocalPath,
			Usage: "本地模板文件路径",
		},
		&cli.DurationFlag{
			Name:  "template-timeout",
			Value: Defaults.Template.Timeout,
			Usage: "下载超时",
		},
	}
}

// ExpandFlags 引用展开。
func ExpandFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "expand-prefix",
			Value: Defaults.Expand.Prefix,
			Usage: "可被引用的变量名前缀",
		},
		&cli.IntFlag{
			Name:  "expand-max-passes",
			Value: Defaults.Expand.MaxPasses,
			Usage: "最大展开轮数",
		},
		&cli.StringFlag{
			Name:  "expand-command-var",
			Value: Defaults.Expand.CommandVar,
			Usage: "换行替换为 ' ; ' 的命令变量，空值关闭",
		},
		&cli.BoolFlag{
			Name:  "expand-topological",
			Usage: "按依赖拓扑顺序展开",
		},
	}
}

// EnvFileFlag 额外的 .env 文件。
func EnvFileFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "export-env-files",
		Aliases: []string{"env-file"},
		Usage:   "额外读取的 .env 文件，进程环境优先",
	}
}

// ExportFlags 拒绝列表与 .env 文件。
func ExportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "export-shell-vars",
			Value: Defaults.Export.ShellVars,
			Usage: "不导出的 shell 变量",
		},
		&cli.StringSliceFlag{
			Name:  "export-sensitive-keywords",
			Value: Defaults.Export.SensitiveKeywords,
			Usage: "视为凭据的变量名关键字",
		},
		EnvFileFlag(),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 配置与输出
// ═══════════════════════════════════════════════════════════════════════════

// LoadConfig 加载配置并初始化日志：默认值 → 配置文件 → 环境变量 → CLI flags。
//
// 显式指定的 --config 文件必须存在。日志写到 ErrWriter，stdout 只输出 shell 语句。
func LoadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}

	cfg, err := cfgm.LoadCmd(cmd, config.DefaultConfig(), version.AppRawName,
		cfgm.WithConfigPaths(path),
		cfgm.WithEnvPrefix(config.EnvPrefix),
		cfgm.WithEnvBindings(config.EnvBindings),
	)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if _, err := logging.Setup(cfg.Log.Level, cfg.Log.Format, errWriter(cmd)); err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	return cfg, nil
}

// NewRunner 基于当前进程环境创建 [pipeline.Runner]。
func NewRunner(cfg *config.Config) *pipeline.Runner {
	return &pipeline.Runner{Config: cfg, Environ: os.Environ()}
}

// ExportWriter 按配置创建带拒绝列表的 Writer。
func ExportWriter(cfg *config.Config, opts ...shellexport.Option) *shellexport.Writer {
	base := []shellexport.Option{
		shellexport.WithShellVars(cfg.Export.ShellVars...),
		shellexport.WithSensitiveKeywords(cfg.Export.SensitiveKeywords...),
	}

	return shellexport.New(append(base, opts...)...)
}

// WriteExports 先写入缓冲区，成功后再一次性输出，失败时 stdout 没有任何内容。
func WriteExports(cmd *cli.Command, w *shellexport.Writer, vars map[string]string) error {
	var buf bytes.Buffer
	if err := w.Write(&buf, vars); err != nil {
		return err
	}

	_, err := io.Copy(Stdout(cmd), &buf)

	return err
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}

// Stdout 返回根命令的 Writer，未设置时为 os.Stdout。
func Stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}
