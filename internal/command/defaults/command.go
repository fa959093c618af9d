// Package defaults 输出作业模板中运行时尚未定义的默认变量。
package defaults

import (
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-civars/internal/command"
)

// Command defaults 命令。
var Command = NewCommand()

// NewCommand 创建 defaults 命令。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "defaults",
		Usage: "输出模板作业中尚未设置的默认变量 (export 语句)",
		Description: "根据 JOB_TYPE 选择模板作业，解析 extends 继承链，\n" +
			"只输出命名空间前缀内且当前环境未定义的变量。",
		Action: action,
		Flags: slices.Concat(
			command.BaseFlags(),
			command.TemplateFlags(),
			[]cli.Flag{
				&cli.StringFlag{
					Name:  "expand-prefix",
					Value: command.Defaults.Expand.Prefix,
					Usage: "变量名前缀",
				},
				command.EnvFileFlag(),
			},
		),
	}
}
