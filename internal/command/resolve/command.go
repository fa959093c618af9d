// Package resolve 执行完整流程：模板默认值 → 运行时覆盖 → 引用展开 → export 输出。
package resolve

import (
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-civars/internal/command"
	"github.com/lwmacct/251207-go-pkg-civars/internal/version"
)

// Command resolve 命令。
var Command = NewCommand()

// NewCommand 创建 resolve 命令。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:     "resolve",
		Usage:    "解析作业变量并输出 export 语句",
		Action:   action,
		Commands: []*cli.Command{version.NewCommand()},
		Flags: slices.Concat(
			command.BaseFlags(),
			command.TemplateFlags(),
			command.ExpandFlags(),
			command.ExportFlags(),
		),
	}
}
