// Package expand 展开环境中互相引用的前缀变量。
package expand

import (
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-civars/internal/command"
)

// Command expand 命令。
var Command = NewCommand()

// NewCommand 创建 expand 命令。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:   "expand",
		Usage:  "展开 ${CI_TRON_X} / $CI_TRON_X 引用并输出 export 语句",
		Action: action,
		Flags: slices.Concat(
			command.BaseFlags(),
			command.ExpandFlags(),
			[]cli.Flag{command.EnvFileFlag()},
		),
	}
}
