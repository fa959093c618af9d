// Package export 把当前环境输出为可重新加载的 export 语句。
package export

import (
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-civars/internal/command"
)

// Command export 命令。
var Command = NewCommand()

// NewCommand 创建 export 命令。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "输出当前环境 (跳过 shell 变量与凭据)",
		Description: "值仅在需要时加引号。命中拒绝列表的变量输出为注释：\n" +
			"  # HOME not stored (shell variable)",
		Action: action,
		Flags:  slices.Concat(command.BaseFlags(), command.ExportFlags()),
	}
}
