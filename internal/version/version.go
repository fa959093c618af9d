// Package version 保存构建信息，由链接器 (-ldflags -X) 注入。
package version

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"
)

// AppRawName 程序名，也用于配置文件默认路径 (.civars.yaml)。
const AppRawName = "civars"

// 构建时通过 -X 注入。
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildDate  = "unknown"
)

// GetVersion 返回用于 --version 的版本字符串。
func GetVersion() string {
	if CommitHash == "unknown" || CommitHash == "" {
		return Version
	}

	return Version + " (" + CommitHash + ")"
}

// Command version 子命令。
var Command = NewCommand()

// NewCommand 创建 version 子命令，命令实例不能挂在多个父命令下。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "显示版本信息",
		Action: func(_ context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			_, err := fmt.Fprintf(w, "%s %s\nCommit: %s\nBuilt: %s\nGo: %s\n",
				AppRawName, Version, CommitHash, BuildDate, runtime.Version())

			return err
		},
	}
}
