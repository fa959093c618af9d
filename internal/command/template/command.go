// Package template 查看作业模板：列出作业及其 extends，或输出单个作业解析后的变量。
package template

import (
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-civars/internal/command"
)

// Command template 命令。
var Command = NewCommand()

// NewCommand 创建 template 命令。
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "查看作业模板",
		Flags: slices.Concat(
			command.BaseFlags(),
			command.TemplateFlags(),
			[]cli.Flag{
				&cli.StringFlag{
					Name:    "job",
					Aliases: []string{"j"},
					Usage:   "输出该作业解析 extends 后的全部变量",
				},
			},
		),
		Action: action,
	}
}
