package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-civars/internal/command/defaults"
	"github.com/lwmacct/251207-go-pkg-civars/internal/command/expand"
	"github.com/lwmacct/251207-go-pkg-civars/internal/command/export"
	"github.com/lwmacct/251207-go-pkg-civars/internal/command/resolve"
	"github.com/lwmacct/251207-go-pkg-civars/internal/command/template"
	"github.com/lwmacct/251207-go-pkg-civars/internal/version"
)

func main() {
	app := &cli.Command{
		Name:    version.AppRawName,
		Usage:   "CI 作业变量解析工具",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			version.Command,
			defaults.Command,
			expand.Command,
			export.Command,
			resolve.Command,
			template.Command,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
