package resolve

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-civars/internal/command"
)

func action(ctx context.Context, cmd *cli.Command) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	res, err := command.NewRunner(cfg).Resolve(ctx)
	if err != nil {
		return err
	}

	return command.WriteExports(cmd, command.ExportWriter(cfg), res.Vars)
}
