package expand

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-civars/internal/command"
	"github.com/lwmacct/251207-go-pkg-civars/pkg/shellexport"
)

func action(_ context.Context, cmd *cli.Command) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	res, err := command.NewRunner(cfg).Expand()
	if err != nil {
		return err
	}

	return command.WriteExports(cmd, shellexport.New(shellexport.WithoutDenyList()), res.Vars)
}
