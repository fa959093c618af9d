package export

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

	env, err := command.NewRunner(cfg).Environment()
	if err != nil {
		return err
	}

	w := command.ExportWriter(cfg, shellexport.WithQuoting(shellexport.QuoteMinimal))

	return command.WriteExports(cmd, w, env)
}
