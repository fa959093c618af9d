package template

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lwmacct/251207-go-pkg-civars/internal/command"
	"github.com/lwmacct/251207-go-pkg-civars/pkg/jobtmpl"
	"github.com/lwmacct/251207-go-pkg-civars/pkg/shellexport"
)

func action(ctx context.Context, cmd *cli.Command) error {
	cfg, err := command.LoadConfig(cmd)
	if err != nil {
		return err
	}

	table, err := command.NewRunner(cfg).Template(ctx)
	if err != nil {
		return err
	}

	if job := cmd.String("job"); job != "" {
		if _, ok := table[job]; !ok {
			return fmt.Errorf("job %q not found in template", job)
		}
		vars := jobtmpl.Resolve(table, job)

		return command.WriteExports(cmd, shellexport.New(shellexport.WithoutDenyList()), vars)
	}

	var buf bytes.Buffer
	for _, name := range table.Names() {
		job := table[name]
		line := name
		if len(job.Extends) > 0 {
			line += "\textends: " + strings.Join(job.Extends, ", ")
		}
		fmt.Fprintf(&buf, "%s\t(%d variables)\n", line, len(job.Variables))
	}
	_, err = io.Copy(command.Stdout(cmd), &buf)

	return err
}
