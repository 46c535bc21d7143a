package main

import (
	"fmt"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"jobsdone/internal/job"
	"jobsdone/internal/jobfile"
)

// Output formats of the expand command.
const (
	formatYAML = "yaml"
	formatDump = "dump"
)

func (a *app) expandCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "expand [file]",
		Short: "Print the job specifications a document expands to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Filename
			if len(args) > 0 {
				path = args[0]
			}

			repo, err := a.repository(cmd.Context(), filepath.Dir(path))
			if err != nil {
				return err
			}

			doc, err := jobfile.LoadFile(path)
			if err != nil {
				return err
			}

			specs, err := job.NewExpander(job.Config{Workers: a.cfg.Workers}, a.logger).Expand(doc, repo)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out := cmd.OutOrStdout()

			switch format {
			case formatYAML:
				values := make([]jobfile.Value, len(specs))
				for i := range specs {
					values[i] = specs[i].Value()
				}

				data, err := jobfile.Marshal(jobfile.List(values...))
				if err != nil {
					return fmt.Errorf("failed to marshal specs: %w", err)
				}

				_, err = out.Write(data)

				return err
			case formatDump:
				spew.Fdump(out, specs)
				return nil
			default:
				return fmt.Errorf("unknown format %q (valid: %s, %s)", format, formatYAML, formatDump)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "output format (yaml, dump)")

	return cmd
}
