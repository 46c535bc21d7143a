package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jobsdone/internal/diagnostic"
	"jobsdone/internal/job"
	"jobsdone/internal/jobfile"
)

func (a *app) checkCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Validate jobs_done documents and report problems",
		Long: `Validates each document without generating anything. Errors make the
command fail; warnings point at options that can never apply, unused matrix
variables and similar mistakes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = []string{a.cfg.Filename}
			}

			var all diagnostic.Diagnostics
			for _, path := range paths {
				all.Merge(checkFile(path).ForDocument(path))
			}

			out := cmd.OutOrStdout()
			for _, d := range all.All() {
				if quiet && d.Severity == diagnostic.SeverityInfo {
					continue
				}

				fmt.Fprintf(out, "%s: %s\n", d.Severity, d)
			}

			if all.HasErrors() {
				return fmt.Errorf("%d error(s) found", len(all.Errors))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only report errors and warnings")

	return cmd
}

func checkFile(path string) diagnostic.Diagnostics {
	doc, err := jobfile.LoadFile(path)
	if err != nil {
		return job.Diagnose(err)
	}

	if doc == nil {
		var d diagnostic.Diagnostics
		d.AddError("missing_document", "file does not exist", "")

		return d
	}

	return job.Lint(doc)
}
