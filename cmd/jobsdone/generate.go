package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobsdone/internal/gen"
	"jobsdone/internal/job"
	"jobsdone/internal/jobfile"
	"jobsdone/internal/repository"
)

func (a *app) generateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Generate CI jobs for the repository in dir",
		Long: `Loads dir/.jobs_done.yaml, expands it for the current repository and branch
and writes one job file per matrix row to the output directory.

Repository URL and branch are read from git unless --url/--branch are given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			if output == "" {
				output = a.cfg.OutputDir
			}

			return a.generate(cmd.Context(), dir, output, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default from configuration)")

	return cmd
}

// generate expands the document in dir and writes the rendered jobs to output.
func (a *app) generate(ctx context.Context, dir, output string, out io.Writer) error {
	repo, err := a.repository(ctx, dir)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, a.cfg.Filename)

	doc, err := jobfile.LoadFile(path)
	if err != nil {
		return err
	}

	specs, err := job.NewExpander(job.Config{Workers: a.cfg.Workers}, a.logger).Expand(doc, repo)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	factory, err := a.registry.Lookup(a.cfg.Generator)
	if err != nil {
		return err
	}

	artifacts, err := gen.GenerateAll(factory, specs)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if len(artifacts) == 0 {
		a.logger.Info("no jobs to generate", zap.String("document", path), zap.String("branch", repo.Branch))
		return nil
	}

	abs, err := filepath.Abs(output)
	if err != nil {
		return fmt.Errorf("resolving output directory: %w", err)
	}

	if err := gen.WriteArtifacts(osfs.New(abs), ".", artifacts); err != nil {
		return err
	}

	for _, artifact := range artifacts {
		fmt.Fprintln(out, filepath.Join(output, artifact.Filename))
	}

	a.logger.Info("jobs generated",
		zap.String("repository", repo.String()),
		zap.String("generator", a.cfg.Generator),
		zap.Int("jobs", len(artifacts)),
		zap.String("output", abs))

	return nil
}

// repository returns the repository described by the --url, --branch and
// --name flags, reading whatever is missing from the git working copy at dir.
func (a *app) repository(ctx context.Context, dir string) (repository.Repository, error) {
	var repo repository.Repository

	if a.url != "" {
		repo = repository.New(a.url, a.branch)
	} else {
		var err error

		repo, err = repository.FromGit(ctx, dir)
		if err != nil {
			return repository.Repository{}, fmt.Errorf("%w (use --url and --branch outside a git repository)", err)
		}

		if a.branch != "" {
			repo.Branch = a.branch
		}
	}

	if a.name != "" {
		repo.Name = a.name
	}

	if err := repo.Validate(); err != nil {
		return repository.Repository{}, err
	}

	a.logger.Debug("repository", zap.String("repository", repo.String()))

	return repo, nil
}
