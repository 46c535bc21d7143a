package job

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobsdone/internal/jobfile"
	"jobsdone/internal/matrix"
	"jobsdone/internal/repository"
	"jobsdone/internal/subst"
)

// Config holds configuration for expansion.
type Config struct {
	// Workers bounds how many matrix rows are resolved concurrently.
	// Values below 1 resolve rows one at a time.
	Workers int
}

// DefaultConfig returns the default expansion configuration.
func DefaultConfig() Config {
	return Config{Workers: 4}
}

// Expander turns documents into job specifications.
type Expander struct {
	config Config
	logger *zap.Logger
}

// NewExpander creates a new Expander. A nil logger disables logging.
func NewExpander(config Config, logger *zap.Logger) *Expander {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Expander{config: config, logger: logger}
}

// Expand expands doc with the default configuration.
func Expand(doc *jobfile.Document, repo repository.Repository) ([]Spec, error) {
	return NewExpander(DefaultConfig(), nil).Expand(doc, repo)
}

// Expand returns one Spec per matrix row of doc, in row order.
//
// An absent (nil) document and a branch rejected by branch_patterns both yield
// no specs and no error. Any validation, condition or substitution error
// aborts the whole document.
func (e *Expander) Expand(doc *jobfile.Document, repo repository.Repository) ([]Spec, error) {
	if doc == nil {
		e.logger.Debug("no jobs_done document")
		return nil, nil
	}

	if err := jobfile.ValidateDocument(doc); err != nil {
		return nil, err
	}

	ok, err := MatchBranch(BranchPatterns(doc), repo.Branch)
	if err != nil {
		return nil, err
	}

	if !ok {
		e.logger.Debug("branch does not match branch_patterns, skipping document",
			zap.String("branch", repo.Branch),
			zap.Strings("branch_patterns", BranchPatterns(doc)))

		return nil, nil
	}

	var decl matrix.Declaration

	if v, found := doc.Lookup(jobfile.OptionMatrix); found {
		decl, err = matrix.FromValue(v)
		if err != nil {
			return nil, err
		}
	}

	options, err := ConditionalOptions(doc)
	if err != nil {
		return nil, err
	}

	rows := matrix.Expand(decl)
	e.logger.Debug("matrix expanded",
		zap.Int("variables", len(decl)),
		zap.Int("rows", len(rows)))

	specs := make([]Spec, len(rows))
	errs := make([]error, len(rows))

	var g errgroup.Group

	g.SetLimit(max(1, e.config.Workers))

	for i, row := range rows {
		g.Go(func() error {
			specs[i], errs[i] = expandRow(options, row, repo)
			return nil
		})
	}

	_ = g.Wait()

	// Report the error of the first failing row so failures do not depend on
	// scheduling.
	for i, err := range errs {
		if err == nil {
			continue
		}

		if len(rows[i]) == 0 {
			return nil, err
		}

		return nil, fmt.Errorf("matrix row %s: %w", rows[i], err)
	}

	e.logger.Info("document expanded",
		zap.String("repository", repo.Name),
		zap.String("branch", repo.Branch),
		zap.Int("jobs", len(specs)))

	return specs, nil
}

func expandRow(options []ConditionalOption, row matrix.Row, repo repository.Repository) (Spec, error) {
	resolved := Resolve(options, row)

	substituted, err := subst.Entries(resolved, Vars(row, repo))
	if err != nil {
		return Spec{}, err
	}

	if err := jobfile.ValidateOptions(substituted); err != nil {
		return Spec{}, err
	}

	return newSpec(repo, row, substituted)
}

// Vars returns the placeholder bindings for a row: its matrix values plus the
// reserved branch and name of the repository.
func Vars(row matrix.Row, repo repository.Repository) subst.Vars {
	vars := make(subst.Vars, len(row)+2)
	for _, b := range row {
		vars[b.Name] = b.Value
	}

	vars[matrix.ReservedBranch] = repo.Branch
	vars[matrix.ReservedName] = repo.Name

	return vars
}
