package fixer

import (
	"github.com/kingrea/composer-fixer/internal/logging"
)

// Reporter receives progress while the runner walks the manifests.
type Reporter interface {
	// FileFixed is called for every manifest whose content changed.
	FileFixed(outcome Outcome)
	// FileDone is called after every manifest with its fixed count (0 or 1).
	FileDone(outcome Outcome)
	// Finished is called once after the last manifest.
	Finished(summary Summary)
}

// Summary aggregates a whole run.
type Summary struct {
	Processed int
	Fixed     int
	// FixedPaths lists the changed manifests in processing order.
	FixedPaths []string
}

// RunnerOption customizes a Runner during construction.
type RunnerOption func(*Runner)

// WithReporter sets the progress reporter.
func WithReporter(reporter Reporter) RunnerOption {
	return func(r *Runner) {
		r.reporter = reporter
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithDryRun computes and reports changes without writing any file.
func WithDryRun(dryRun bool) RunnerOption {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

// Runner processes manifests strictly one after another.
type Runner struct {
	pipeline *Pipeline
	reporter Reporter
	logger   *logging.Logger
	dryRun   bool
	summary  Summary
}

// NewRunner builds a runner for pipeline.
func NewRunner(pipeline *Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{pipeline: pipeline}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run fixes every file in order. The first error stops the run; files
// already rewritten stay rewritten.
func (r *Runner) Run(files []string) (Summary, error) {
	r.summary = Summary{}
	for _, path := range files {
		if _, err := r.Step(path); err != nil {
			return r.summary, err
		}
	}
	r.Finish()
	return r.summary, nil
}

// Step fixes a single file and reports it. It lets callers drive the run
// one manifest at a time.
func (r *Runner) Step(path string) (Outcome, error) {
	log := r.logger.With("file", path)
	log.Debug("processing manifest")
	outcome, err := r.pipeline.FixFile(path, !r.dryRun)
	if err != nil {
		log.Error("manifest could not be fixed", "err", err)
		return outcome, err
	}
	r.summary.Processed++
	if outcome.Changed {
		r.summary.Fixed++
		r.summary.FixedPaths = append(r.summary.FixedPaths, path)
		log.Info("manifest fixed", "written", outcome.Written)
		if r.reporter != nil {
			r.reporter.FileFixed(outcome)
		}
	} else {
		log.Debug("manifest already normalized")
	}
	if r.reporter != nil {
		r.reporter.FileDone(outcome)
	}
	return outcome, nil
}

// Finish reports the aggregate summary.
func (r *Runner) Finish() Summary {
	if r.reporter != nil {
		r.reporter.Finished(r.summary)
	}
	return r.summary
}
