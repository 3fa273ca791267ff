package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/composer-fixer/internal/config"
	"github.com/kingrea/composer-fixer/internal/discovery"
	"github.com/kingrea/composer-fixer/internal/fixer"
	"github.com/kingrea/composer-fixer/internal/logging"
	"github.com/kingrea/composer-fixer/internal/report"
	"github.com/kingrea/composer-fixer/internal/rules"
	"github.com/kingrea/composer-fixer/internal/tui"
	"github.com/kingrea/composer-fixer/plugins"
)

type rootOptions struct {
	projectDir  string
	configPath  string
	logLevel    string
	dryRun      bool
	interactive bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "composer-fixer",
		Short: "Normalize the composer.json manifests of a PHP monorepo",
		Long: "composer-fixer applies a fixed set of conventions (required keys, default values,\n" +
			"sort orders and key order) to every packages/*/composer.json and rewrites the\n" +
			"manifests that deviate.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFix(cmd, opts)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.projectDir, "project-dir", "C", ".", "monorepo root")
	flags.StringVar(&opts.configPath, "config", "", "configuration file (default <project-dir>/"+config.FileName+")")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report manifests that would change without writing them")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "show an interactive progress view")

	cmd.AddCommand(newInitCommand(opts), newRulesCommand(opts))
	return cmd
}

// session bundles everything a fix run needs.
type session struct {
	cfg      *config.Config
	logger   *logging.Logger
	pipeline *fixer.Pipeline
}

func newSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	logger, err := logging.New(cmd.ErrOrStderr(), opts.logLevel)
	if err != nil {
		return nil, err
	}
	projectDir, err := filepath.Abs(opts.projectDir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}
	cfg, err := config.Load(projectDir, opts.configPath)
	if err != nil {
		logger.Error("configuration could not be loaded", "err", err)
		return nil, err
	}
	logger.Debug("configuration resolved", "path", cfg.Path, "loaded", cfg.Loaded)

	reg := rules.NewStandardRegistry()
	extra, err := plugins.LoadRules(cfg.PluginsDir(), reg.IDs())
	if err != nil {
		logger.Error("plugin rules could not be loaded", "dir", cfg.PluginsDir(), "err", err)
		return nil, err
	}
	seq, err := reg.Sequence(cfg.RuleDefaults(), cfg.DisabledRules(), extra...)
	if err != nil {
		logger.Error("rule sequence could not be built", "err", err)
		return nil, err
	}
	logger.Debug("rule sequence built", "rules", len(seq), "plugins", len(extra))
	return &session{cfg: cfg, logger: logger, pipeline: fixer.NewPipeline(seq...)}, nil
}

func runFix(cmd *cobra.Command, opts *rootOptions) error {
	s, err := newSession(cmd, opts)
	if err != nil {
		return err
	}
	finder := discovery.NewFinder(s.cfg.PackagesRoot(), s.cfg.PackagesPattern())
	files, err := finder.Find()
	if err != nil {
		s.logger.Error("manifests could not be discovered", "err", err)
		return err
	}
	s.logger.Info("manifests discovered", "root", finder.Root(), "count", len(files))
	if len(files) == 0 {
		s.logger.Warn("no manifests matched", "root", finder.Root(), "pattern", s.cfg.PackagesPattern())
	}

	runnerOpts := []fixer.RunnerOption{
		fixer.WithLogger(s.logger),
		fixer.WithDryRun(opts.dryRun),
	}
	if opts.interactive {
		runner := fixer.NewRunner(s.pipeline, runnerOpts...)
		summary, err := tui.Run(runner, files)
		if err != nil {
			return err
		}
		s.logRun(summary)
		return nil
	}

	runnerOpts = append(runnerOpts, fixer.WithReporter(report.NewConsole(cmd.OutOrStdout())))
	summary, err := fixer.NewRunner(s.pipeline, runnerOpts...).Run(files)
	if err != nil {
		return err
	}
	s.logRun(summary)
	return nil
}

func (s *session) logRun(summary fixer.Summary) {
	s.logger.Info("run finished", "processed", summary.Processed, "fixed", summary.Fixed)
	for _, path := range summary.FixedPaths {
		s.logger.Debug("manifest rewritten", "path", path)
	}
}
