// Package commands implements the lintpromote subcommands.
package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/lintpromote/internal/cli/config"
	"github.com/leapstack-labs/lintpromote/internal/cli/output"
	"github.com/leapstack-labs/lintpromote/internal/engine"
	"github.com/leapstack-labs/lintpromote/internal/report"
	"github.com/leapstack-labs/lintpromote/internal/validate"
	"github.com/spf13/cobra"
)

// rendererKey is used to store the renderer in a command context.
type rendererKey struct{}

// WithRenderer returns a context carrying r.
func WithRenderer(ctx context.Context, r *output.Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer set up by the
// root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		cfg = &config.Config{OutputFormat: os.Getenv(config.EnvPrefix + "OUTPUT")}
	}

	ctx := cmd.Context()
	logger := config.GetLogger(ctx)

	var r *output.Renderer
	if ctx != nil {
		r, _ = ctx.Value(rendererKey{}).(*output.Renderer)
	}
	if r == nil {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Reporter returns a reporter that names the program as the root command does.
func (c *CommandContext) Reporter(cmd *cobra.Command) *report.Reporter {
	return report.New(c.Renderer, cmd.Root().Name())
}

// Targets resolves the configured target files.
func (c *CommandContext) Targets() ([]string, error) {
	return c.Cfg.ResolveTargets()
}

// Validator builds the post-promotion check from the validator settings.
// The checker runs from the project root.
func (c *CommandContext) Validator(targets []string) validate.Validator {
	v := c.Cfg.Validator
	checker := &validate.CommandValidator{
		Command: v.Command,
		Config:  v.Config,
		Args:    v.Args,
		Source:  v.Source,
		Dir:     c.Cfg.ProjectRoot,
		Timeout: v.Timeout,
		Logger:  c.Logger,
	}
	if !v.SyntaxCheck {
		return checker
	}
	return validate.Chain{
		&validate.SyntaxValidator{Files: targets, Logger: c.Logger},
		checker,
	}
}

// NewEngine creates an engine for the configured targets.
func (c *CommandContext) NewEngine() (*engine.Engine, error) {
	targets, err := c.Targets()
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Config{
		Targets:   targets,
		BackupDir: c.Cfg.BackupDir,
		Validator: c.Validator(targets),
		Logger:    c.Logger,
	})
}

// rel shortens path to be relative to the project root where possible.
func (c *CommandContext) rel(path string) string {
	if c.Cfg.ProjectRoot == "" || !filepath.IsAbs(path) {
		return path
	}
	r, err := filepath.Rel(c.Cfg.ProjectRoot, path)
	if err != nil || strings.HasPrefix(r, "..") {
		return path
	}
	return r
}

func (c *CommandContext) relAll(paths []string) []string {
	if paths == nil {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = c.rel(p)
	}
	return out
}
