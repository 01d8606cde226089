// Package validate decides whether a freshly promoted configuration is kept.
//
// A Validator only answers pass or fail. The Gate wraps a Validator and, on
// failure, restores every target file from the run's snapshot.
package validate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"gopkg.in/yaml.v3"
)

// Validator reports whether the current configuration is acceptable.
type Validator interface {
	Validate(ctx context.Context) bool
}

// Func adapts a function to the Validator interface.
type Func func(ctx context.Context) bool

// Validate calls f.
func (f Func) Validate(ctx context.Context) bool { return f(ctx) }

// CommandValidator runs an external checker and trusts its exit status.
// The checker is invoked as:
//
//	<Command> --config <Config> <Args...> <Source>
//
// with Dir as working directory. Its output is discarded.
type CommandValidator struct {
	Command string
	Config  string
	Args    []string
	Source  string
	Dir     string
	// Timeout bounds the run when positive.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Argv returns the full command line.
func (v *CommandValidator) Argv() []string {
	argv := []string{v.Command}
	if v.Config != "" {
		argv = append(argv, "--config", v.Config)
	}
	argv = append(argv, v.Args...)
	if v.Source != "" {
		argv = append(argv, v.Source)
	}
	return argv
}

// Validate runs the checker and reports whether it exited with status zero.
// A checker that cannot be started counts as a failure.
func (v *CommandValidator) Validate(ctx context.Context) bool {
	logger := v.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	argv := v.Argv()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = v.Dir

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err == nil {
		logger.Debug("validator passed", "argv", argv, "duration", elapsed)
		return true
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logger.Debug("validator failed", "argv", argv, "exit_code", exitErr.ExitCode(), "duration", elapsed)
	} else {
		logger.Warn("validator could not run", "argv", argv, "error", err)
	}
	return false
}

// SyntaxValidator checks that every existing file parses as YAML.
type SyntaxValidator struct {
	Files  []string
	Logger *slog.Logger
}

// Validate parses each file and fails on the first one that is unreadable
// or not well-formed YAML. Missing files are skipped.
func (v *SyntaxValidator) Validate(_ context.Context) bool {
	logger := v.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	for _, file := range v.Files {
		if err := checkYAML(file); err != nil {
			logger.Debug("syntax check failed", "file", file, "error", err)
			return false
		}
	}
	return true
}

func checkYAML(file string) error {
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
	}
}

// Chain runs validators in order and fails on the first failure.
type Chain []Validator

// Validate reports whether every validator passed.
func (c Chain) Validate(ctx context.Context) bool {
	for _, v := range c {
		if !v.Validate(ctx) {
			return false
		}
	}
	return true
}
