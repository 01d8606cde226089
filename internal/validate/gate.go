package validate

import (
	"context"
	"fmt"
	"log/slog"
)

// Restorer puts target files back from a snapshot and returns the files it
// restored.
type Restorer interface {
	Restore(files []string) ([]string, error)
}

// Verdict is the outcome of a gate check.
type Verdict struct {
	Passed   bool     `json:"passed"`
	Restored []string `json:"restored,omitempty"`
}

// Gate runs a Validator and rolls back on failure.
type Gate struct {
	validator Validator
	restorer  Restorer
	files     []string
	logger    *slog.Logger
}

// NewGate creates a gate. files must be the same set that was backed up by
// restorer, so a failure restores every tracked file.
func NewGate(v Validator, r Restorer, files []string, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Gate{validator: v, restorer: r, files: files, logger: logger}
}

// Check validates the configuration. On failure every tracked file is
// restored from the snapshot; the returned error only reports a failed
// restore.
func (g *Gate) Check(ctx context.Context) (Verdict, error) {
	if g.validator.Validate(ctx) {
		return Verdict{Passed: true}, nil
	}

	g.logger.Info("validation failed, restoring targets", "files", len(g.files))
	restored, err := g.restorer.Restore(g.files)
	if err != nil {
		return Verdict{Restored: restored}, fmt.Errorf("rollback incomplete: %w", err)
	}
	return Verdict{Restored: restored}, nil
}
