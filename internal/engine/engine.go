// Package engine runs one promotion invocation end to end.
// It snapshots the targets, promotes the requested rules, validates the
// result and rolls back from the snapshot when validation fails.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/lintpromote/internal/backup"
	"github.com/leapstack-labs/lintpromote/internal/promote"
	"github.com/leapstack-labs/lintpromote/internal/validate"
)

// State is a step of an invocation.
type State int

// Invocation states. USAGE, SUCCESS and FAILED are terminal.
const (
	StateInit State = iota
	StateUsage
	StateBackup
	StatePromote
	StateValidate
	StateSuccess
	StateRollback
	StateFailed
)

var stateNames = map[State]string{
	StateInit:     "init",
	StateUsage:    "usage",
	StateBackup:   "backup",
	StatePromote:  "promote",
	StateValidate: "validate",
	StateSuccess:  "success",
	StateRollback: "rollback",
	StateFailed:   "failed",
}

// String returns the state name.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateUsage || s == StateSuccess || s == StateFailed
}

// ErrValidationFailed marks an invocation that ended in rollback.
var ErrValidationFailed = errors.New("configuration validation failed, changes rolled back")

// Config holds engine configuration.
type Config struct {
	// Targets are the configuration files, in processing order.
	Targets []string
	// BackupDir is the directory holding snapshot directories.
	BackupDir string
	// Clock names the snapshot (optional, defaults to the wall clock).
	Clock backup.Clock
	// Validator gates the promoted configuration.
	Validator validate.Validator
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
}

// Outcome describes what an invocation did.
type Outcome struct {
	State    State             `json:"state"`
	Rules    []string          `json:"rules,omitempty"`
	Listings []promote.Listing `json:"available,omitempty"`
	Snapshot string            `json:"snapshot,omitempty"`
	Backups  []backup.Copy     `json:"backups,omitempty"`
	Result   *promote.Result   `json:"result,omitempty"`
	Verdict  *validate.Verdict `json:"validation,omitempty"`
}

// Engine drives a single invocation.
type Engine struct {
	cfg    Config
	logger *slog.Logger
	state  State
}

// New creates an engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Validator == nil {
		return nil, errors.New("validator is required")
	}
	if cfg.BackupDir == "" {
		return nil, errors.New("backup directory is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = backup.SystemClock{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{cfg: cfg, logger: logger, state: StateInit}, nil
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

func (e *Engine) transition(to State) {
	e.logger.Debug("state transition", "from", e.state.String(), "to", to.String())
	e.state = to
}

// Available lists, per existing target, the rules still at warning severity.
func (e *Engine) Available() ([]promote.Listing, error) {
	return promote.ListWarnings(e.cfg.Targets)
}

// Run executes one invocation. Without rule ids it only lists the rules
// that can be promoted. With rule ids it backs up the targets, promotes,
// and validates; a failed validation restores every target and ends in
// StateFailed with a nil error. I/O failures abort and are returned as
// errors together with the outcome so far.
func (e *Engine) Run(ctx context.Context, ruleIDs []string) (*Outcome, error) {
	if e.state != StateInit {
		return nil, fmt.Errorf("engine already ran (state %s)", e.state)
	}
	out := &Outcome{Rules: ruleIDs}

	if len(ruleIDs) == 0 {
		listings, err := e.Available()
		if err != nil {
			return out, err
		}
		out.Listings = listings
		e.transition(StateUsage)
		out.State = e.state
		return out, nil
	}

	e.logger.Info("promoting rules", "count", len(ruleIDs), "targets", len(e.cfg.Targets))

	e.transition(StateBackup)
	out.State = e.state
	snapshot := backup.New(e.cfg.BackupDir, e.cfg.Clock, e.logger)
	copies, err := snapshot.Create(e.cfg.Targets)
	out.Snapshot = snapshot.Dir()
	out.Backups = copies
	if err != nil {
		return out, err
	}

	e.transition(StatePromote)
	out.State = e.state
	result, err := promote.NewPromoter(e.logger).Promote(ruleIDs, e.cfg.Targets)
	out.Result = result
	if err != nil {
		return out, err
	}

	e.transition(StateValidate)
	out.State = e.state
	gate := validate.NewGate(e.cfg.Validator, snapshot, e.cfg.Targets, e.logger)
	verdict, err := gate.Check(ctx)
	out.Verdict = &verdict
	if !verdict.Passed {
		e.transition(StateRollback)
		out.State = e.state
	}
	if err != nil {
		return out, err
	}

	if verdict.Passed {
		e.transition(StateSuccess)
	} else {
		e.transition(StateFailed)
	}
	out.State = e.state
	e.logger.Info("promotion finished", "state", e.state.String(), "promoted", result.Promoted)
	return out, nil
}
