package commands

import (
	"github.com/leapstack-labs/lintpromote/internal/backup"
	"github.com/leapstack-labs/lintpromote/internal/engine"
	"github.com/leapstack-labs/lintpromote/internal/promote"
	"github.com/leapstack-labs/lintpromote/internal/report"
	"github.com/leapstack-labs/lintpromote/internal/validate"
	"github.com/spf13/cobra"
)

// RunPromote promotes the rules named in args, or lists the rules that can
// be promoted when args is empty. A rolled-back run returns
// engine.ErrValidationFailed after the summary is written.
func RunPromote(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)

	eng, err := cc.NewEngine()
	if err != nil {
		return err
	}

	out, runErr := eng.Run(cmd.Context(), args)
	if out == nil {
		return runErr
	}
	return cc.renderOutcome(cc.Reporter(cmd), cc.relOutcome(out), runErr)
}

// renderOutcome reports a finished or aborted run and returns the error the
// command exits with. A run that reached validation is always summarized,
// so every restored file is listed even when the rollback itself failed.
func (c *CommandContext) renderOutcome(rep *report.Reporter, out *engine.Outcome, runErr error) error {
	if out.State == engine.StateUsage {
		return rep.Usage(out.Listings)
	}

	if runErr != nil {
		c.Logger.Error("promotion aborted", "state", out.State.String(), "snapshot", out.Snapshot, "error", runErr)
		if out.Verdict != nil {
			if err := rep.Summary(out); err != nil {
				c.Logger.Error("failed to write summary", "error", err)
			}
		}
		return runErr
	}
	if err := rep.Summary(out); err != nil {
		return err
	}
	if out.State == engine.StateFailed {
		return engine.ErrValidationFailed
	}
	return nil
}

// relOutcome returns a copy of out with paths shown relative to the project root.
func (c *CommandContext) relOutcome(out *engine.Outcome) *engine.Outcome {
	o := *out
	o.Snapshot = c.rel(out.Snapshot)

	if out.Listings != nil {
		o.Listings = make([]promote.Listing, len(out.Listings))
		for i, l := range out.Listings {
			o.Listings[i] = promote.Listing{File: c.rel(l.File), Rules: l.Rules}
		}
	}

	if out.Backups != nil {
		o.Backups = make([]backup.Copy, len(out.Backups))
		for i, cp := range out.Backups {
			o.Backups[i] = backup.Copy{Source: c.rel(cp.Source), Backup: c.rel(cp.Backup)}
		}
	}

	if out.Result != nil {
		res := *out.Result
		res.Written = c.relAll(out.Result.Written)
		if out.Result.Promotions != nil {
			res.Promotions = make([]promote.Promotion, len(out.Result.Promotions))
			for i, p := range out.Result.Promotions {
				res.Promotions[i] = promote.Promotion{Rule: p.Rule, File: c.rel(p.File)}
			}
		}
		o.Result = &res
	}

	if out.Verdict != nil {
		o.Verdict = &validate.Verdict{Passed: out.Verdict.Passed, Restored: c.relAll(out.Verdict.Restored)}
	}
	return &o
}
