// Package report renders the usage listing and the run summary.
package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/lintpromote/internal/backup"
	"github.com/leapstack-labs/lintpromote/internal/cli/output"
	"github.com/leapstack-labs/lintpromote/internal/engine"
	"github.com/leapstack-labs/lintpromote/internal/promote"
)

// Guidance is printed after the not-found list.
const Guidance = "Some rules may not exist in the current configuration or may already be promoted. Check the config files manually."

// Reporter writes reports through a renderer.
type Reporter struct {
	r       *output.Renderer
	program string
}

// New creates a reporter. program is the command name shown in usage text.
func New(r *output.Renderer, program string) *Reporter {
	return &Reporter{r: r, program: program}
}

// Usage writes usage text followed by the rules that can be promoted.
func (rep *Reporter) Usage(listings []promote.Listing) error {
	r := rep.r
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(struct {
			Usage     string            `json:"usage"`
			Available []promote.Listing `json:"available"`
		}{Usage: rep.usageLine(), Available: listings})
	}

	markdown := r.EffectiveMode() == output.ModeMarkdown
	fence := func() {
		if markdown {
			r.Println("```")
		}
	}

	fence()
	r.Println("Usage: " + rep.usageLine())
	fence()
	r.Println("")
	r.Println("Examples:")
	fence()
	r.Printf("  %s Style/FetchEnvVar\n", rep.program)
	r.Printf("  %s Style/FetchEnvVar Rails/EnumSyntax\n", rep.program)
	fence()
	r.Println("")
	r.Println("Available rules to promote:")

	styles := r.Styles()
	for _, l := range listings {
		r.Println("")
		if markdown {
			r.Println(l.File + ":")
		} else {
			r.Println(styles.FilePath.Render(l.File) + ":")
		}
		for _, rule := range l.Rules {
			if markdown {
				r.Println("  - " + rule)
			} else {
				r.Println("  - " + styles.RulePath.Render(rule))
			}
		}
	}
	return nil
}

func (rep *Reporter) usageLine() string {
	return rep.program + " <rule-id> [rule-id ...]"
}

// Summary writes the outcome of a promotion run: backups taken, rules
// promoted, the validation verdict with a notice for every restored file,
// and the final counts.
func (rep *Reporter) Summary(out *engine.Outcome) error {
	r := rep.r
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(out)
	}

	if len(out.Rules) > 0 {
		r.Header(1, fmt.Sprintf("Promoting %d rules from warnings to errors", len(out.Rules)))
	}

	if len(out.Backups) > 0 || out.Snapshot != "" {
		r.Header(2, "Backups")
		for _, c := range out.Backups {
			r.StatusLine(c.Source, "success", "→ "+c.Backup)
		}
		if len(out.Backups) == 0 {
			r.Muted("No target files exist, nothing backed up")
		}
		r.Println("")
	}

	if out.Result != nil && len(out.Result.Promotions) > 0 {
		r.Header(2, "Promotions")
		for _, p := range out.Result.Promotions {
			r.StatusLine(p.Rule, "success", "in "+p.File)
		}
		r.Println("")
	}

	if out.Verdict != nil {
		r.Header(2, "Verification")
		if out.Verdict.Passed {
			r.Success("Configuration is valid")
		} else {
			r.Warning("Configuration has errors, restoring backups")
			for _, file := range out.Verdict.Restored {
				r.StatusLine(file, "warning", "restored")
			}
		}
		r.Println("")
	}

	rep.counts(out)
	return nil
}

func (rep *Reporter) counts(out *engine.Outcome) {
	r := rep.r
	r.Header(2, "Summary")

	if out.Result == nil {
		r.Muted("No promotion was attempted")
		return
	}
	res := out.Result

	r.Printf("  Promoted: %d rules\n", res.Promoted)
	if out.Verdict != nil && !out.Verdict.Passed {
		r.Printf("  Rolled back: %d files\n", len(out.Verdict.Restored))
	}
	if len(res.NotFound) == 0 {
		return
	}

	r.Printf("  Not found: %s\n", strings.Join(res.NotFound, ", "))
	r.Println("")
	r.Muted(Guidance)
}

// Snapshots writes the backup snapshots as a table.
func (rep *Reporter) Snapshots(snapshots []backup.Snapshot) error {
	r := rep.r
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(snapshots)
	}

	if len(snapshots) == 0 {
		r.Muted("No backups found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	if r.EffectiveMode() == output.ModeText {
		t.SetStyle(table.StyleLight)
	}
	t.AppendHeader(table.Row{"Snapshot", "Taken (UTC)", "Files"})
	for _, s := range snapshots {
		t.AppendRow(table.Row{s.Name, s.Time.Format("2006-01-02 15:04:05"), strings.Join(s.Files, ", ")})
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	return nil
}

// Restored writes one notice per file restored by an explicit restore.
func (rep *Reporter) Restored(snapshot string, files []string) {
	r := rep.r
	r.Header(2, "Restoring "+snapshot)
	if len(files) == 0 {
		r.Muted("Snapshot holds none of the target files")
		return
	}
	for _, file := range files {
		r.StatusLine(file, "success", "restored")
	}
	r.Success(fmt.Sprintf("Restored %d files", len(files)))
}
