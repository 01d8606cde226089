package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lintpromote/internal/backup"
	"github.com/leapstack-labs/lintpromote/internal/cli/testutil"
	"github.com/leapstack-labs/lintpromote/internal/engine"
	"github.com/leapstack-labs/lintpromote/internal/promote"
	"github.com/leapstack-labs/lintpromote/internal/validate"
)

func TestUsage(t *testing.T) {
	listings := []promote.Listing{
		{File: "config/rubocop-style.yml", Rules: []string{"Style/Bar", "Style/Foo"}},
		{File: "config/rubocop-rails.yml"},
	}

	for _, tr := range []*testutil.TestRenderer{testutil.NewTestRendererText(), testutil.NewTestRendererMarkdown()} {
		require.NoError(t, New(tr.Renderer, "lintpromote").Usage(listings))
		got := testutil.StripANSI(tr.Output())

		assert.Contains(t, got, "Usage: lintpromote <rule-id> [rule-id ...]")
		assert.Contains(t, got, "Available rules to promote:")
		assert.Contains(t, got, "config/rubocop-style.yml:")
		assert.Contains(t, got, "config/rubocop-rails.yml:")
		bar := strings.Index(got, "  - Style/Bar")
		foo := strings.Index(got, "  - Style/Foo")
		assert.Positive(t, bar)
		assert.Greater(t, foo, bar, "rules are listed in sorted order")
	}
}

func TestUsage_MarkdownIsValid(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, New(tr.Renderer, "lintpromote").Usage(nil))

	testutil.AssertNoANSI(t, tr.Output())
	testutil.AssertValidMarkdown(t, tr.Output())
}

func TestUsage_JSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	listings := []promote.Listing{{File: "a.yml", Rules: []string{"Style/Foo"}}}
	require.NoError(t, New(tr.Renderer, "lintpromote").Usage(listings))

	var got struct {
		Usage     string            `json:"usage"`
		Available []promote.Listing `json:"available"`
	}
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	assert.Equal(t, listings, got.Available)
	assert.Contains(t, got.Usage, "lintpromote")
}

func successOutcome() *engine.Outcome {
	return &engine.Outcome{
		State:    engine.StateSuccess,
		Rules:    []string{"Style/Foo", "Style/Gone"},
		Snapshot: "config/backups/20250102_030405",
		Backups: []backup.Copy{
			{Source: "config/rubocop-style.yml", Backup: "config/backups/20250102_030405/rubocop-style.yml"},
		},
		Result: &promote.Result{
			Promoted:   1,
			Promotions: []promote.Promotion{{Rule: "Style/Foo", File: "config/rubocop-style.yml"}},
			Written:    []string{"config/rubocop-style.yml"},
			NotFound:   []string{"Style/Gone"},
		},
		Verdict: &validate.Verdict{Passed: true},
	}
}

func TestSummary_Success(t *testing.T) {
	tr := testutil.NewTestRendererText()
	require.NoError(t, New(tr.Renderer, "lintpromote").Summary(successOutcome()))
	got := testutil.StripANSI(tr.Output())

	assert.Contains(t, got, "Promoting 2 rules")
	assert.Contains(t, got, "config/rubocop-style.yml → config/backups/20250102_030405/rubocop-style.yml")
	assert.Contains(t, got, "Style/Foo in config/rubocop-style.yml")
	assert.Contains(t, got, "Configuration is valid")
	assert.Contains(t, got, "Promoted: 1 rules")
	assert.Contains(t, got, "Not found: Style/Gone")
	assert.Contains(t, got, Guidance)
	assert.NotContains(t, got, "Rolled back")
}

func TestSummary_NoNotFoundOmitsGuidance(t *testing.T) {
	out := successOutcome()
	out.Result.NotFound = nil

	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, New(tr.Renderer, "lintpromote").Summary(out))

	assert.NotContains(t, tr.Output(), "Not found")
	assert.NotContains(t, tr.Output(), Guidance)
	testutil.AssertValidMarkdown(t, tr.Output())
}

func TestSummary_RollbackListsEveryRestoredFile(t *testing.T) {
	out := successOutcome()
	out.State = engine.StateFailed
	out.Verdict = &validate.Verdict{
		Restored: []string{"config/rubocop-style.yml", "config/rubocop-rails.yml"},
	}

	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, New(tr.Renderer, "lintpromote").Summary(out))
	got := tr.Output()

	assert.Contains(t, got, "Configuration has errors")
	assert.Contains(t, got, "- [warning] config/rubocop-style.yml (restored)")
	assert.Contains(t, got, "- [warning] config/rubocop-rails.yml (restored)")
	assert.Contains(t, got, "Rolled back: 2 files")
	assert.NotContains(t, got, "Configuration is valid")
}

func TestSummary_JSON(t *testing.T) {
	tr := testutil.NewTestRendererJSON()
	require.NoError(t, New(tr.Renderer, "lintpromote").Summary(successOutcome()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
	assert.Equal(t, "success", got["state"])
	result, ok := got["result"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, result["promoted"])
}

func TestSnapshots(t *testing.T) {
	snapshots := []backup.Snapshot{
		{Name: "20250102_030405", Time: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), Files: []string{"a.yml", "b.yml"}},
	}

	tr := testutil.NewTestRendererText()
	require.NoError(t, New(tr.Renderer, "lintpromote").Snapshots(snapshots))
	assert.Contains(t, tr.Output(), "20250102_030405")
	assert.Contains(t, tr.Output(), "2025-01-02 03:04:05")
	assert.Contains(t, tr.Output(), "a.yml, b.yml")

	md := testutil.NewTestRendererMarkdown()
	require.NoError(t, New(md.Renderer, "lintpromote").Snapshots(snapshots))
	assert.Contains(t, md.Output(), "| 20250102_030405 |")

	empty := testutil.NewTestRendererMarkdown()
	require.NoError(t, New(empty.Renderer, "lintpromote").Snapshots(nil))
	assert.Contains(t, empty.Output(), "No backups found")
}

func TestRestored(t *testing.T) {
	tr := testutil.NewTestRendererMarkdown()
	New(tr.Renderer, "lintpromote").Restored("20250102_030405", []string{"config/a.yml"})

	assert.Contains(t, tr.Output(), "## Restoring 20250102_030405")
	assert.Contains(t, tr.Output(), "- [success] config/a.yml (restored)")
	assert.Contains(t, tr.Output(), "Restored 1 files")
}
