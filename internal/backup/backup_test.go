package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/lintpromote/internal/testutil"
)

var testTime = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func TestNew_NamesSnapshotAfterUTCTime(t *testing.T) {
	root := t.TempDir()
	local := testTime.In(time.FixedZone("UTC+5", 5*60*60))

	m := New(root, FixedClock(local), nil)
	assert.Equal(t, filepath.Join(root, "20250314_092653"), m.Dir())
}

func TestCreate_CopiesExistingFilesAndSkipsMissing(t *testing.T) {
	project := testutil.SetupProject(t)
	root := filepath.Join(project, "config", "backups")
	files := testutil.Targets(project)

	m := New(root, FixedClock(testTime), testutil.NewTestLogger(t))
	copies, err := m.Create(files)
	require.NoError(t, err)

	require.Len(t, copies, 2)
	assert.Equal(t, files[0], copies[0].Source)
	assert.Equal(t, filepath.Join(m.Dir(), "rubocop-style.yml"), copies[0].Backup)
	assert.Equal(t, testutil.StyleConfig, testutil.ReadFile(t, copies[0].Backup))
	assert.Equal(t, testutil.RailsConfig, testutil.ReadFile(t, copies[1].Backup))
	assert.NoFileExists(t, filepath.Join(m.Dir(), "rubocop-rspec.yml"))
}

func TestCreate_NoExistingFilesStillCreatesDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "deep", "backups")

	m := New(root, FixedClock(testTime), nil)
	copies, err := m.Create([]string{filepath.Join(root, "missing.yml")})
	require.NoError(t, err)

	assert.Empty(t, copies)
	assert.DirExists(t, m.Dir())
}

func TestRoundTrip(t *testing.T) {
	project := testutil.SetupProject(t)
	files := testutil.Targets(project)
	m := New(filepath.Join(project, "backups"), FixedClock(testTime), nil)

	_, err := m.Create(files)
	require.NoError(t, err)

	restored, err := m.Restore(files)
	require.NoError(t, err)

	assert.Equal(t, files[:2], restored)
	assert.Equal(t, testutil.StyleConfig, testutil.ReadFile(t, files[0]))
	assert.Equal(t, testutil.RailsConfig, testutil.ReadFile(t, files[1]))
	assert.NoFileExists(t, files[2])
}

func TestRestore_OverwritesModifiedFiles(t *testing.T) {
	project := testutil.SetupProject(t)
	files := testutil.Targets(project)
	m := New(filepath.Join(project, "backups"), FixedClock(testTime), nil)

	_, err := m.Create(files)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(files[0], []byte("broken: [\n"), 0o644))
	require.NoError(t, os.WriteFile(files[1], []byte(""), 0o644))

	restored, err := m.Restore(files)
	require.NoError(t, err)

	assert.Len(t, restored, 2)
	assert.Equal(t, testutil.StyleConfig, testutil.ReadFile(t, files[0]))
	assert.Equal(t, testutil.RailsConfig, testutil.ReadFile(t, files[1]))
	assert.DirExists(t, m.Dir(), "snapshot is kept after restore")
}

func TestRestore_MissingBackupEntryIsSkipped(t *testing.T) {
	project := testutil.SetupProject(t)
	files := testutil.Targets(project)
	m := New(filepath.Join(project, "backups"), FixedClock(testTime), nil)

	_, err := m.Create(files[:1])
	require.NoError(t, err)

	restored, err := m.Restore(files)
	require.NoError(t, err)
	assert.Equal(t, files[:1], restored)
}

func TestOpen(t *testing.T) {
	project := testutil.SetupProject(t)
	root := filepath.Join(project, "backups")
	created := New(root, FixedClock(testTime), nil)
	_, err := created.Create(testutil.Targets(project))
	require.NoError(t, err)

	m, err := Open(root, "20250314_092653", nil)
	require.NoError(t, err)
	assert.Equal(t, created.Dir(), m.Dir())

	_, err = Open(root, "latest", nil)
	assert.ErrorContains(t, err, "invalid snapshot name")

	_, err = Open(root, "20200101_000000", nil)
	assert.Error(t, err)
}

func TestListAndLatest(t *testing.T) {
	project := testutil.SetupProject(t)
	root := filepath.Join(project, "backups")
	files := testutil.Targets(project)

	_, err := Latest(root)
	require.ErrorIs(t, err, ErrNoSnapshots)

	later := testTime.Add(time.Hour)
	for _, ts := range []time.Time{later, testTime} {
		_, err := New(root, FixedClock(ts), nil).Create(files)
		require.NoError(t, err)
	}
	require.NoError(t, os.Mkdir(filepath.Join(root, "not-a-snapshot"), 0o755))

	snapshots, err := List(root)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "20250314_092653", snapshots[0].Name)
	assert.Equal(t, "20250314_102653", snapshots[1].Name)
	assert.Equal(t, []string{"rubocop-rails.yml", "rubocop-style.yml"}, snapshots[0].Files)
	assert.True(t, snapshots[0].Time.Equal(testTime))

	latest, err := Latest(root)
	require.NoError(t, err)
	assert.Equal(t, "20250314_102653", latest.Name)
}

func TestCreate_SameSecondGetsSuffixedSnapshot(t *testing.T) {
	project := testutil.SetupProject(t)
	root := filepath.Join(project, "backups")
	files := testutil.Targets(project)

	first := New(root, FixedClock(testTime), nil)
	_, err := first.Create(files)
	require.NoError(t, err)

	testutil.WriteFile(t, project, "config/rubocop-style.yml", "Style/FetchEnvVar:\n  Enabled: true\n")

	second := New(root, FixedClock(testTime), nil)
	copies, err := second.Create(files)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "20250314_092653_2"), second.Dir())
	assert.Equal(t, filepath.Join(second.Dir(), "rubocop-style.yml"), copies[0].Backup)
	assert.Equal(t, testutil.StyleConfig, testutil.ReadFile(t, filepath.Join(first.Dir(), "rubocop-style.yml")))

	snapshots, err := List(root)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "20250314_092653", snapshots[0].Name)
	assert.Equal(t, "20250314_092653_2", snapshots[1].Name)

	m, err := Open(root, "20250314_092653_2", nil)
	require.NoError(t, err)
	assert.Equal(t, second.Dir(), m.Dir())
}

func TestCreate_NeverReusesASnapshot(t *testing.T) {
	project := testutil.SetupProject(t)
	root := filepath.Join(project, "backups")

	m := New(root, FixedClock(testTime), nil)
	_, err := m.Create(testutil.Targets(project))
	require.NoError(t, err)

	_, err = m.Create(testutil.Targets(project))
	assert.ErrorIs(t, err, ErrSnapshotExists)

	opened, err := Open(root, "20250314_092653", nil)
	require.NoError(t, err)
	_, err = opened.Create(testutil.Targets(project))
	assert.ErrorIs(t, err, ErrSnapshotExists)
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name    string
		wantSeq int
		wantOK  bool
	}{
		{name: "20250314_092653", wantSeq: 1, wantOK: true},
		{name: "20250314_092653_2", wantSeq: 2, wantOK: true},
		{name: "20250314_092653_12", wantSeq: 12, wantOK: true},
		{name: "20250314_092653_1"},
		{name: "20250314_092653_02"},
		{name: "20250314_092653_"},
		{name: "20250314_092653_x"},
		{name: "latest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, seq, ok := parseName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantSeq, seq)
			if ok {
				assert.True(t, ts.Equal(testTime))
			}
		})
	}
}
