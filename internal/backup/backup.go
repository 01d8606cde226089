// Package backup snapshots target files into timestamp-named directories and
// restores them.
//
// A snapshot lives at <root>/<YYYYMMDD>_<HHMMSS> (UTC) and holds one copy per
// file that existed when it was taken, stored under the file's base name. A
// second snapshot taken in the same second gets a numeric suffix
// (<YYYYMMDD>_<HHMMSS>_2, ...); an existing snapshot is never written to again.
// Snapshots are never removed by this package.
package backup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Layout is the time layout used to name snapshot directories.
const Layout = "20060102_150405"

// maxSameSecond bounds the suffixes tried for snapshots taken in one second.
const maxSameSecond = 100

// ErrSnapshotExists is returned by Create when no free snapshot name is left.
var ErrSnapshotExists = errors.New("backup snapshot already exists")

// parseName returns the time and sequence number encoded in a snapshot name.
// Unsuffixed names have sequence 1.
func parseName(name string) (time.Time, int, bool) {
	if ts, err := time.Parse(Layout, name); err == nil {
		return ts, 1, true
	}
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return time.Time{}, 0, false
	}
	ts, err := time.Parse(Layout, name[:i])
	if err != nil {
		return time.Time{}, 0, false
	}
	seq, err := strconv.Atoi(name[i+1:])
	if err != nil || seq < 2 || name[i+1] == '0' {
		return time.Time{}, 0, false
	}
	return ts, seq, true
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Copy is one file copied into a snapshot.
type Copy struct {
	Source string `json:"source"`
	Backup string `json:"backup"`
}

// Manager creates and restores a single snapshot.
type Manager struct {
	dir    string
	fresh  bool
	logger *slog.Logger
}

// New returns a manager for a fresh snapshot under root, named after the
// clock's current UTC time. Nothing is written until Create is called.
func New(root string, clock Clock, logger *slog.Logger) *Manager {
	if clock == nil {
		clock = SystemClock{}
	}
	m := newManager(filepath.Join(root, clock.Now().UTC().Format(Layout)), logger)
	m.fresh = true
	return m
}

// Open returns a manager bound to the existing snapshot name under root.
func Open(root, name string, logger *slog.Logger) (*Manager, error) {
	if _, _, ok := parseName(name); !ok {
		return nil, fmt.Errorf("invalid snapshot name %q: expected %s", name, Layout)
	}
	dir := filepath.Join(root, name)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("snapshot %s is not a directory", name)
	}
	return newManager(dir, logger), nil
}

func newManager(dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{dir: dir, logger: logger}
}

// Dir returns the snapshot directory. For a fresh snapshot it is final once
// Create has returned.
func (m *Manager) Dir() string {
	return m.dir
}

// Create copies every existing file into a new snapshot directory, creating
// its parents first. Files that do not exist are skipped.
func (m *Manager) Create(files []string) ([]Copy, error) {
	if err := m.claim(); err != nil {
		return nil, err
	}

	var copies []Copy
	for _, file := range files {
		dst := filepath.Join(m.dir, filepath.Base(file))
		ok, err := copyFile(file, dst)
		if err != nil {
			return copies, fmt.Errorf("failed to back up %s: %w", file, err)
		}
		if !ok {
			m.logger.Debug("no file to back up", "file", file)
			continue
		}
		copies = append(copies, Copy{Source: file, Backup: dst})
		m.logger.Debug("backed up", "file", file, "backup", dst)
	}
	return copies, nil
}

// claim creates the snapshot directory, which must not exist yet. A name
// already taken in the same second is retried with a numeric suffix.
func (m *Manager) claim() error {
	if !m.fresh {
		return fmt.Errorf("%w: %s", ErrSnapshotExists, m.dir)
	}
	if err := os.MkdirAll(filepath.Dir(m.dir), 0o750); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	base := m.dir
	for seq := 1; seq <= maxSameSecond; seq++ {
		dir := base
		if seq > 1 {
			dir = base + "_" + strconv.Itoa(seq)
		}
		err := os.Mkdir(dir, 0o750)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create backup directory: %w", err)
		}
		m.dir = dir
		m.fresh = false
		return nil
	}
	return fmt.Errorf("%w: %s", ErrSnapshotExists, base)
}

// Restore copies each file's snapshot copy back over the live file and
// returns the files restored. Files without a copy in the snapshot are
// skipped.
func (m *Manager) Restore(files []string) ([]string, error) {
	var restored []string
	for _, file := range files {
		src := filepath.Join(m.dir, filepath.Base(file))
		ok, err := copyFile(src, file)
		if err != nil {
			return restored, fmt.Errorf("failed to restore %s: %w", file, err)
		}
		if !ok {
			continue
		}
		restored = append(restored, file)
		m.logger.Debug("restored", "file", file, "backup", src)
	}
	return restored, nil
}

// copyFile copies src to dst, keeping src's permission bits. It reports
// false without error when src does not exist.
func copyFile(src, dst string) (bool, error) {
	in, err := os.Open(src)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return false, err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return false, err
	}
	return true, out.Close()
}

// Snapshot describes a snapshot directory on disk.
type Snapshot struct {
	Name  string    `json:"name"`
	Dir   string    `json:"dir"`
	Time  time.Time `json:"time"`
	Files []string  `json:"files"`

	seq int
}

// List returns the snapshots under root, oldest first. Entries whose name
// does not follow Layout are ignored; a missing root yields no snapshots.
func List(root string) ([]Snapshot, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var snapshots []Snapshot
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		ts, seq, ok := parseName(e.Name())
		if !ok {
			continue
		}
		dir := filepath.Join(root, e.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot %s: %w", e.Name(), err)
		}
		s := Snapshot{Name: e.Name(), Dir: dir, Time: ts, seq: seq}
		for _, f := range files {
			if f.Type().IsRegular() {
				s.Files = append(s.Files, f.Name())
			}
		}
		snapshots = append(snapshots, s)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].Time.Equal(snapshots[j].Time) {
			return snapshots[i].Time.Before(snapshots[j].Time)
		}
		return snapshots[i].seq < snapshots[j].seq
	})
	return snapshots, nil
}

// ErrNoSnapshots is returned by Latest when root holds no snapshot.
var ErrNoSnapshots = errors.New("no backup snapshots found")

// Latest returns the newest snapshot under root.
func Latest(root string) (Snapshot, error) {
	snapshots, err := List(root)
	if err != nil {
		return Snapshot{}, err
	}
	if len(snapshots) == 0 {
		return Snapshot{}, ErrNoSnapshots
	}
	return snapshots[len(snapshots)-1], nil
}
