package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// StyleConfig is a style target with two warning rules and one default rule.
const StyleConfig = `# Style rules
Style/FetchEnvVar:
  Description: Suggests ENV.fetch for the replacement of ENV[].
  Enabled: true
  Severity: warning

Style/StringLiterals:
  EnforcedStyle: double_quotes
  Enabled: true

Style/CollectionCompact:
  Enabled: true
  Severity: warning
`

// RailsConfig is a rails target with a single warning rule.
const RailsConfig = `Rails/EnumSyntax:
  Enabled: true
  Severity: warning
`

// TargetFiles are the target paths, relative to the project root, used by
// SetupProject.
var TargetFiles = []string{
	"config/rubocop-style.yml",
	"config/rubocop-rails.yml",
	"config/rubocop-rspec.yml",
}

// SetupProject creates a temporary project holding config/rubocop-style.yml
// and config/rubocop-rails.yml. config/rubocop-rspec.yml is listed in
// TargetFiles but deliberately left absent.
func SetupProject(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	WriteFile(t, root, "config/rubocop-style.yml", StyleConfig)
	WriteFile(t, root, "config/rubocop-rails.yml", RailsConfig)
	return root
}

// WriteFile writes content to root/rel, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()

	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
	return path
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

// Targets returns TargetFiles joined onto root.
func Targets(root string) []string {
	paths := make([]string, len(TargetFiles))
	for i, rel := range TargetFiles {
		paths[i] = filepath.Join(root, rel)
	}
	return paths
}
