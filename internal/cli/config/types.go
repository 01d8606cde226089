// Package config provides configuration management for the lintpromote CLI.
//
// Configuration is layered with koanf: built-in defaults, then
// lintpromote.yaml in the project root, then LINTPROMOTE_* environment
// variables, then explicitly set command-line flags.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	// ProjectRoot anchors every relative path below.
	ProjectRoot string `koanf:"project_root"`
	// Targets are the configuration files to promote rules in, in order.
	// Entries may be doublestar globs.
	Targets      []string        `koanf:"targets"`
	BackupDir    string          `koanf:"backup_dir"`
	Validator    ValidatorConfig `koanf:"validator"`
	Verbose      bool            `koanf:"verbose"`
	OutputFormat string          `koanf:"output"`
}

// ValidatorConfig describes the external checker run after promotion.
type ValidatorConfig struct {
	Command string   `koanf:"command"`
	Config  string   `koanf:"config"`
	Args    []string `koanf:"args"`
	Source  string   `koanf:"source"`
	// Timeout bounds the checker run; zero waits for it to exit.
	Timeout time.Duration `koanf:"timeout"`
	// SyntaxCheck parses every target as YAML before running the checker.
	SyntaxCheck bool `koanf:"syntax_check"`
}

// Default configuration values.
const (
	DefaultBackupDir       = "config/backups"
	DefaultValidator       = "rubocop"
	DefaultValidatorConfig = "config/default.yml"
	DefaultValidatorSource = "lib/"
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix              = "LINTPROMOTE_"
)

// DefaultTargets are the RuboCop configuration files, one per rule family.
var DefaultTargets = []string{
	"config/rubocop-style.yml",
	"config/rubocop-rails.yml",
	"config/rubocop-rspec.yml",
	"config/rubocop-performance.yml",
	"config/rubocop-lint.yml",
}

// DefaultValidatorArgs are passed to the checker between --config and the source tree.
var DefaultValidatorArgs = []string{"--format", "simple", "--dry-run"}

// ConfigFileNames are looked up in the project root, in order.
var ConfigFileNames = []string{"lintpromote.yaml", "lintpromote.yml", ".lintpromote.yaml", ".lintpromote.yml"}
