package config

import (
	"errors"
	"fmt"
	"strings"
)

var validOutputs = []string{"auto", "text", "markdown", "md", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New("at least one target file is required\nHint: set targets in lintpromote.yaml or pass --target")
	}
	if c.BackupDir == "" {
		return errors.New("backup_dir is required")
	}
	if strings.TrimSpace(c.Validator.Command) == "" {
		return errors.New("validator.command is required")
	}
	if c.Validator.Timeout < 0 {
		return fmt.Errorf("validator.timeout must not be negative, got %s", c.Validator.Timeout)
	}

	out := strings.ToLower(c.OutputFormat)
	if out == "" {
		return nil
	}
	for _, v := range validOutputs {
		if out == v {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q (expected one of: %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
}
