package promote

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Promotion records one rule promoted in one file.
type Promotion struct {
	Rule string `json:"rule"`
	File string `json:"file"`
}

// Result accumulates the outcome of a promotion run.
type Result struct {
	// Promoted counts rule/file pairs whose marker was removed.
	Promoted int `json:"promoted"`
	// Promotions lists each promoted pair in processing order.
	Promotions []Promotion `json:"promotions,omitempty"`
	// Written lists the files that were rewritten.
	Written []string `json:"written,omitempty"`
	// NotFound lists, once each, the requested rules that were not promoted
	// in some existing target whose original content does not mention them.
	NotFound []string `json:"not_found,omitempty"`
}

func (r *Result) notFound(id string) {
	for _, seen := range r.NotFound {
		if seen == id {
			return
		}
	}
	r.NotFound = append(r.NotFound, id)
}

// Listing is the set of warning rules found in one target file.
type Listing struct {
	File  string   `json:"file"`
	Rules []string `json:"rules"`
}

// Promoter applies PromoteRuleInText across a set of target files.
type Promoter struct {
	logger *slog.Logger
}

// NewPromoter creates a promoter. A nil logger discards log output.
func NewPromoter(logger *slog.Logger) *Promoter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Promoter{logger: logger}
}

// Promote removes the warning marker of every rule in ruleIDs from every
// existing file in files. Each file is read once, all rules are applied to
// its in-memory content in order, and the file is written back at most once,
// only when its content changed. Missing files are skipped; any other I/O
// error aborts the run and is returned together with the partial result.
//
// Not-found is decided per file: a rule that is not promoted in a file whose
// original content does not contain its text joins NotFound, even when it
// was promoted in another file.
func (p *Promoter) Promote(ruleIDs, files []string) (*Result, error) {
	result := &Result{}
	for _, file := range files {
		if err := p.promoteFile(file, ruleIDs, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (p *Promoter) promoteFile(file string, ruleIDs []string, result *Result) error {
	info, err := os.Stat(file)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.Debug("skipping missing target", "file", file)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file, err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	original := string(data)
	content := original

	for _, id := range ruleIDs {
		updated, changed := PromoteRuleInText(content, id)
		if changed {
			content = updated
			result.Promoted++
			result.Promotions = append(result.Promotions, Promotion{Rule: id, File: file})
			p.logger.Debug("promoted rule", "rule", id, "file", file)
			continue
		}
		if !strings.Contains(original, id) {
			result.notFound(id)
		}
	}

	if content == original {
		return nil
	}

	if err := os.WriteFile(file, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	result.Written = append(result.Written, file)
	p.logger.Debug("wrote target", "file", file, "bytes", len(content))
	return nil
}

// ListWarnings scans each existing file and returns the rules that still
// carry the warning marker, one listing per file in the order given.
func ListWarnings(files []string) ([]Listing, error) {
	var listings []Listing
	for _, file := range files {
		data, err := os.ReadFile(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		listings = append(listings, Listing{File: file, Rules: WarningRules(string(data))})
	}
	return listings, nil
}
