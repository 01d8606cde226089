package promote

import (
	"regexp"
	"sort"
	"strings"
)

// ruleNamePattern matches namespaced rule identifiers such as Style/FetchEnvVar
// or RSpec/Rails/HaveHttpStatus.
var ruleNamePattern = regexp.MustCompile(`^\w+(/\w+)+$`)

// WarningRules returns the sorted, deduplicated identifiers of all rules in
// text whose entry still carries the warning marker.
func WarningRules(text string) []string {
	seen := make(map[string]struct{})
	var rules []string

	for _, e := range scanEntries(text) {
		if len(e.markers) == 0 {
			continue
		}
		name, _, _ := strings.Cut(e.header, ":")
		if !ruleNamePattern.MatchString(name) {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		rules = append(rules, name)
	}

	sort.Strings(rules)
	return rules
}
