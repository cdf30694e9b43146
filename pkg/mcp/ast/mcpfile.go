package ast

// Jurisdiction identifies the legal scope a rule set applies to.
// Country is required; the remaining fields narrow the scope.
type Jurisdiction struct {
	Country string
	State   string
	City    string
	County  string
}

// String returns the jurisdiction as a dash-joined path, most general first.
func (j Jurisdiction) String() string {
	s := j.Country
	if j.State != "" {
		s += "-" + j.State
	}
	if j.City != "" {
		s += "-" + j.City
	}
	return s
}

// MCPFile is a parsed rule set: a jurisdiction-scoped collection of rules
// used to validate a building model.
type MCPFile struct {
	MCPID        string
	Name         string
	Version      string
	Description  string
	Jurisdiction Jurisdiction
	Rules        []*MCPRule

	// SourceFile is the path the rule set was loaded from, if any.
	SourceFile string
}

// EnabledRules returns the rules with Enabled set, preserving file order.
func (f *MCPFile) EnabledRules() []*MCPRule {
	rules := make([]*MCPRule, 0, len(f.Rules))
	for _, r := range f.Rules {
		if r.Enabled {
			rules = append(rules, r)
		}
	}
	return rules
}

// FindRule returns the rule with the given id, or nil.
func (f *MCPFile) FindRule(ruleID string) *MCPRule {
	for _, r := range f.Rules {
		if r.RuleID == ruleID {
			return r
		}
	}
	return nil
}
