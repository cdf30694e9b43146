package engine

import (
	"time"

	"arxhq/codecheck/pkg/mcp/ast"
	"arxhq/codecheck/pkg/model"
)

// RuleExecutionContext carries the state of one rule execution: the model
// being validated, the rule, and the objects its conditions selected.
type RuleExecutionContext struct {
	Model          *model.BuildingModel
	Rule           *ast.MCPRule
	MatchedObjects []*model.BuildingObject
	Calculations   map[string]Calculation
	Metadata       map[string]any
}

// Calculation is the result of a calculation action.
type Calculation struct {
	Formula     string  `json:"formula"`
	Result      float64 `json:"result"`
	Unit        string  `json:"unit,omitempty"`
	Description string  `json:"description,omitempty"`
}

// ValidationViolation is a single code violation attributed to an object.
type ValidationViolation struct {
	RuleID        string                `json:"rule_id"`
	RuleName      string                `json:"rule_name"`
	Category      ast.RuleCategory      `json:"category"`
	Severity      ast.RuleSeverity      `json:"severity"`
	Message       string                `json:"message"`
	CodeReference string                `json:"code_reference,omitempty"`
	ElementID     string                `json:"element_id"`
	ElementType   string                `json:"element_type"`
	Location      *model.ObjectLocation `json:"location,omitempty"`
}

// ValidationResult is the outcome of executing one rule against a model.
// A rule passes when it produced no ERROR violations; WARNING and INFO
// violations do not fail the rule.
type ValidationResult struct {
	RuleID        string                 `json:"rule_id"`
	RuleName      string                 `json:"rule_name"`
	Category      ast.RuleCategory       `json:"category"`
	Passed        bool                   `json:"passed"`
	Violations    []ValidationViolation  `json:"violations"`
	Calculations  map[string]Calculation `json:"calculations,omitempty"`
	ExecutionTime time.Duration          `json:"execution_time"`
}

// ErrorCount returns the number of ERROR violations.
func (r *ValidationResult) ErrorCount() int {
	return r.countBySeverity(ast.SeverityError)
}

// WarningCount returns the number of WARNING violations.
func (r *ValidationResult) WarningCount() int {
	return r.countBySeverity(ast.SeverityWarning)
}

func (r *ValidationResult) countBySeverity(severity ast.RuleSeverity) int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == severity {
			n++
		}
	}
	return n
}

// MCPValidationReport is the outcome of validating a model against one
// rule set. TotalRules counts the enabled rules that produced a result;
// disabled rules and rules skipped by an execution error are excluded.
type MCPValidationReport struct {
	MCPID           string             `json:"mcp_id"`
	MCPName         string             `json:"mcp_name"`
	Jurisdiction    ast.Jurisdiction   `json:"jurisdiction"`
	ValidationDate  time.Time          `json:"validation_date"`
	TotalRules      int                `json:"total_rules"`
	PassedRules     int                `json:"passed_rules"`
	FailedRules     int                `json:"failed_rules"`
	TotalViolations int                `json:"total_violations"`
	TotalWarnings   int                `json:"total_warnings"`
	Results         []ValidationResult `json:"results"`
}

// ComplianceReport aggregates validation reports across all applicable
// rule sets into a single building-level verdict.
type ComplianceReport struct {
	ReportID               string                `json:"report_id"`
	BuildingID             string                `json:"building_id"`
	BuildingName           string                `json:"building_name"`
	GeneratedAt            time.Time             `json:"generated_at"`
	ValidationReports      []MCPValidationReport `json:"validation_reports"`
	OverallComplianceScore float64               `json:"overall_compliance_score"`
	CriticalViolations     int                   `json:"critical_violations"`
	TotalViolations        int                   `json:"total_violations"`
	TotalWarnings          int                   `json:"total_warnings"`
	Recommendations        []string              `json:"recommendations"`
}

// PerformanceMetrics is a snapshot of the engine's cumulative counters.
type PerformanceMetrics struct {
	TotalValidations     int           `json:"total_validations"`
	TotalExecutionTime   time.Duration `json:"total_execution_time"`
	AverageExecutionTime time.Duration `json:"average_execution_time"`
	CacheSize            int           `json:"cache_size"`
}
