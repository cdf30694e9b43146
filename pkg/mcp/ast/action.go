package ast

// ActionType represents what happens when a rule's conditions match.
type ActionType string

const (
	ActionTypeValidation  ActionType = "validation"  // record a violation per matched object
	ActionTypeCalculation ActionType = "calculation" // compute a quantity via formula
	ActionTypeWarning     ActionType = "warning"     // validation at warning severity
	ActionTypeError       ActionType = "error"       // validation at error severity
)

// RuleSeverity is the severity attached to a violation.
type RuleSeverity string

const (
	SeverityError   RuleSeverity = "ERROR"
	SeverityWarning RuleSeverity = "WARNING"
	SeverityInfo    RuleSeverity = "INFO"
)

// RuleAction is a side effect of a rule firing.
//
//   - validation/warning/error actions require Message and Severity and emit
//     one violation per matched object
//   - calculation actions require Formula and record a named numeric result
type RuleAction struct {
	Type          ActionType
	Message       string
	Severity      RuleSeverity
	CodeReference string
	Formula       string
	Unit          string
	Description   string
	Location      Location
}

// IsValidation returns true for the three validation-shaped action kinds.
func (a *RuleAction) IsValidation() bool {
	return a.Type == ActionTypeValidation || a.Type == ActionTypeWarning || a.Type == ActionTypeError
}

// EffectiveSeverity returns the severity a violation emitted by this action
// carries. Warning and error actions imply their severity when the field is
// unset; validation actions use the declared severity.
func (a *RuleAction) EffectiveSeverity() RuleSeverity {
	if a.Severity != "" {
		return a.Severity
	}
	switch a.Type {
	case ActionTypeWarning:
		return SeverityWarning
	case ActionTypeError:
		return SeverityError
	default:
		return SeverityInfo
	}
}
