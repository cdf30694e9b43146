// Codecheck is a building code compliance validation engine.
//
// It checks building models against jurisdiction-specific rule sets,
// producing compliance reports with violations, engineering calculations,
// and remediation recommendations.
//
// Usage:
//
//	# Validate a building model, auto-detecting applicable codes
//	codecheck validate --model building.json
//
//	# Validate against specific rule sets
//	codecheck validate --model building.json --rule-set us_ibc_2021.json
//
//	# Lint rule-set files
//	codecheck lint --dir rulesets/
//
//	# Show which codes apply to a building
//	codecheck jurisdictions --model building.json
//
//	# Run the validation HTTP service
//	codecheck serve --listen :8080
package main

func main() {
	Execute()
}
