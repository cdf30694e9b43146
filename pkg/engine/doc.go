// Package engine executes compliance rule sets against building models.
//
// The engine loads rule sets through a RuleSource, evaluates each enabled
// rule's conditions to select matching objects, executes the rule's actions
// to produce violations and calculations, and aggregates the results into a
// ComplianceReport. Loaded rule sets are cached; ClearCache and
// InvalidateRuleSet evict entries so edited files are re-read.
package engine
