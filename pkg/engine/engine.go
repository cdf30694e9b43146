package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"arxhq/codecheck/pkg/mcp/ast"
	"arxhq/codecheck/pkg/mcp/parser"
	"arxhq/codecheck/pkg/mcp/validator"
	"arxhq/codecheck/pkg/model"
	"arxhq/codecheck/pkg/spatial"
)

// RuleSource provides raw rule-set content to the engine. A reference is
// source-specific: a file path, a directory entry, or a database key.
type RuleSource interface {
	// Load returns the raw bytes of the rule set named by ref.
	Load(ctx context.Context, ref string) ([]byte, error)
}

// JurisdictionMatcher resolves which code rule sets apply to a building.
type JurisdictionMatcher interface {
	// GetApplicableCodes returns the jurisdiction codes applicable to the
	// building, most specific first.
	GetApplicableCodes(building *model.BuildingModel) []string

	// GetJurisdictionInfo returns diagnostic information about the match.
	GetJurisdictionInfo(building *model.BuildingModel) map[string]any
}

// Metrics receives engine observations. Implementations must be safe for
// concurrent use.
type Metrics interface {
	ObserveValidation(duration time.Duration)
	RecordRuleEvaluation(category string, passed bool)
	RecordViolation(severity, category string)
	SetCacheSize(n int)
}

// RuleEngine validates building models against compliance rule sets.
type RuleEngine struct {
	config    *EngineConfig
	logger    *slog.Logger
	source    RuleSource
	parser    ruleSetParser
	validator *validator.Validator
	evaluator *ConditionEvaluator
	executor  *ActionExecutor
	cache     *ruleSetCache

	matcher JurisdictionMatcher
	metrics Metrics

	// perfMu guards the cumulative counters below.
	perfMu             sync.Mutex
	totalValidations   int
	totalExecutionTime time.Duration
}

// ruleSetParser is the subset of the parser the engine needs.
type ruleSetParser interface {
	ParseBytes(data []byte, sourcePath string) (*ast.MCPFile, error)
}

// New creates a rule engine backed by the given source.
func New(config *EngineConfig, source RuleSource, logger *slog.Logger) (*RuleEngine, error) {
	if config == nil {
		config = DefaultEngineConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("rule source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	spatialEngine := spatial.NewEngine()

	return &RuleEngine{
		config:    config,
		logger:    logger,
		source:    source,
		parser:    parser.NewParser(),
		validator: v,
		evaluator: NewConditionEvaluator(spatialEngine, logger),
		executor:  NewActionExecutor(logger),
		cache:     newRuleSetCache(),
	}, nil
}

// SetJurisdictionMatcher enables rule-set auto-detection from building
// metadata. Must be called before validations begin.
func (e *RuleEngine) SetJurisdictionMatcher(m JurisdictionMatcher) {
	e.matcher = m
}

// SetMetrics attaches a metrics sink. Must be called before validations
// begin.
func (e *RuleEngine) SetMetrics(m Metrics) {
	e.metrics = m
}

// LoadRuleSet loads, parses, and structurally validates the rule set named
// by ref, caching the result. Subsequent loads of the same ref are served
// from cache until it is invalidated.
func (e *RuleEngine) LoadRuleSet(ctx context.Context, ref string) (*ast.MCPFile, error) {
	if file, ok := e.cache.Get(ref); ok {
		e.logger.Debug("rule set served from cache", "ref", ref)
		return file, nil
	}

	data, err := e.source.Load(ctx, ref)
	if err != nil {
		return nil, &LoadError{Ref: ref, Cause: err}
	}

	file, err := e.parser.ParseBytes(data, ref)
	if err != nil {
		return nil, &LoadError{Ref: ref, Cause: err}
	}

	if err := e.validator.Validate(file); err != nil {
		return nil, &LoadError{Ref: ref, Cause: err}
	}

	if len(file.Rules) > e.config.MaxRulesPerSet {
		return nil, &LoadError{
			Ref:   ref,
			Cause: fmt.Errorf("too many rules: %d (max: %d)", len(file.Rules), e.config.MaxRulesPerSet),
		}
	}

	e.cache.Put(ref, file)
	if e.metrics != nil {
		e.metrics.SetCacheSize(e.cache.Len())
	}

	e.logger.Info("rule set loaded",
		"ref", ref,
		"mcp_id", file.MCPID,
		"rule_count", len(file.Rules),
	)
	return file, nil
}

// ValidateBuildingModel validates a building against the given rule-set
// references. When refs is nil and a jurisdiction matcher is configured,
// the applicable rule sets are auto-detected from the building's metadata.
// A rule set that fails to load is logged and skipped so one broken file
// does not sink the whole validation.
func (e *RuleEngine) ValidateBuildingModel(ctx context.Context, building *model.BuildingModel, refs []string) (*ComplianceReport, error) {
	if building == nil {
		return nil, fmt.Errorf("building model cannot be nil")
	}

	start := time.Now()
	e.logger.Info("starting building validation",
		"building_id", building.BuildingID,
		"building_name", building.BuildingName,
	)

	ctx, cancel := context.WithTimeout(ctx, e.config.ValidationTimeout)
	defer cancel()

	if refs == nil && e.matcher != nil {
		codes := e.matcher.GetApplicableCodes(building)
		for _, code := range codes {
			refs = append(refs, fmt.Sprintf(e.config.RuleSetRefTemplate, code))
		}
		e.logger.Info("auto-detected applicable codes", "codes", codes)
	}
	if len(refs) == 0 {
		return nil, ErrNoRuleSets
	}
	if len(refs) > e.config.MaxRuleSets {
		return nil, fmt.Errorf("too many rule sets: %d (max: %d)", len(refs), e.config.MaxRuleSets)
	}

	var reports []MCPValidationReport
	criticalViolations := 0
	totalViolations := 0
	totalWarnings := 0

	for _, ref := range refs {
		select {
		case <-ctx.Done():
			return nil, &TimeoutError{RuleSetID: ref, Timeout: e.config.ValidationTimeout}
		default:
		}

		file, err := e.LoadRuleSet(ctx, ref)
		if err != nil {
			e.logger.Error("skipping rule set", "ref", ref, "error", err)
			continue
		}

		report, err := e.validateWithRuleSet(ctx, building, file)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)

		totalViolations += report.TotalViolations
		totalWarnings += report.TotalWarnings
		for _, result := range report.Results {
			criticalViolations += result.ErrorCount()
		}
	}

	totalRules := 0
	passedRules := 0
	for _, r := range reports {
		totalRules += r.TotalRules
		passedRules += r.PassedRules
	}
	score := 0.0
	if totalRules > 0 {
		score = float64(passedRules) / float64(totalRules) * 100
	}

	report := &ComplianceReport{
		ReportID:               uuid.NewString(),
		BuildingID:             building.BuildingID,
		BuildingName:           building.BuildingName,
		GeneratedAt:            time.Now(),
		ValidationReports:      reports,
		OverallComplianceScore: score,
		CriticalViolations:     criticalViolations,
		TotalViolations:        totalViolations,
		TotalWarnings:          totalWarnings,
		Recommendations:        generateRecommendations(reports),
	}

	elapsed := time.Since(start)
	e.recordValidation(elapsed)
	if e.metrics != nil {
		e.metrics.ObserveValidation(elapsed)
	}

	e.logger.Info("building validation completed",
		"report_id", report.ReportID,
		"duration", elapsed,
		"score", fmt.Sprintf("%.1f", score),
		"critical_violations", criticalViolations,
	)
	return report, nil
}

// validateWithRuleSet runs every enabled rule of one rule set against the
// building. A rule that errors is logged and skipped; it counts neither as
// passed nor failed, and TotalRules reflects only the rules that produced
// a result.
func (e *RuleEngine) validateWithRuleSet(ctx context.Context, building *model.BuildingModel, file *ast.MCPFile) (*MCPValidationReport, error) {
	e.logger.Info("validating with rule set", "mcp_id", file.MCPID, "name", file.Name)

	var results []ValidationResult
	passed := 0
	failed := 0
	violations := 0
	warnings := 0

	for _, rule := range file.EnabledRules() {
		result, err := e.executeRule(ctx, rule, building)
		if err != nil {
			if ctx.Err() != nil {
				return nil, &TimeoutError{
					RuleSetID: file.MCPID,
					RuleID:    rule.RuleID,
					Timeout:   e.config.ValidationTimeout,
				}
			}
			e.logger.Error("rule execution failed",
				"mcp_id", file.MCPID,
				"rule_id", rule.RuleID,
				"error", err,
			)
			continue
		}

		results = append(results, *result)
		if result.Passed {
			passed++
		} else {
			failed++
		}
		violations += len(result.Violations)
		warnings += result.WarningCount()

		if e.metrics != nil {
			e.metrics.RecordRuleEvaluation(string(rule.Category), result.Passed)
			for _, v := range result.Violations {
				e.metrics.RecordViolation(string(v.Severity), string(v.Category))
			}
		}
	}

	return &MCPValidationReport{
		MCPID:           file.MCPID,
		MCPName:         file.Name,
		Jurisdiction:    file.Jurisdiction,
		ValidationDate:  time.Now(),
		TotalRules:      len(results),
		PassedRules:     passed,
		FailedRules:     failed,
		TotalViolations: violations,
		TotalWarnings:   warnings,
		Results:         results,
	}, nil
}

// executeRule runs one rule: conditions narrow the object set, actions
// produce violations and calculations. Top-level conditions chain as AND.
func (e *RuleEngine) executeRule(ctx context.Context, rule *ast.MCPRule, building *model.BuildingModel) (*ValidationResult, error) {
	start := time.Now()

	ruleCtx, cancel := context.WithTimeout(ctx, e.config.RuleTimeout)
	defer cancel()

	matched := building.Objects
	for _, condition := range rule.Conditions {
		var err error
		matched, err = e.evaluator.Evaluate(ruleCtx, condition, matched)
		if err != nil {
			if ruleCtx.Err() != nil {
				return nil, &TimeoutError{RuleID: rule.RuleID, Timeout: e.config.RuleTimeout}
			}
			return nil, &RuleError{RuleID: rule.RuleID, Cause: err}
		}
	}

	ectx := &RuleExecutionContext{
		Model:          building,
		Rule:           rule,
		MatchedObjects: matched,
		Calculations:   make(map[string]Calculation),
	}

	violations, calculations := e.executor.Execute(ectx)

	result := &ValidationResult{
		RuleID:        rule.RuleID,
		RuleName:      rule.Name,
		Category:      rule.Category,
		Violations:    violations,
		Calculations:  calculations,
		ExecutionTime: time.Since(start),
	}
	result.Passed = result.ErrorCount() == 0
	return result, nil
}

// ValidateRuleSetFile loads and validates a rule set, returning every
// problem as a descriptive string. An empty slice means the file is valid.
func (e *RuleEngine) ValidateRuleSetFile(ctx context.Context, ref string) []string {
	data, err := e.source.Load(ctx, ref)
	if err != nil {
		return []string{fmt.Sprintf("file loading error: %v", err)}
	}

	return e.validator.ValidateBytes(data, ref)
}

// InvalidateRuleSet evicts one rule set from the cache so the next load
// re-reads it from the source. Returns true if an entry was evicted.
func (e *RuleEngine) InvalidateRuleSet(ref string) bool {
	evicted := e.cache.Delete(ref)
	if evicted {
		e.logger.Info("rule set cache entry evicted", "ref", ref)
		if e.metrics != nil {
			e.metrics.SetCacheSize(e.cache.Len())
		}
	}
	return evicted
}

// ClearCache evicts all cached rule sets.
func (e *RuleEngine) ClearCache() {
	e.cache.Clear()
	if e.metrics != nil {
		e.metrics.SetCacheSize(0)
	}
	e.logger.Info("rule set cache cleared")
}

// CachedRuleSets returns the references of all cached rule sets.
func (e *RuleEngine) CachedRuleSets() []string {
	return e.cache.Refs()
}

// GetPerformanceMetrics returns a snapshot of the engine's counters.
func (e *RuleEngine) GetPerformanceMetrics() PerformanceMetrics {
	e.perfMu.Lock()
	defer e.perfMu.Unlock()

	avg := time.Duration(0)
	if e.totalValidations > 0 {
		avg = e.totalExecutionTime / time.Duration(e.totalValidations)
	}
	return PerformanceMetrics{
		TotalValidations:     e.totalValidations,
		TotalExecutionTime:   e.totalExecutionTime,
		AverageExecutionTime: avg,
		CacheSize:            e.cache.Len(),
	}
}

// GetJurisdictionInfo returns jurisdiction match diagnostics for a building.
func (e *RuleEngine) GetJurisdictionInfo(building *model.BuildingModel) map[string]any {
	if e.matcher == nil {
		return map[string]any{"error": "jurisdiction matcher not configured"}
	}
	return e.matcher.GetJurisdictionInfo(building)
}

func (e *RuleEngine) recordValidation(elapsed time.Duration) {
	e.perfMu.Lock()
	defer e.perfMu.Unlock()
	e.totalValidations++
	e.totalExecutionTime += elapsed
}

// generateRecommendations summarizes violations by category into advice.
func generateRecommendations(reports []MCPValidationReport) []string {
	categoryViolations := make(map[ast.RuleCategory]int)
	var categoryOrder []ast.RuleCategory

	for _, report := range reports {
		for _, result := range report.Results {
			for _, violation := range result.Violations {
				if _, seen := categoryViolations[violation.Category]; !seen {
					categoryOrder = append(categoryOrder, violation.Category)
				}
				categoryViolations[violation.Category]++
			}
		}
	}

	var recommendations []string
	for _, category := range categoryOrder {
		count := categoryViolations[category]
		if count > 5 {
			recommendations = append(recommendations, fmt.Sprintf(
				"High number of %s violations (%d). Consider comprehensive review.", category, count))
		} else if count > 0 {
			recommendations = append(recommendations, fmt.Sprintf(
				"Address %d %s violations to improve compliance.", count, category))
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Building design appears to meet most code requirements.")
	}
	return recommendations
}
