package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arxhq/codecheck/pkg/cli"
	"arxhq/codecheck/pkg/engine"
)

var validateFlags struct {
	model    string
	ruleSets []string
	format   string
	strict   bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a building model against code rule sets",
	Long: `Validate a building model against building code rule sets.

When no rule sets are given, the applicable codes are auto-detected from
the building's location metadata (country, state) and resolved through
the configured rule-set source.

Examples:
  # Auto-detect applicable codes from building metadata
  codecheck validate --model building.json

  # Validate against specific rule sets
  codecheck validate --model building.json --rule-set us_ibc_2021.json --rule-set us_nec_2023.json

  # JSON report for CI/CD
  codecheck validate --model building.json --format json

  # Fail on any violation, not just errors
  codecheck validate --model building.json --strict`,
	RunE: validateBuilding,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.model, "model", "m", "", "building model file (JSON or YAML)")
	validateCmd.Flags().StringArrayVarP(&validateFlags.ruleSets, "rule-set", "r", nil, "rule set reference (repeatable; default: auto-detect)")
	validateCmd.Flags().StringVar(&validateFlags.format, "format", "text", "output format: text, json")
	validateCmd.Flags().BoolVar(&validateFlags.strict, "strict", false, "fail on warnings as well as errors")
	validateCmd.MarkFlagRequired("model")
}

func validateBuilding(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewConfigError("logging", err.Error())
	}

	building, err := loadBuildingModel(validateFlags.model)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	src, cleanup, err := newRuleSource(cfg, logger)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	defer cleanup()

	eng, err := newEngine(cfg, src, logger)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	ctx := cli.SetupSignalHandler()
	report, err := eng.ValidateBuildingModel(ctx, building, validateFlags.ruleSets)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	if validateFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, report); err != nil {
			return cli.NewCommandError("validate", err)
		}
	} else {
		printComplianceReport(report)
	}

	if report.CriticalViolations > 0 {
		return cli.NewCommandError("validate",
			fmt.Errorf("%d critical violations", report.CriticalViolations))
	}
	if validateFlags.strict && report.TotalWarnings > 0 {
		return cli.NewCommandError("validate",
			fmt.Errorf("%d warnings (strict mode)", report.TotalWarnings))
	}
	return nil
}

func printComplianceReport(report *engine.ComplianceReport) {
	fmt.Printf("Building: %s (%s)\n", report.BuildingName, report.BuildingID)
	fmt.Printf("Compliance score: %.1f%%\n\n", report.OverallComplianceScore)

	for _, vr := range report.ValidationReports {
		fmt.Printf("%s (%s): %d/%d rules passed\n",
			vr.MCPName, vr.MCPID, vr.PassedRules, vr.TotalRules)

		for _, result := range vr.Results {
			if result.Passed && len(result.Violations) == 0 {
				continue
			}
			for _, v := range result.Violations {
				marker := "✗"
				if v.Severity == "WARNING" {
					marker = "⚠"
				}
				fmt.Printf("  %s [%s] %s: %s", marker, v.Severity, v.RuleID, v.Message)
				if v.ElementID != "" {
					fmt.Printf(" (%s %s)", v.ElementType, v.ElementID)
				}
				fmt.Println()
			}
		}

		for _, result := range vr.Results {
			for _, calc := range result.Calculations {
				fmt.Printf("  = %s: %.2f %s\n", calc.Description, calc.Result, calc.Unit)
			}
		}
		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d violation(s), %d warning(s), %d critical\n",
		report.TotalViolations, report.TotalWarnings, report.CriticalViolations)
	for _, rec := range report.Recommendations {
		fmt.Printf("  • %s\n", rec)
	}
}
