package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"arxhq/codecheck/pkg/cli"
	"arxhq/codecheck/pkg/mcp/validator"
)

var lintFlags struct {
	file   string
	dir    string
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate rule-set files",
	Long: `Validate MCP rule-set files for syntax and structural errors.

The lint command parses rule sets and performs comprehensive validation:
  - JSON/YAML syntax validation
  - Rule structure validation (required fields, unique rule ids)
  - Condition validation (condition types, operators, spatial properties)
  - Action validation (action types, severities, formula references)

Examples:
  # Lint single file
  codecheck lint --file us_ibc_2021.json

  # Lint directory
  codecheck lint --dir rulesets/

  # JSON output for CI/CD
  codecheck lint --file us_ibc_2021.json --format json`,
	RunE: lintRuleSets,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "rule-set file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of rule-set files")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// LintResult is the validation outcome for a single rule-set file.
type LintResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

func lintRuleSets(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string

	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}

	if lintFlags.dir != "" {
		for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(lintFlags.dir, pattern))
			if err != nil {
				return fmt.Errorf("failed to list rule-set files: %w", err)
			}
			files = append(files, matches...)
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("no rule-set files found")
	}

	v := validator.New()
	results := make([]LintResult, 0, len(files))
	for _, file := range files {
		problems := v.ValidateFile(file)
		results = append(results, LintResult{
			File:     file,
			Valid:    len(problems) == 0,
			Problems: problems,
		})
	}

	if lintFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		if err := formatter.FormatTo(os.Stdout, results); err != nil {
			return err
		}
	} else {
		printLintResults(results)
	}

	for _, result := range results {
		if !result.Valid {
			return cli.NewCommandError("lint", fmt.Errorf("validation failed"))
		}
	}
	return nil
}

func printLintResults(results []LintResult) {
	totalProblems := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if result.Valid {
			fmt.Println("✓ Syntax valid")
			fmt.Println("✓ All rules have valid conditions and actions")
		}
		for _, problem := range result.Problems {
			fmt.Printf("✗ Error: %s\n", problem)
			totalProblems++
		}
		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d file(s), %d error(s)\n", len(results), totalProblems)
}
