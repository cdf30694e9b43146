package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"arxhq/codecheck/pkg/cli"
	"arxhq/codecheck/pkg/jurisdiction"
)

var jurisdictionsFlags struct {
	model  string
	format string
}

var jurisdictionsCmd = &cobra.Command{
	Use:   "jurisdictions",
	Short: "Show which code rule sets apply to a building",
	Long: `Show the jurisdiction match for a building model.

The building's location metadata (country, state, city) is resolved to
the applicable code rule sets, each with a confidence and match level.
Buildings without location metadata fall back to US base codes.

Examples:
  # Show the jurisdiction match
  codecheck jurisdictions --model building.json

  # JSON output
  codecheck jurisdictions --model building.json --format json`,
	RunE: showJurisdictions,
}

func init() {
	rootCmd.AddCommand(jurisdictionsCmd)

	jurisdictionsCmd.Flags().StringVarP(&jurisdictionsFlags.model, "model", "m", "", "building model file (JSON or YAML)")
	jurisdictionsCmd.Flags().StringVar(&jurisdictionsFlags.format, "format", "text", "output format: text, json")
	jurisdictionsCmd.MarkFlagRequired("model")
}

func showJurisdictions(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return cli.NewConfigError("logging", err.Error())
	}

	building, err := loadBuildingModel(jurisdictionsFlags.model)
	if err != nil {
		return cli.NewCommandError("jurisdictions", err)
	}

	src, cleanup, err := newRuleSource(cfg, logger)
	if err != nil {
		return cli.NewCommandError("jurisdictions", err)
	}
	defer cleanup()

	matcher, err := newMatcher(cfg, src, logger)
	if err != nil {
		return cli.NewCommandError("jurisdictions", err)
	}

	info := matcher.GetJurisdictionInfo(building)

	if jurisdictionsFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, info)
	}

	fmt.Printf("Building: %s (%s)\n", building.BuildingName, building.BuildingID)
	fmt.Printf("Country: %v", info["country"])
	if state, _ := info["state"].(string); state != "" {
		fmt.Printf(", State: %s", state)
	}
	if city, _ := info["city"].(string); city != "" {
		fmt.Printf(", City: %s", city)
	}
	fmt.Println()
	if fallback, _ := info["fallback"].(bool); fallback {
		fmt.Println("⚠  No location metadata found, using fallback country")
	}

	matches, _ := info["matches"].([]jurisdiction.Match)
	if len(matches) == 0 {
		fmt.Println("No applicable code rule sets.")
		return nil
	}
	fmt.Println("\nApplicable code rule sets:")
	for _, match := range matches {
		fmt.Printf("  %s (confidence %.1f, %s level)\n", match.Code, match.Confidence, match.Level)
	}
	return nil
}
