package jurisdiction

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"arxhq/codecheck/pkg/model"
)

// MatchLevel describes how specific a jurisdiction match is.
type MatchLevel string

const (
	LevelCountry    MatchLevel = "country"
	LevelState      MatchLevel = "state"
	LevelStructural MatchLevel = "structural"
	LevelFallback   MatchLevel = "fallback"
)

// Location is the jurisdiction-relevant part of a building's metadata.
type Location struct {
	Country string
	State   string
	City    string
}

// Match is one applicable rule set with the confidence of the match.
type Match struct {
	Code       string     `json:"code"`
	Confidence float64    `json:"confidence"`
	Level      MatchLevel `json:"level"`
}

// metadataLocationKeys are checked in order when extracting a location
// from building metadata.
var metadataLocationKeys = []string{"location", "address", "site"}

// fallbackCountry is assumed when a building carries no location metadata.
const fallbackCountry = "US"

// Matcher resolves building locations to applicable code rule sets.
type Matcher struct {
	logger   *slog.Logger
	mappings map[string]CodeMapping

	// available restricts matches to rule sets that actually exist.
	// A nil map means availability is not checked.
	available map[string]bool
}

// NewMatcher creates a matcher with the built-in country mappings.
func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		logger:   logger,
		mappings: defaultMappings(),
	}
}

// LoadMappings overlays country mappings from a JSON or YAML file over the
// built-in defaults. A country present in the file replaces its default.
func (m *Matcher) LoadMappings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read jurisdiction mappings %q: %w", path, err)
	}

	var overlay map[string]CodeMapping
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse jurisdiction mappings %q: %w", path, err)
	}

	m.mappings = mergeMappings(m.mappings, overlay)
	m.logger.Info("jurisdiction mappings loaded",
		"path", path,
		"countries", len(m.mappings),
	)
	return nil
}

// SetAvailableCodes restricts matching to the given rule-set ids. Callers
// typically build this index by scanning their rule-set source once at
// startup. Passing nil removes the restriction.
func (m *Matcher) SetAvailableCodes(codes []string) {
	if codes == nil {
		m.available = nil
		return
	}
	available := make(map[string]bool, len(codes))
	for _, code := range codes {
		available[code] = true
	}
	m.available = available
}

// MatchJurisdictions returns the rule sets applicable at a location, most
// general first: country base codes at confidence 1.0, then US state codes
// at 1.0, then EU structural codes at 0.9. Codes missing from the
// availability index are dropped.
func (m *Matcher) MatchJurisdictions(loc Location) []Match {
	mapping, ok := m.mappings[loc.Country]
	if !ok {
		m.logger.Warn("no jurisdiction mapping for country", "country", loc.Country)
		return nil
	}

	var matches []Match
	for _, code := range mapping.BaseCodes {
		if m.isAvailable(code) {
			matches = append(matches, Match{Code: code, Confidence: 1.0, Level: LevelCountry})
		}
	}

	if loc.Country == "US" && loc.State != "" {
		for _, code := range mapping.States[loc.State] {
			if m.isAvailable(code) {
				matches = append(matches, Match{Code: code, Confidence: 1.0, Level: LevelState})
			}
		}
	}

	if loc.Country == "EU" {
		for _, code := range mapping.StructuralCodes {
			if m.isAvailable(code) {
				matches = append(matches, Match{Code: code, Confidence: 0.9, Level: LevelStructural})
			}
		}
	}

	return matches
}

// GetApplicableCodes returns the rule-set ids applicable to a building.
// Buildings without location metadata fall back to the US base codes so a
// validation always has something to run against.
func (m *Matcher) GetApplicableCodes(building *model.BuildingModel) []string {
	loc, found := extractLocation(building)
	if !found {
		m.logger.Warn("building has no location metadata, falling back to default country",
			"building_id", building.BuildingID,
			"country", fallbackCountry,
		)
		loc = Location{Country: fallbackCountry}
	}

	matches := m.MatchJurisdictions(loc)
	codes := make([]string, 0, len(matches))
	for _, match := range matches {
		codes = append(codes, match.Code)
	}
	return codes
}

// ValidateJurisdictionMatch reports whether a rule set applies to the
// building.
func (m *Matcher) ValidateJurisdictionMatch(building *model.BuildingModel, code string) bool {
	for _, applicable := range m.GetApplicableCodes(building) {
		if applicable == code {
			return true
		}
	}
	return false
}

// GetJurisdictionInfo returns match diagnostics for a building: the
// extracted location, whether a fallback was used, and every match with
// its confidence and level.
func (m *Matcher) GetJurisdictionInfo(building *model.BuildingModel) map[string]any {
	loc, found := extractLocation(building)
	fallback := !found
	if fallback {
		loc = Location{Country: fallbackCountry}
	}

	matches := m.MatchJurisdictions(loc)
	return map[string]any{
		"country":  loc.Country,
		"state":    loc.State,
		"city":     loc.City,
		"fallback": fallback,
		"matches":  matches,
	}
}

// extractLocation reads the building's location from metadata, checking
// the location, address, and site keys in order. The value must be a map
// with at least a country entry.
func extractLocation(building *model.BuildingModel) (Location, bool) {
	if building == nil || building.Metadata == nil {
		return Location{}, false
	}

	for _, key := range metadataLocationKeys {
		raw, ok := building.Metadata[key]
		if !ok {
			continue
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		country, _ := fields["country"].(string)
		if country == "" {
			continue
		}
		state, _ := fields["state"].(string)
		city, _ := fields["city"].(string)
		return Location{Country: country, State: state, City: city}, true
	}

	return Location{}, false
}

func (m *Matcher) isAvailable(code string) bool {
	if m.available == nil {
		return true
	}
	return m.available[code]
}
