package jurisdiction

import (
	"os"
	"path/filepath"
	"testing"

	"arxhq/codecheck/pkg/model"
)

func buildingAt(metadata map[string]any) *model.BuildingModel {
	return &model.BuildingModel{
		BuildingID:   "bldg-1",
		BuildingName: "Test Tower",
		Metadata:     metadata,
	}
}

func assertCodes(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("codes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("codes = %v, want %v", got, want)
		}
	}
}

func TestMatchJurisdictions(t *testing.T) {
	m := NewMatcher(nil)

	tests := []struct {
		name string
		loc  Location
		want []string
	}{
		{
			name: "US country only",
			loc:  Location{Country: "US"},
			want: []string{"us_ibc_2021", "us_nec_2023"},
		},
		{
			name: "US with state appends state codes",
			loc:  Location{Country: "US", State: "CA"},
			want: []string{"us_ibc_2021", "us_nec_2023", "us_ca_title24"},
		},
		{
			name: "US with unmapped state",
			loc:  Location{Country: "US", State: "WY"},
			want: []string{"us_ibc_2021", "us_nec_2023"},
		},
		{
			name: "EU includes structural codes",
			loc:  Location{Country: "EU"},
			want: []string{"eu_cpr_305", "eu_eurocode_1", "eu_eurocode_2"},
		},
		{
			name: "state codes only apply to the US",
			loc:  Location{Country: "CA", State: "ON"},
			want: []string{"ca_nbc_2020"},
		},
		{
			name: "unknown country",
			loc:  Location{Country: "ZZ"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := m.MatchJurisdictions(tt.loc)
			codes := make([]string, 0, len(matches))
			for _, match := range matches {
				codes = append(codes, match.Code)
			}
			assertCodes(t, codes, tt.want)
		})
	}
}

func TestMatchConfidenceAndLevel(t *testing.T) {
	m := NewMatcher(nil)

	matches := m.MatchJurisdictions(Location{Country: "US", State: "CA"})
	for _, match := range matches {
		switch match.Code {
		case "us_ca_title24":
			if match.Confidence != 1.0 || match.Level != LevelState {
				t.Errorf("state match = %+v", match)
			}
		default:
			if match.Confidence != 1.0 || match.Level != LevelCountry {
				t.Errorf("country match = %+v", match)
			}
		}
	}

	for _, match := range m.MatchJurisdictions(Location{Country: "EU"}) {
		if match.Level == LevelStructural && match.Confidence != 0.9 {
			t.Errorf("structural match confidence = %v, want 0.9", match.Confidence)
		}
	}
}

func TestGetApplicableCodesMetadataKeyOrder(t *testing.T) {
	m := NewMatcher(nil)

	// "location" wins over "address" when both are present.
	b := buildingAt(map[string]any{
		"address":  map[string]any{"country": "UK"},
		"location": map[string]any{"country": "CA"},
	})
	assertCodes(t, m.GetApplicableCodes(b), []string{"ca_nbc_2020"})

	// "address" is consulted when "location" is absent.
	b = buildingAt(map[string]any{
		"address": map[string]any{"country": "UK"},
	})
	assertCodes(t, m.GetApplicableCodes(b), []string{"uk_building_regs_2010"})

	// A malformed location entry falls through to the next key.
	b = buildingAt(map[string]any{
		"location": "somewhere",
		"site":     map[string]any{"country": "UK"},
	})
	assertCodes(t, m.GetApplicableCodes(b), []string{"uk_building_regs_2010"})
}

func TestGetApplicableCodesFallback(t *testing.T) {
	m := NewMatcher(nil)

	// No metadata at all falls back to US base codes.
	assertCodes(t, m.GetApplicableCodes(buildingAt(nil)),
		[]string{"us_ibc_2021", "us_nec_2023"})

	// Location without a country is treated the same way.
	b := buildingAt(map[string]any{
		"location": map[string]any{"city": "Springfield"},
	})
	assertCodes(t, m.GetApplicableCodes(b),
		[]string{"us_ibc_2021", "us_nec_2023"})
}

func TestSetAvailableCodes(t *testing.T) {
	m := NewMatcher(nil)
	m.SetAvailableCodes([]string{"us_ibc_2021", "us_ca_title24"})

	matches := m.MatchJurisdictions(Location{Country: "US", State: "CA"})
	codes := make([]string, 0, len(matches))
	for _, match := range matches {
		codes = append(codes, match.Code)
	}
	assertCodes(t, codes, []string{"us_ibc_2021", "us_ca_title24"})

	// Passing nil removes the restriction.
	m.SetAvailableCodes(nil)
	matches = m.MatchJurisdictions(Location{Country: "US", State: "CA"})
	if len(matches) != 3 {
		t.Errorf("matches after reset = %d, want 3", len(matches))
	}
}

func TestValidateJurisdictionMatch(t *testing.T) {
	m := NewMatcher(nil)
	b := buildingAt(map[string]any{
		"location": map[string]any{"country": "US", "state": "CA"},
	})

	if !m.ValidateJurisdictionMatch(b, "us_ca_title24") {
		t.Error("us_ca_title24 should apply to a CA building")
	}
	if m.ValidateJurisdictionMatch(b, "uk_building_regs_2010") {
		t.Error("uk_building_regs_2010 should not apply to a US building")
	}
}

func TestGetJurisdictionInfo(t *testing.T) {
	m := NewMatcher(nil)

	info := m.GetJurisdictionInfo(buildingAt(map[string]any{
		"location": map[string]any{"country": "US", "state": "NY", "city": "New York"},
	}))
	if info["country"] != "US" || info["state"] != "NY" || info["city"] != "New York" {
		t.Errorf("info = %v", info)
	}
	if info["fallback"] != false {
		t.Error("fallback should be false for located buildings")
	}

	info = m.GetJurisdictionInfo(buildingAt(nil))
	if info["fallback"] != true || info["country"] != "US" {
		t.Errorf("fallback info = %v", info)
	}
}

func TestLoadMappingsOverlay(t *testing.T) {
	content := `
US:
  base_codes: [us_ibc_2024]
AU:
  base_codes: [au_ncc_2022]
`
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	m := NewMatcher(nil)
	if err := m.LoadMappings(path); err != nil {
		t.Fatalf("LoadMappings() error: %v", err)
	}

	// The US entry is replaced wholesale: state overlays from the default
	// mapping are gone.
	matches := m.MatchJurisdictions(Location{Country: "US", State: "CA"})
	codes := make([]string, 0, len(matches))
	for _, match := range matches {
		codes = append(codes, match.Code)
	}
	assertCodes(t, codes, []string{"us_ibc_2024"})

	// New countries are added, untouched defaults remain.
	assertCodes(t, m.GetApplicableCodes(buildingAt(map[string]any{
		"location": map[string]any{"country": "AU"},
	})), []string{"au_ncc_2022"})
	assertCodes(t, m.GetApplicableCodes(buildingAt(map[string]any{
		"location": map[string]any{"country": "UK"},
	})), []string{"uk_building_regs_2010"})
}

func TestLoadMappingsMissingFile(t *testing.T) {
	m := NewMatcher(nil)
	if err := m.LoadMappings(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing mappings file")
	}
}
