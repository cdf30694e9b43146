package jurisdiction

// CodeMapping lists the rule sets a country mandates: base codes that
// always apply, state-specific overlays, and structural codes that apply
// at reduced confidence.
type CodeMapping struct {
	BaseCodes       []string            `json:"base_codes" yaml:"base_codes"`
	States          map[string][]string `json:"states,omitempty" yaml:"states,omitempty"`
	StructuralCodes []string            `json:"structural_codes,omitempty" yaml:"structural_codes,omitempty"`
}

// defaultMappings are the built-in country mappings. Deployments extend or
// override them through LoadMappings.
func defaultMappings() map[string]CodeMapping {
	return map[string]CodeMapping{
		"US": {
			BaseCodes: []string{"us_ibc_2021", "us_nec_2023"},
			States: map[string][]string{
				"CA": {"us_ca_title24"},
				"NY": {"us_ny_building_code"},
				"TX": {"us_tx_building_code"},
				"FL": {"us_fl_building_code"},
			},
		},
		"EU": {
			BaseCodes:       []string{"eu_cpr_305"},
			StructuralCodes: []string{"eu_eurocode_1", "eu_eurocode_2"},
		},
		"CA": {
			BaseCodes: []string{"ca_nbc_2020"},
		},
		"UK": {
			BaseCodes: []string{"uk_building_regs_2010"},
		},
	}
}

// mergeMappings overlays configured mappings over the defaults. A country
// present in the overlay replaces the default entry wholesale.
func mergeMappings(base, overlay map[string]CodeMapping) map[string]CodeMapping {
	merged := make(map[string]CodeMapping, len(base)+len(overlay))
	for country, mapping := range base {
		merged[country] = mapping
	}
	for country, mapping := range overlay {
		merged[country] = mapping
	}
	return merged
}
