package config

// presets are layered over the defaults of NewConfig, which correspond to
// the standard configuration.
var presets = map[string]map[string]interface{}{
	"fast": {
		"matching.type":                     "randomgpa",
		"matching.aggressive_random_levels": 3,
		"matching.edge_rating":              "expansionstar2",
		"coarsening.stop_rule":              "simple",
	},
	"eco": {
		"matching.type":                     "randomgpa",
		"matching.aggressive_random_levels": 1,
		"matching.edge_rating":              "expansionstar2",
		"coarsening.stop_rule":              "simple",
	},
	"strong": {
		"matching.type":        "gpa",
		"matching.edge_rating": "expansionstar2",
		"coarsening.stop_rule": "strong",
	},
	"fastsocial": {
		"matching.type":                   "random",
		"matching.edge_rating":            "weight",
		"coarsening.stop_rule":            "multiplek",
		"coarsening.num_vert_stop_factor": 20,
	},
	"ecosocial": {
		"matching.type":                   "random",
		"matching.edge_rating":            "expansionstar2",
		"coarsening.stop_rule":            "multiplek",
		"coarsening.num_vert_stop_factor": 20,
	},
	"strongsocial": {
		"matching.type":                   "gpa",
		"matching.edge_rating":            "expansionstar2",
		"coarsening.stop_rule":            "multiplek",
		"coarsening.num_vert_stop_factor": 50,
	},
}

// PresetNames lists the accepted preconfiguration names.
func PresetNames() []string {
	return []string{"fast", "fastsocial", "eco", "ecosocial", "strong", "strongsocial"}
}
