package cluster

// TaxonomyEntry maps a set of indicator keywords to a human-readable topic
// label.
type TaxonomyEntry struct {
	Key      string
	Label    string
	Keywords []string
}

// DefaultLabel is used when no taxonomy entry overlaps a cluster's keywords.
const DefaultLabel = "General Discussion"

// DefaultTaxonomy is the built-in topic taxonomy for the monitored
// communities.
func DefaultTaxonomy() []TaxonomyEntry {
	return []TaxonomyEntry{
		{
			Key:      "ev_adoption",
			Label:    "EV Adoption",
			Keywords: []string{"579ev", "electric", "battery", "charging", "range", "emission", "350kw"},
		},
		{
			Key:      "driver_comfort",
			Label:    "Driver Comfort",
			Keywords: []string{"sleeper", "interior", "ergonomic", "seat", "comfort", "platinum", "cab"},
		},
		{
			Key:      "uptime_reliability",
			Label:    "Uptime & Reliability",
			Keywords: []string{"powertrain", "engine", "service", "dealer", "breakdown", "breaks", "repair", "uptime"},
		},
		{
			Key:      "model_demand",
			Label:    "Model Demand",
			Keywords: []string{"589", "579", "wait", "order", "backlog", "delivery", "availability", "model"},
		},
	}
}

// MatchLabel returns the taxonomy label whose indicator keywords overlap the
// cluster keywords the most. Earlier entries win ties; no overlap yields
// DefaultLabel.
func MatchLabel(taxonomy []TaxonomyEntry, keywords []string) string {
	kwSet := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		kwSet[k] = struct{}{}
	}
	bestLabel := DefaultLabel
	bestScore := 0
	for _, entry := range taxonomy {
		overlap := 0
		for _, k := range entry.Keywords {
			if _, ok := kwSet[k]; ok {
				overlap++
			}
		}
		if overlap > bestScore {
			bestScore = overlap
			bestLabel = entry.Label
		}
	}
	return bestLabel
}
