package obras

import "sort"

// Facets holds the distinct selectable values of each categorical field.
type Facets struct {
	Localities []string `json:"localidades"`
	Organisms  []string `json:"organismos"`
	Types      []string `json:"tipos"`
}

// Option is a single selector entry.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DeriveFacets collects the distinct locality, organism and type values across
// the full collection, sorted ascending. Empty values and noData are excluded.
func DeriveFacets(features []Feature, noData string) Facets {
	loc := make(map[string]struct{})
	org := make(map[string]struct{})
	typ := make(map[string]struct{})

	for _, f := range features {
		add(loc, f.Locality, noData)
		add(org, f.Organism, noData)
		add(typ, f.Type, noData)
	}

	return Facets{
		Localities: sortedKeys(loc),
		Organisms:  sortedKeys(org),
		Types:      sortedKeys(typ),
	}
}

// Options returns selector entries with the wildcard first.
func Options(values []string, allLabel string) []Option {
	if allLabel == "" {
		allLabel = All
	}

	opts := make([]Option, 0, len(values)+1)
	opts = append(opts, Option{Value: All, Label: allLabel})
	for _, v := range values {
		opts = append(opts, Option{Value: v, Label: v})
	}

	return opts
}

func add(set map[string]struct{}, v, noData string) {
	if v == "" || v == noData {
		return
	}
	set[v] = struct{}{}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
