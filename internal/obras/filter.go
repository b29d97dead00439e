package obras

import "strings"

// All is the wildcard selector value.
const All = "All"

// Filter is the active selector state. Categorical fields match everything
// when empty or All; Search is a case-insensitive substring of the name.
type Filter struct {
	Locality string `json:"localidad,omitempty"`
	Organism string `json:"organismo,omitempty"`
	Type     string `json:"tipo,omitempty"`
	Search   string `json:"q,omitempty"`
}

// IsWildcard reports whether v places no constraint on its field.
func IsWildcard(v string) bool {
	return v == "" || v == All
}

// IsZero reports whether the filter matches every record.
func (f Filter) IsZero() bool {
	return IsWildcard(f.Locality) && IsWildcard(f.Organism) && IsWildcard(f.Type) && f.Search == ""
}

// Matches reports whether the record satisfies every condition of the filter.
func (f Filter) Matches(ft Feature) bool {
	return f.matches(ft, strings.ToLower(f.Search))
}

func (f Filter) matches(ft Feature, search string) bool {
	if !IsWildcard(f.Locality) && ft.Locality != f.Locality {
		return false
	}
	if !IsWildcard(f.Organism) && ft.Organism != f.Organism {
		return false
	}
	if !IsWildcard(f.Type) && ft.Type != f.Type {
		return false
	}

	return strings.Contains(strings.ToLower(ft.Name), search)
}

// FilterFeatures returns the records matching f in their original order.
// The input is never modified; the result is never nil.
func FilterFeatures(features []Feature, f Filter) []Feature {
	search := strings.ToLower(f.Search)

	out := make([]Feature, 0, len(features))
	for _, ft := range features {
		if f.matches(ft, search) {
			out = append(out, ft)
		}
	}

	return out
}
