package models

// NumericRange is an inclusive [Min, Max] bound over a numeric column.
type NumericRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether a coerced value lies in the range. A missing value
// cannot be known to lie in range, so it fails.
func (r *NumericRange) Contains(v *float64) bool {
	if v == nil {
		return false
	}
	return *v >= r.Min && *v <= r.Max
}

// FilterParams holds every manual filter parameter supplied by the UI layer.
// A nil range or empty selection means "unfiltered", not "exclude everything".
type FilterParams struct {
	Universities []string `json:"universities"`
	Types        []string `json:"types"`
	Licenses     []string `json:"licenses"`
	Languages    []string `json:"languages"`

	Threshold *NumericRange `json:"threshold"`
	Stars     *NumericRange `json:"stars"`
	Forks     *NumericRange `json:"forks"`
	Downloads *NumericRange `json:"downloads"`

	Search string `json:"search"`
}

// Clone returns a deep copy so sessions never share parameter state.
func (p *FilterParams) Clone() *FilterParams {
	if p == nil {
		return nil
	}
	out := &FilterParams{
		Universities: append([]string(nil), p.Universities...),
		Types:        append([]string(nil), p.Types...),
		Licenses:     append([]string(nil), p.Licenses...),
		Languages:    append([]string(nil), p.Languages...),
		Search:       p.Search,
	}
	if p.Threshold != nil {
		r := *p.Threshold
		out.Threshold = &r
	}
	if p.Stars != nil {
		r := *p.Stars
		out.Stars = &r
	}
	if p.Forks != nil {
		r := *p.Forks
		out.Forks = &r
	}
	if p.Downloads != nil {
		r := *p.Downloads
		out.Downloads = &r
	}
	return out
}

// ChatResult is the opaque row-set produced by the external chat collaborator.
// The core only interprets row identity: ids when present, positions within the
// manual-filtered view as a degraded fallback.
type ChatResult struct {
	IDs       []int64 `json:"ids"`
	Positions []int   `json:"positions,omitempty"`
}

// Empty reports whether the result carries no rows at all.
func (c *ChatResult) Empty() bool {
	return c == nil || (len(c.IDs) == 0 && len(c.Positions) == 0)
}

// HasIDs reports whether the result exposes an id column.
func (c *ChatResult) HasIDs() bool {
	return c != nil && len(c.IDs) > 0
}
