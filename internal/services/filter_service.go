package services

import (
	"strconv"
	"strings"

	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/juanis2112/repoexplorer/pkg/logger"
)

// Fallback slider maxima used when the threshold-gated sub-population is empty
// or a column has no coercible values.
const (
	defaultThresholdGate = 0.8
	fallbackMaxStars     = 5000
	fallbackMaxForks     = 100
	fallbackMaxDownloads = 1000
)

// searchableColumns are the fields the free-text search matches against.
var searchableColumns = []func(*models.Repository) string{
	func(r *models.Repository) string { return r.FullName },
	func(r *models.Repository) string { return r.Owner },
	func(r *models.Repository) string { return deref(r.Description) },
	func(r *models.Repository) string { return r.LanguageName() },
	func(r *models.Repository) string { return r.LicenseName() },
	func(r *models.Repository) string { return r.University },
	func(r *models.Repository) string { return floatAsString(r.AffiliationPrediction) },
}

// Predicate is a pure boolean filter over a repository row. Predicates depend
// only on row contents, which makes their composition order-independent.
type Predicate func(*models.Repository) bool

// FilterService builds predicates from manual filter parameters and composes
// them with the chat-derived filter into the displayed row-set.
type FilterService struct{}

func NewFilterService() *FilterService {
	return &FilterService{}
}

// CategoryPredicate keeps rows whose column value is among the selected
// values. An empty selection means "unfiltered" and yields no predicate.
func CategoryPredicate(get func(*models.Repository) string, selected []string) Predicate {
	if len(selected) == 0 {
		return nil
	}
	values := make(map[string]bool, len(selected))
	for _, v := range selected {
		values[v] = true
	}
	return func(r *models.Repository) bool {
		return values[get(r)]
	}
}

// RangePredicate keeps rows whose coerced value lies inside the inclusive
// range. Rows with missing values fail while the range is active.
func RangePredicate(get func(*models.Repository) *float64, bounds *models.NumericRange) Predicate {
	if bounds == nil {
		return nil
	}
	return func(r *models.Repository) bool {
		return bounds.Contains(get(r))
	}
}

// SearchPredicate keeps rows where any searchable column contains the term,
// case-insensitive. An empty term yields no predicate.
func SearchPredicate(term string) Predicate {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	return func(r *models.Repository) bool {
		for _, get := range searchableColumns {
			if strings.Contains(strings.ToLower(get(r)), term) {
				return true
			}
		}
		return false
	}
}

// Predicates expands manual filter parameters into the active predicate set.
func (s *FilterService) Predicates(params *models.FilterParams) []Predicate {
	if params == nil {
		return nil
	}
	candidates := []Predicate{
		CategoryPredicate(func(r *models.Repository) string { return r.University }, params.Universities),
		CategoryPredicate((*models.Repository).TypeName, params.Types),
		CategoryPredicate((*models.Repository).LicenseName, params.Licenses),
		CategoryPredicate((*models.Repository).LanguageName, params.Languages),
		RangePredicate(func(r *models.Repository) *float64 { return r.AffiliationPrediction }, params.Threshold),
		RangePredicate(func(r *models.Repository) *float64 { return r.Stars }, params.Stars),
		RangePredicate(func(r *models.Repository) *float64 { return r.Forks }, params.Forks),
		RangePredicate(func(r *models.Repository) *float64 { return r.ReleaseDownloads }, params.Downloads),
		SearchPredicate(params.Search),
	}

	var active []Predicate
	for _, p := range candidates {
		if p != nil {
			active = append(active, p)
		}
	}
	return active
}

// Apply filters a row-set through every predicate. The base slice is never
// mutated; the result is a fresh view.
func (s *FilterService) Apply(rows []*models.Repository, predicates []Predicate) []*models.Repository {
	result := make([]*models.Repository, 0, len(rows))
	for _, row := range rows {
		keep := true
		for _, p := range predicates {
			if !p(row) {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, row)
		}
	}
	return result
}

// Compose produces the displayed row-set: every active manual predicate, then
// an intersection with the chat result when one is available and non-empty.
// Any chat adapter failure degrades to manual-only filtering.
func (s *FilterService) Compose(rows []*models.Repository, params *models.FilterParams, chat ChatAdapter) []*models.Repository {
	result := s.Apply(rows, s.Predicates(params))

	if chat == nil {
		return result
	}
	chatResult, err := chat.Result()
	if err != nil {
		logger.WithError(err).Debugf("Chat filter unavailable, using manual filters only")
		return result
	}
	if chatResult.Empty() {
		return result
	}

	if chatResult.HasIDs() {
		ids := make(map[int64]bool, len(chatResult.IDs))
		for _, id := range chatResult.IDs {
			ids[id] = true
		}
		intersection := make([]*models.Repository, 0, len(result))
		for _, row := range result {
			if ids[row.ID] {
				intersection = append(intersection, row)
			}
		}
		return intersection
	}

	// Degraded fallback for collaborators without an id column: match by row
	// position within the manual-filtered view.
	logger.Warnf("Chat result carries no ids, falling back to positional matching")
	positions := make(map[int]bool, len(chatResult.Positions))
	for _, pos := range chatResult.Positions {
		positions[pos] = true
	}
	intersection := make([]*models.Repository, 0, len(chatResult.Positions))
	for i, row := range result {
		if positions[i] {
			intersection = append(intersection, row)
		}
	}
	return intersection
}

// DefaultParams computes the configured default filter parameters from the
// base table. Numeric maxima come from the sub-population passing the default
// affiliation threshold; fixed constants cover the empty case.
func (s *FilterService) DefaultParams(rows []*models.Repository) *models.FilterParams {
	gated := s.Apply(rows, []Predicate{
		RangePredicate(
			func(r *models.Repository) *float64 { return r.AffiliationPrediction },
			&models.NumericRange{Min: defaultThresholdGate, Max: 1},
		),
	})

	return &models.FilterParams{
		Threshold: &models.NumericRange{Min: defaultThresholdGate, Max: 1},
		Stars:     &models.NumericRange{Min: 0, Max: maxObserved(gated, func(r *models.Repository) *float64 { return r.Stars }, fallbackMaxStars)},
		Forks:     &models.NumericRange{Min: 0, Max: maxObserved(gated, func(r *models.Repository) *float64 { return r.Forks }, fallbackMaxForks)},
		Downloads: &models.NumericRange{Min: 0, Max: maxObserved(gated, func(r *models.Repository) *float64 { return r.ReleaseDownloads }, fallbackMaxDownloads)},
	}
}

// maxObserved returns the maximum coercible value of a column over a row-set,
// truncated to a whole number, or the fallback when nothing is observed.
func maxObserved(rows []*models.Repository, get func(*models.Repository) *float64, fallback float64) float64 {
	var max *float64
	for _, row := range rows {
		v := get(row)
		if v == nil {
			continue
		}
		if max == nil || *v > *max {
			max = v
		}
	}
	if max == nil {
		return fallback
	}
	return float64(int64(*max))
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func floatAsString(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
