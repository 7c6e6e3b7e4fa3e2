package services

import (
	"errors"
	"testing"

	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func testRows() []*models.Repository {
	return []*models.Repository{
		{ID: 1, FullName: "ucb/genomics-toolkit", University: "UC Berkeley", TypePrediction: strPtr("DEV"), Language: strPtr("Python"), License: strPtr("MIT"), Stars: f64Ptr(150), Forks: f64Ptr(12), ReleaseDownloads: f64Ptr(300), AffiliationPrediction: f64Ptr(0.95)},
		{ID: 2, FullName: "ucsd/course-notes", University: "UC San Diego", TypePrediction: strPtr("EDU"), Language: strPtr("Jupyter Notebook"), Stars: f64Ptr(8), Forks: f64Ptr(2), ReleaseDownloads: f64Ptr(0), AffiliationPrediction: f64Ptr(0.85)},
		{ID: 3, FullName: "cmu/solver", University: "Carnegie Mellon University", TypePrediction: strPtr("DEV"), Language: strPtr("C++"), License: strPtr("Apache-2.0"), Stars: f64Ptr(2400), Forks: f64Ptr(80), ReleaseDownloads: f64Ptr(900), AffiliationPrediction: f64Ptr(0.99)},
		{ID: 4, FullName: "eth/lecture-demo", University: "ETH Zurich", TypePrediction: strPtr("EDU"), Language: strPtr("Python"), License: strPtr("MIT"), Stars: nil, Forks: f64Ptr(1), ReleaseDownloads: nil, AffiliationPrediction: f64Ptr(0.7)},
		{ID: 5, FullName: "mgb/clinical-pipeline", University: "Mass General Brigham", TypePrediction: strPtr("error"), Stars: f64Ptr(40), Forks: f64Ptr(5), ReleaseDownloads: f64Ptr(10), AffiliationPrediction: nil},
	}
}

func ids(rows []*models.Repository) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestCategoryPredicate(t *testing.T) {
	get := func(r *models.Repository) string { return r.University }

	t.Run("Empty selection is unfiltered", func(t *testing.T) {
		assert.Nil(t, CategoryPredicate(get, nil))
		assert.Nil(t, CategoryPredicate(get, []string{}))
	})

	t.Run("Keeps only selected values", func(t *testing.T) {
		p := CategoryPredicate(get, []string{"UC Berkeley", "ETH Zurich"})
		assert.True(t, p(&models.Repository{University: "UC Berkeley"}))
		assert.False(t, p(&models.Repository{University: "UC San Diego"}))
	})
}

func TestRangePredicateMissingValueFails(t *testing.T) {
	p := RangePredicate(func(r *models.Repository) *float64 { return r.Stars }, &models.NumericRange{Min: 0, Max: 100})
	assert.True(t, p(&models.Repository{Stars: f64Ptr(100)}))
	assert.False(t, p(&models.Repository{Stars: f64Ptr(101)}))
	assert.False(t, p(&models.Repository{Stars: nil}))
}

func TestSearchPredicate(t *testing.T) {
	assert.Nil(t, SearchPredicate("   "))

	p := SearchPredicate("GENOMICS")
	assert.True(t, p(&models.Repository{FullName: "ucb/genomics-toolkit"}))
	assert.False(t, p(&models.Repository{FullName: "cmu/solver"}))

	// Matches any searchable column, not just the name.
	p = SearchPredicate("zurich")
	assert.True(t, p(&models.Repository{University: "ETH Zurich"}))
}

func TestApplyLeavesBaseUntouched(t *testing.T) {
	service := NewFilterService()
	rows := testRows()

	filtered := service.Apply(rows, []Predicate{
		CategoryPredicate((*models.Repository).TypeName, []string{"DEV"}),
	})

	assert.Equal(t, []int64{1, 3}, ids(filtered))
	assert.Len(t, rows, 5, "base row-set must not shrink")
}

func TestPredicateOrderIndependence(t *testing.T) {
	service := NewFilterService()
	rows := testRows()

	params := &models.FilterParams{
		Types:     []string{"DEV", "EDU"},
		Languages: []string{"Python"},
		Stars:     &models.NumericRange{Min: 0, Max: 500},
		Threshold: &models.NumericRange{Min: 0.8, Max: 1},
	}

	predicates := service.Predicates(params)
	expected := ids(service.Apply(rows, predicates))

	// Every rotation of the predicate set keeps the same rows.
	for shift := 1; shift < len(predicates); shift++ {
		rotated := append(append([]Predicate{}, predicates[shift:]...), predicates[:shift]...)
		assert.Equal(t, expected, ids(service.Apply(rows, rotated)))
	}
}

func TestApplyIdempotent(t *testing.T) {
	service := NewFilterService()
	predicates := service.Predicates(&models.FilterParams{Types: []string{"DEV"}})

	once := service.Apply(testRows(), predicates)
	twice := service.Apply(once, predicates)
	assert.Equal(t, ids(once), ids(twice))
}

// failingChat simulates an unreachable chat collaborator.
type failingChat struct{}

func (f *failingChat) Result() (*models.ChatResult, error) { return nil, errors.New("unavailable") }
func (f *failingChat) Revision() uint64                    { return 0 }
func (f *failingChat) Reset() error                        { return nil }

func TestCompose(t *testing.T) {
	service := NewFilterService()
	rows := testRows()

	t.Run("Chat ids intersect the manual view", func(t *testing.T) {
		chat := NewChatService()
		chat.SetResult(&models.ChatResult{IDs: []int64{2, 3, 5}})

		// Manual filter keeps 1..4, chat keeps {2,3,5}: intersection {2,3}.
		params := &models.FilterParams{Threshold: &models.NumericRange{Min: 0.5, Max: 1}}
		result := service.Compose(rows, params, chat)
		assert.Equal(t, []int64{2, 3}, ids(result))
	})

	t.Run("No chat result means manual only", func(t *testing.T) {
		chat := NewChatService()
		result := service.Compose(rows, &models.FilterParams{Types: []string{"EDU"}}, chat)
		assert.Equal(t, []int64{2, 4}, ids(result))
	})

	t.Run("Adapter failure degrades to manual only", func(t *testing.T) {
		result := service.Compose(rows, &models.FilterParams{Types: []string{"EDU"}}, &failingChat{})
		assert.Equal(t, []int64{2, 4}, ids(result))
	})

	t.Run("Nil adapter means manual only", func(t *testing.T) {
		result := service.Compose(rows, &models.FilterParams{Types: []string{"EDU"}}, nil)
		assert.Equal(t, []int64{2, 4}, ids(result))
	})

	t.Run("Positional fallback matches within the manual view", func(t *testing.T) {
		chat := NewChatService()
		chat.SetResult(&models.ChatResult{Positions: []int{0, 2}})

		result := service.Compose(rows, nil, chat)
		assert.Equal(t, []int64{1, 3}, ids(result))
	})

	t.Run("Chat ids outside the manual view drop out", func(t *testing.T) {
		chat := NewChatService()
		chat.SetResult(&models.ChatResult{IDs: []int64{4, 5}})

		params := &models.FilterParams{Types: []string{"DEV"}}
		result := service.Compose(rows, params, chat)
		assert.Empty(t, result)
	})
}

func TestDefaultParams(t *testing.T) {
	service := NewFilterService()

	t.Run("Maxima from threshold-gated rows, truncated", func(t *testing.T) {
		rows := []*models.Repository{
			{ID: 1, Stars: f64Ptr(1234.9), Forks: f64Ptr(55), ReleaseDownloads: f64Ptr(10), AffiliationPrediction: f64Ptr(0.9)},
			{ID: 2, Stars: f64Ptr(99999), Forks: f64Ptr(9999), ReleaseDownloads: f64Ptr(99999), AffiliationPrediction: f64Ptr(0.2)},
		}

		params := service.DefaultParams(rows)
		assert.Equal(t, &models.NumericRange{Min: 0.8, Max: 1}, params.Threshold)
		assert.Equal(t, float64(1234), params.Stars.Max, "maxima are truncated to whole numbers")
		assert.Equal(t, float64(55), params.Forks.Max)
		assert.Equal(t, float64(10), params.Downloads.Max)
		assert.Equal(t, float64(0), params.Stars.Min)
	})

	t.Run("Fallback constants when nothing passes the gate", func(t *testing.T) {
		params := service.DefaultParams(nil)
		assert.Equal(t, float64(5000), params.Stars.Max)
		assert.Equal(t, float64(100), params.Forks.Max)
		assert.Equal(t, float64(1000), params.Downloads.Max)
	})
}
