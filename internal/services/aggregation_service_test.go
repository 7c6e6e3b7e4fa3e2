package services

import (
	"testing"

	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/juanis2112/repoexplorer/pkg/config"
	"github.com/stretchr/testify/assert"
)

func newAggregationService() *AggregationService {
	return NewAggregationService(config.ChartConfig{
		LanguageOtherThreshold:       0.05,
		LanguageByTypeOtherThreshold: 0.02,
		LicenseOtherThreshold:        0.02,
	})
}

func reposWithReadme(n, withReadme int) []*models.Repository {
	rows := make([]*models.Repository, 0, n)
	for i := 0; i < n; i++ {
		repo := &models.Repository{ID: int64(i + 1)}
		if i < withReadme {
			repo.Readme = strPtr("# readme")
		}
		rows = append(rows, repo)
	}
	return rows
}

func TestFeatureCounts(t *testing.T) {
	service := newAggregationService()

	t.Run("Percent over filtered total", func(t *testing.T) {
		result := service.FeatureCounts(reposWithReadme(10, 7), []string{models.FeatureReadme})

		assert.Equal(t, 10, result.Total)
		assert.False(t, result.NoData)
		assert.Len(t, result.Categories, 1)
		assert.Equal(t, "README", result.Categories[0].Label)
		assert.Equal(t, 7, result.Categories[0].Count)
		assert.InDelta(t, 70.0, result.Categories[0].Percent, 1e-9)
	})

	t.Run("Ascending order", func(t *testing.T) {
		rows := []*models.Repository{
			{ID: 1, Readme: strPtr("x"), Description: strPtr("d"), License: strPtr("MIT")},
			{ID: 2, Readme: strPtr("x"), Description: strPtr("d")},
			{ID: 3, Readme: strPtr("x")},
		}
		result := service.FeatureCounts(rows, []string{models.FeatureReadme, models.FeatureDescription, models.FeatureLicense})

		labels := make([]string, 0, len(result.Categories))
		for _, c := range result.Categories {
			labels = append(labels, c.Label)
		}
		assert.Equal(t, []string{"License", "Description", "README"}, labels)
	})

	t.Run("Empty row-set flags no data", func(t *testing.T) {
		result := service.FeatureCounts(nil, models.FeatureColumns)
		assert.True(t, result.NoData)
		for _, c := range result.Categories {
			assert.Zero(t, c.Count)
			assert.Zero(t, c.Percent)
		}
	})
}

func TestFeatureCountsByType(t *testing.T) {
	service := newAggregationService()
	rows := []*models.Repository{
		{ID: 1, TypePrediction: strPtr("DEV"), Readme: strPtr("x")},
		{ID: 2, TypePrediction: strPtr("DEV"), Readme: strPtr("x")},
		{ID: 3, TypePrediction: strPtr("EDU"), Readme: strPtr("x")},
		{ID: 4, TypePrediction: strPtr("EDU")},
	}

	result := service.FeatureCountsByType(rows, []string{models.FeatureReadme})

	assert.Equal(t, []string{"DEV", "EDU"}, result.Types)
	assert.Len(t, result.Bars, 2)

	readme := result.Bars[0]
	assert.Equal(t, "README", readme.Label)
	assert.Equal(t, 3, readme.Total)
	assert.False(t, readme.Separated)

	// Trailing bar carries type volume on the same axis.
	projectType := result.Bars[1]
	assert.Equal(t, models.ProjectTypeLabel, projectType.Label)
	assert.True(t, projectType.Separated)
	assert.Equal(t, 4, projectType.Total)
}

func TestTypeDistributionExcludesErrorSentinel(t *testing.T) {
	service := newAggregationService()
	rows := []*models.Repository{
		{ID: 1, TypePrediction: strPtr("DEV")},
		{ID: 2, TypePrediction: strPtr("DEV")},
		{ID: 3, TypePrediction: strPtr("EDU")},
		{ID: 4, TypePrediction: strPtr("ERROR")},
		{ID: 5, TypePrediction: strPtr("error")},
		{ID: 6},
	}

	result := service.TypeDistribution(rows)

	assert.Equal(t, 3, result.Total, "error rows and missing types are not counted")
	assert.Equal(t, []models.CategoryCount{
		{Label: "DEV", Count: 2, Percent: 200.0 / 3},
		{Label: "EDU", Count: 1, Percent: 100.0 / 3},
	}, result.Categories)
}

func TestLanguageDistribution(t *testing.T) {
	service := newAggregationService()

	t.Run("Aliases and Other folding", func(t *testing.T) {
		rows := make([]*models.Repository, 0, 25)
		for i := 0; i < 16; i++ {
			rows = append(rows, &models.Repository{Language: strPtr("Python")})
		}
		for i := 0; i < 8; i++ {
			rows = append(rows, &models.Repository{Language: strPtr("Jupyter Notebook")})
		}
		// Below the 5% threshold: folded into Other.
		rows = append(rows, &models.Repository{Language: strPtr("Fortran")})
		// No language: not counted at all.
		rows = append(rows, &models.Repository{})

		result := service.LanguageDistribution(rows)

		assert.Equal(t, 25, result.Total)
		assert.Equal(t, []models.CategoryCount{
			{Label: "Python", Count: 16, Percent: 64},
			{Label: "Jupyter", Count: 8, Percent: 32},
			{Label: models.OtherLabel, Count: 1, Percent: 4},
		}, result.Categories)
	})

	t.Run("Literal other merges into Other", func(t *testing.T) {
		rows := []*models.Repository{
			{Language: strPtr("other")},
			{Language: strPtr("Other")},
		}
		result := service.LanguageDistribution(rows)
		assert.Equal(t, []models.CategoryCount{
			{Label: models.OtherLabel, Count: 2, Percent: 100},
		}, result.Categories)
	})
}

func TestLicenseDistribution(t *testing.T) {
	service := newAggregationService()
	rows := []*models.Repository{
		{License: strPtr("MIT")},
		{License: strPtr("MIT")},
		{License: nil},
		{License: strPtr("other")},
	}

	result := service.LicenseDistribution(rows)

	assert.Equal(t, 4, result.Total)
	assert.Equal(t, []models.CategoryCount{
		{Label: "MIT", Count: 2, Percent: 50},
		{Label: "None", Count: 1, Percent: 25},
		{Label: models.OtherLabel, Count: 1, Percent: 25},
	}, result.Categories)
}

func TestUniversityDistributionDescending(t *testing.T) {
	service := newAggregationService()
	rows := []*models.Repository{
		{University: "ETH Zurich"},
		{University: "UC Berkeley"},
		{University: "UC Berkeley"},
	}

	result := service.UniversityDistribution(rows)
	assert.Equal(t, []models.CategoryCount{
		{Label: "UC Berkeley", Count: 2, Percent: 200.0 / 3},
		{Label: "ETH Zurich", Count: 1, Percent: 100.0 / 3},
	}, result.Categories)
}

func TestStarBucketBoundaries(t *testing.T) {
	testCases := []struct {
		stars    float64
		expected string
	}{
		{stars: 0, expected: "0–10"},
		{stars: 10, expected: "0–10"},
		{stars: 11, expected: "11–50"},
		{stars: 50, expected: "11–50"},
		{stars: 51, expected: "51–100"},
		{stars: 100, expected: "51–100"},
		{stars: 101, expected: "101–200"},
		{stars: 200, expected: "101–200"},
		{stars: 201, expected: ">200"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, heatmapStarBucket(tc.stars))
		})
	}

	assert.Equal(t, "0–100", groupedStarBucket(100))
	assert.Equal(t, "101–500", groupedStarBucket(101))
	assert.Equal(t, "101–500", groupedStarBucket(500))
	assert.Equal(t, ">500", groupedStarBucket(501))
}

func TestStarBucketHeatmap(t *testing.T) {
	service := newAggregationService()
	rows := []*models.Repository{
		{ID: 1, Stars: f64Ptr(5), Readme: strPtr("x")},
		{ID: 2, Stars: f64Ptr(8)},
		{ID: 3, Stars: f64Ptr(300), Readme: strPtr("x")},
		{ID: 4, Stars: nil, Readme: strPtr("x")}, // no coercible stars: excluded
	}

	result := service.StarBucketHeatmap(rows, []string{models.FeatureReadme})

	assert.Equal(t, heatmapStarBuckets, result.Buckets)
	assert.Len(t, result.Rows, 2)

	readme := result.Rows[0]
	assert.Equal(t, "README", readme.Feature)
	assert.InDelta(t, 50.0, readme.Percents[0], 1e-9, "one of two low-star repos has a readme")
	assert.InDelta(t, 100.0, readme.Percents[4], 1e-9)
	assert.Zero(t, readme.Percents[1], "empty bucket reads as zero")

	average := result.Rows[1]
	assert.Equal(t, "Average", average.Feature)
	assert.Equal(t, readme.Percents, average.Percents, "single feature average equals the feature row")
}

func TestFeatureBuckets(t *testing.T) {
	service := newAggregationService()
	rows := []*models.Repository{
		{ID: 1, Stars: f64Ptr(50), Readme: strPtr("x")},
		{ID: 2, Stars: f64Ptr(50)},
		{ID: 3, Stars: f64Ptr(600), Readme: strPtr("x")},
	}

	result := service.FeatureBuckets(rows, []string{models.FeatureReadme})

	assert.Len(t, result.Items, len(groupedStarBuckets))
	low := result.Items[0]
	assert.Equal(t, "0–100", low.Bucket)
	assert.Equal(t, 1, low.Count)
	assert.InDelta(t, 50.0, low.Percent, 1e-9)

	high := result.Items[2]
	assert.Equal(t, ">500", high.Bucket)
	assert.Equal(t, 1, high.Count)
	assert.InDelta(t, 100.0, high.Percent, 1e-9)
}

func TestOverview(t *testing.T) {
	service := newAggregationService()

	t.Run("Totals and averages", func(t *testing.T) {
		rows := []*models.Repository{
			{ID: 1, ContributorCount: f64Ptr(10), BusFactor: f64Ptr(2), License: strPtr("MIT")},
			{ID: 2, ContributorCount: f64Ptr(5), BusFactor: f64Ptr(4), License: strPtr("None")},
			{ID: 3, ContributorCount: nil, BusFactor: nil, License: nil},
			{ID: 4, ContributorCount: f64Ptr(3), License: strPtr("Apache-2.0")},
		}

		result := service.Overview(rows)

		assert.Equal(t, 4, result.TotalRepositories)
		assert.Equal(t, 18, result.TotalContributors)
		assert.NotNil(t, result.AverageBusFactor)
		assert.InDelta(t, 3.0, *result.AverageBusFactor, 1e-9)
		assert.NotNil(t, result.LicensePercent)
		assert.InDelta(t, 50.0, *result.LicensePercent, 1e-9, `"None" literals do not count as licensed`)
	})

	t.Run("Empty row-set", func(t *testing.T) {
		result := service.Overview(nil)
		assert.Zero(t, result.TotalRepositories)
		assert.Zero(t, result.TotalContributors)
		assert.Nil(t, result.AverageBusFactor)
		assert.Nil(t, result.LicensePercent)
	})
}
