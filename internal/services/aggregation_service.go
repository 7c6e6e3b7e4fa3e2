package services

import (
	"sort"
	"strings"

	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/juanis2112/repoexplorer/pkg/config"
	"github.com/montanaflynn/stats"
)

// Star bands used by the heatmap and the simpler grouped chart.
var (
	heatmapStarBuckets = []string{"0–10", "11–50", "51–100", "101–200", ">200"}
	groupedStarBuckets = []string{"0–100", "101–500", ">500"}
)

// languageAliases shortens long language names for chart labels.
var languageAliases = map[string]string{
	"Jupyter Notebook": "Jupyter",
}

// AggregationService turns the current filtered row-set into grouped counts
// and percentages for every chart. All functions are pure over their inputs
// and treat an empty row-set as a valid "no data" case.
type AggregationService struct {
	cfg config.ChartConfig
}

func NewAggregationService(cfg config.ChartConfig) *AggregationService {
	return &AggregationService{cfg: cfg}
}

// FeatureCounts counts community-health feature presence across the row-set.
// Percentages are relative to the row-set's total row count. Bars are ordered
// by ascending count like the dashboard renders them.
func (s *AggregationService) FeatureCounts(rows []*models.Repository, features []string) *models.Distribution {
	total := len(rows)
	result := &models.Distribution{Total: total, NoData: total == 0}

	for _, feature := range features {
		count := 0
		for _, row := range rows {
			if row.HasFeature(feature) {
				count++
			}
		}
		result.Categories = append(result.Categories, models.CategoryCount{
			Label:   displayName(feature),
			Count:   count,
			Percent: percentOf(count, total),
		})
	}

	sort.SliceStable(result.Categories, func(i, j int) bool {
		if result.Categories[i].Count != result.Categories[j].Count {
			return result.Categories[i].Count < result.Categories[j].Count
		}
		return result.Categories[i].Label < result.Categories[j].Label
	})
	return result
}

// FeatureCountsByType cross-tabulates feature presence against the project
// type, with a trailing separated "Project Type" bar carrying per-type totals
// so feature incidence can be compared against type volume on one axis.
func (s *AggregationService) FeatureCountsByType(rows []*models.Repository, features []string) *models.StackedDistribution {
	total := len(rows)
	result := &models.StackedDistribution{Total: total, NoData: total == 0}

	typeTotals := make(map[string]int)
	for _, row := range rows {
		typeTotals[row.TypeName()]++
	}
	result.Types = orderedTypes(typeTotals)

	for _, feature := range features {
		counts := make(map[string]int)
		for _, row := range rows {
			if row.HasFeature(feature) {
				counts[row.TypeName()]++
			}
		}
		result.Bars = append(result.Bars, stackedBar(displayName(feature), counts, result.Types, total))
	}

	sort.SliceStable(result.Bars, func(i, j int) bool {
		if result.Bars[i].Total != result.Bars[j].Total {
			return result.Bars[i].Total < result.Bars[j].Total
		}
		return result.Bars[i].Label < result.Bars[j].Label
	})

	projectType := stackedBar(models.ProjectTypeLabel, typeTotals, result.Types, total)
	projectType.Separated = true
	result.Bars = append(result.Bars, projectType)
	return result
}

// TypeDistribution groups rows by project type, excluding the "error"
// sentinel. Percentages are shares of the non-error total.
func (s *AggregationService) TypeDistribution(rows []*models.Repository) *models.Distribution {
	counts := make(map[string]int)
	counted := 0
	for _, row := range rows {
		if row.TypePrediction == nil || row.IsTypeError() {
			continue
		}
		counts[row.TypeName()]++
		counted++
	}

	result := &models.Distribution{Total: counted, NoData: counted == 0}
	result.Categories = descendingCounts(counts, counted)
	return result
}

// LanguageDistribution groups rows by primary language, folding categories
// below the configured share threshold into "Other". Rows without a language
// are not counted.
func (s *AggregationService) LanguageDistribution(rows []*models.Repository) *models.Distribution {
	counts := make(map[string]int)
	counted := 0
	for _, row := range rows {
		lang := row.LanguageName()
		if lang == "" {
			continue
		}
		if alias, ok := languageAliases[lang]; ok {
			lang = alias
		}
		counts[lang]++
		counted++
	}

	result := &models.Distribution{Total: counted, NoData: counted == 0}
	result.Categories = groupWithOther(counts, counted, s.cfg.LanguageOtherThreshold)
	return result
}

// LicenseDistribution groups rows by license, with nulls shown as "None" and
// minor categories folded into "Other".
func (s *AggregationService) LicenseDistribution(rows []*models.Repository) *models.Distribution {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.LicenseName()]++
	}

	total := len(rows)
	result := &models.Distribution{Total: total, NoData: total == 0}
	result.Categories = groupWithOther(counts, total, s.cfg.LicenseOtherThreshold)
	return result
}

// UniversityDistribution counts repositories per university, descending.
func (s *AggregationService) UniversityDistribution(rows []*models.Repository) *models.Distribution {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[row.University]++
	}

	total := len(rows)
	result := &models.Distribution{Total: total, NoData: total == 0}
	result.Categories = descendingCounts(counts, total)
	return result
}

// LanguageDistributionByType stacks the language distribution by project
// type, minors folded into "Other", with the trailing "Project Type" bar.
func (s *AggregationService) LanguageDistributionByType(rows []*models.Repository) *models.StackedDistribution {
	return s.stackedByType(rows, s.cfg.LanguageByTypeOtherThreshold, func(r *models.Repository) string {
		lang := r.LanguageName()
		if lang == "" {
			return "None"
		}
		if alias, ok := languageAliases[lang]; ok {
			return alias
		}
		return lang
	})
}

// LicenseDistributionByType stacks the license distribution by project type.
func (s *AggregationService) LicenseDistributionByType(rows []*models.Repository) *models.StackedDistribution {
	return s.stackedByType(rows, s.cfg.LicenseOtherThreshold, (*models.Repository).LicenseName)
}

func (s *AggregationService) stackedByType(rows []*models.Repository, otherThreshold float64, label func(*models.Repository) string) *models.StackedDistribution {
	total := len(rows)
	result := &models.StackedDistribution{Total: total, NoData: total == 0}

	typeTotals := make(map[string]int)
	labelTotals := make(map[string]int)
	cells := make(map[string]map[string]int)
	for _, row := range rows {
		typeName := row.TypeName()
		typeTotals[typeName]++
		l := canonicalOther(label(row))
		labelTotals[l]++
		if cells[l] == nil {
			cells[l] = make(map[string]int)
		}
		cells[l][typeName]++
	}
	result.Types = orderedTypes(typeTotals)

	// Fold below-threshold labels into "Other", per type.
	otherCells := make(map[string]int)
	var majors []string
	for l, count := range labelTotals {
		if l != models.OtherLabel && total > 0 && float64(count)/float64(total) >= otherThreshold {
			majors = append(majors, l)
			continue
		}
		for typeName, c := range cells[l] {
			otherCells[typeName] += c
		}
	}

	sort.Slice(majors, func(i, j int) bool {
		if labelTotals[majors[i]] != labelTotals[majors[j]] {
			return labelTotals[majors[i]] < labelTotals[majors[j]]
		}
		return majors[i] < majors[j]
	})
	for _, l := range majors {
		result.Bars = append(result.Bars, stackedBar(l, cells[l], result.Types, total))
	}
	if len(otherCells) > 0 {
		result.Bars = append(result.Bars, stackedBar(models.OtherLabel, otherCells, result.Types, total))
	}

	projectType := stackedBar(models.ProjectTypeLabel, typeTotals, result.Types, total)
	projectType.Separated = true
	result.Bars = append(result.Bars, projectType)
	return result
}

// StarBucketHeatmap computes per-feature presence percentages inside fixed
// star bands, with a trailing unweighted "Average" row across features. Rows
// without a coercible star count are excluded from bucketing.
func (s *AggregationService) StarBucketHeatmap(rows []*models.Repository, features []string) *models.StarBucketHeatmap {
	result := &models.StarBucketHeatmap{
		Total:   len(rows),
		Buckets: heatmapStarBuckets,
		NoData:  len(rows) == 0,
	}

	byBucket := bucketize(rows, heatmapStarBucket)
	averages := make([]float64, len(heatmapStarBuckets))
	for _, feature := range features {
		percents := make([]float64, len(heatmapStarBuckets))
		for i, bucket := range heatmapStarBuckets {
			subset := byBucket[bucket]
			count := 0
			for _, row := range subset {
				if row.HasFeature(feature) {
					count++
				}
			}
			percents[i] = percentOf(count, len(subset))
			averages[i] += percents[i]
		}
		result.Rows = append(result.Rows, models.HeatmapRow{Feature: displayName(feature), Percents: percents})
	}

	if len(features) > 0 {
		for i := range averages {
			averages[i] /= float64(len(features))
		}
		result.Rows = append(result.Rows, models.HeatmapRow{Feature: "Average", Percents: averages})
	}
	return result
}

// FeatureBuckets computes feature presence counts and percentages inside the
// simpler three star bands.
func (s *AggregationService) FeatureBuckets(rows []*models.Repository, features []string) *models.FeatureBuckets {
	result := &models.FeatureBuckets{
		Total:   len(rows),
		Buckets: groupedStarBuckets,
		NoData:  len(rows) == 0,
	}

	byBucket := bucketize(rows, groupedStarBucket)
	for _, feature := range features {
		for _, bucket := range groupedStarBuckets {
			subset := byBucket[bucket]
			count := 0
			for _, row := range subset {
				if row.HasFeature(feature) {
					count++
				}
			}
			result.Items = append(result.Items, models.BucketFeatureCount{
				Feature: displayName(feature),
				Bucket:  bucket,
				Count:   count,
				Percent: percentOf(count, len(subset)),
			})
		}
	}
	return result
}

// Overview computes the dashboard value-box numbers.
func (s *AggregationService) Overview(rows []*models.Repository) *models.OverviewStats {
	result := &models.OverviewStats{TotalRepositories: len(rows)}

	var contributors, busFactors []float64
	withLicense := 0
	for _, row := range rows {
		if row.ContributorCount != nil {
			contributors = append(contributors, *row.ContributorCount)
		}
		if row.BusFactor != nil {
			busFactors = append(busFactors, *row.BusFactor)
		}
		lic := strings.TrimSpace(deref(row.License))
		if lic != "" && !strings.EqualFold(lic, "none") {
			withLicense++
		}
	}

	if sum, err := stats.Sum(contributors); err == nil {
		result.TotalContributors = int(sum)
	}
	if mean, err := stats.Mean(busFactors); err == nil {
		result.AverageBusFactor = &mean
	}
	if len(rows) > 0 {
		pct := percentOf(withLicense, len(rows))
		result.LicensePercent = &pct
	}
	return result
}

func heatmapStarBucket(stars float64) string {
	switch {
	case stars <= 10:
		return "0–10"
	case stars <= 50:
		return "11–50"
	case stars <= 100:
		return "51–100"
	case stars <= 200:
		return "101–200"
	default:
		return ">200"
	}
}

func groupedStarBucket(stars float64) string {
	switch {
	case stars <= 100:
		return "0–100"
	case stars <= 500:
		return "101–500"
	default:
		return ">500"
	}
}

func bucketize(rows []*models.Repository, bucket func(float64) string) map[string][]*models.Repository {
	byBucket := make(map[string][]*models.Repository)
	for _, row := range rows {
		if row.Stars == nil {
			continue
		}
		b := bucket(*row.Stars)
		byBucket[b] = append(byBucket[b], row)
	}
	return byBucket
}

// groupWithOther folds below-threshold categories into the synthetic "Other"
// bucket. Literal "other" values merge into the same bucket regardless of
// case or share. Majors come out descending by count, "Other" last.
func groupWithOther(counts map[string]int, total int, threshold float64) []models.CategoryCount {
	otherCount := 0
	majors := make(map[string]int)
	for label, count := range counts {
		if strings.EqualFold(strings.TrimSpace(label), models.OtherLabel) {
			otherCount += count
			continue
		}
		if total > 0 && float64(count)/float64(total) >= threshold {
			majors[label] = count
		} else {
			otherCount += count
		}
	}

	result := descendingCounts(majors, total)
	if otherCount > 0 {
		result = append(result, models.CategoryCount{
			Label:   models.OtherLabel,
			Count:   otherCount,
			Percent: percentOf(otherCount, total),
		})
	}
	return result
}

// descendingCounts orders a grouped count by descending count, ties broken by
// label for deterministic output.
func descendingCounts(counts map[string]int, total int) []models.CategoryCount {
	result := make([]models.CategoryCount, 0, len(counts))
	for label, count := range counts {
		result = append(result, models.CategoryCount{
			Label:   label,
			Count:   count,
			Percent: percentOf(count, total),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Label < result[j].Label
	})
	return result
}

func stackedBar(label string, counts map[string]int, types []string, total int) models.StackedBar {
	bar := models.StackedBar{Label: label}
	for _, t := range types {
		if counts[t] == 0 {
			continue
		}
		bar.Segments = append(bar.Segments, models.TypeSegment{Type: t, Count: counts[t]})
		bar.Total += counts[t]
	}
	bar.Percent = percentOf(bar.Total, total)
	return bar
}

// orderedTypes orders project types by descending volume for stable segment
// stacking across bars.
func orderedTypes(typeTotals map[string]int) []string {
	types := make([]string, 0, len(typeTotals))
	for t := range typeTotals {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if typeTotals[types[i]] != typeTotals[types[j]] {
			return typeTotals[types[i]] > typeTotals[types[j]]
		}
		return types[i] < types[j]
	})
	return types
}

func canonicalOther(label string) string {
	if strings.EqualFold(strings.TrimSpace(label), models.OtherLabel) {
		return models.OtherLabel
	}
	return label
}

func displayName(feature string) string {
	if name, ok := models.FeatureDisplayNames[feature]; ok {
		return name
	}
	return feature
}

func percentOf(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}
