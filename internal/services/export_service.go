package services

import (
	"fmt"
	"io"

	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService writes the current filtered view and its summaries to an
// xlsx workbook.
type ExportService struct {
	aggregations *AggregationService
}

func NewExportService(aggregations *AggregationService) *ExportService {
	return &ExportService{aggregations: aggregations}
}

var exportHeader = []string{
	"id", "full_name", "owner", "university", "html_url", "license", "language",
	"type_prediction", "stargazers_count", "forks_count", "open_issues_count",
	"release_downloads", "contributor_count", "bus_factor", "affiliation_prediction",
	"description",
}

// Export writes the workbook to w: the filtered rows plus one sheet per
// summary chart.
func (s *ExportService) Export(rows []*models.Repository, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	const repoSheet = "Repositories"
	f.SetSheetName("Sheet1", repoSheet)

	for col, name := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(repoSheet, cell, name); err != nil {
			return err
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.ID, row.FullName, row.Owner, row.University, row.HTMLURL,
			row.LicenseName(), row.LanguageName(), row.TypeName(),
			exportFloat(row.Stars), exportFloat(row.Forks), exportFloat(row.OpenIssues),
			exportFloat(row.ReleaseDownloads), exportFloat(row.ContributorCount),
			exportFloat(row.BusFactor), exportFloat(row.AffiliationPrediction),
			deref(row.Description),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(repoSheet, cell, v); err != nil {
				return err
			}
		}
	}

	summaries := []struct {
		sheet string
		data  *models.Distribution
	}{
		{"Feature Counts", s.aggregations.FeatureCounts(rows, models.FeatureColumns)},
		{"Languages", s.aggregations.LanguageDistribution(rows)},
		{"Licenses", s.aggregations.LicenseDistribution(rows)},
		{"Project Types", s.aggregations.TypeDistribution(rows)},
		{"Universities", s.aggregations.UniversityDistribution(rows)},
	}
	for _, summary := range summaries {
		if err := writeDistribution(f, summary.sheet, summary.data); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func writeDistribution(f *excelize.File, sheet string, dist *models.Distribution) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Category", "Count", "Percent"}
	for col, v := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}

	for i, category := range dist.Categories {
		values := []interface{}{
			category.Label,
			category.Count,
			fmt.Sprintf("%.1f%%", category.Percent),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func exportFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
