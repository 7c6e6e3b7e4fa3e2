package models

import "time"

// OtherLabel is the synthetic category absorbing below-threshold shares and
// any literal "other" values from the raw data.
const OtherLabel = "Other"

// ProjectTypeLabel is the synthetic trailing bar of by-type stacked charts,
// carrying the unconditional per-type totals.
const ProjectTypeLabel = "Project Type"

// CategoryCount is one labeled slice of a distribution. Percent is relative to
// the current filtered row-set.
type CategoryCount struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution is a grouped count over one categorical column.
type Distribution struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
	NoData     bool            `json:"no_data"`
}

// TypeSegment is one project-type slice of a stacked bar.
type TypeSegment struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// StackedBar is one bar of a by-type stacked chart. Separated marks the
// synthetic "Project Type" bar that renderers set apart visually.
type StackedBar struct {
	Label     string        `json:"label"`
	Total     int           `json:"total"`
	Percent   float64       `json:"percent"`
	Segments  []TypeSegment `json:"segments"`
	Separated bool          `json:"separated,omitempty"`
}

// StackedDistribution cross-tabulates a categorical column against the
// project-type classification.
type StackedDistribution struct {
	Total  int          `json:"total"`
	Types  []string     `json:"types"`
	Bars   []StackedBar `json:"bars"`
	NoData bool         `json:"no_data"`
}

// HeatmapRow is one feature row of the star-bucket heatmap; Percents aligns
// with the heatmap's bucket order.
type HeatmapRow struct {
	Feature  string    `json:"feature"`
	Percents []float64 `json:"percents"`
}

// StarBucketHeatmap is the per-feature, per-star-bucket presence grid, with a
// trailing synthetic "Average" row.
type StarBucketHeatmap struct {
	Total   int          `json:"total"`
	Buckets []string     `json:"buckets"`
	Rows    []HeatmapRow `json:"rows"`
	NoData  bool         `json:"no_data"`
}

// BucketFeatureCount is one (feature, star band) cell of the grouped
// feature-distribution chart.
type BucketFeatureCount struct {
	Feature string  `json:"feature"`
	Bucket  string  `json:"bucket"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// FeatureBuckets is the 3-band feature-presence distribution.
type FeatureBuckets struct {
	Total   int                  `json:"total"`
	Buckets []string             `json:"buckets"`
	Items   []BucketFeatureCount `json:"items"`
	NoData  bool                 `json:"no_data"`
}

// MonthlyCount is one calendar-month bucket of the commit-history series.
type MonthlyCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// CommitSeries is the zero-filled monthly commit-history series. Message
// carries the "no data" state when Points is empty.
type CommitSeries struct {
	TotalCommits int            `json:"total_commits"`
	Points       []MonthlyCount `json:"points"`
	Message      string         `json:"message,omitempty"`
}

// OverviewStats backs the dashboard value boxes. Nil pointers render as a
// placeholder.
type OverviewStats struct {
	TotalRepositories int      `json:"total_repositories"`
	TotalContributors int      `json:"total_contributors"`
	LicensePercent    *float64 `json:"license_percent"`
	AverageBusFactor  *float64 `json:"average_bus_factor"`
}
