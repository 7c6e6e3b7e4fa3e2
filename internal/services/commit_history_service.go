package services

import (
	"time"

	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/juanis2112/repoexplorer/pkg/config"
)

// CommitHistoryService aggregates commit events into a monthly time series
// inside a configured inclusive date window.
type CommitHistoryService struct {
	windowStart time.Time
	windowEnd   time.Time
}

func NewCommitHistoryService(cfg config.DataConfig) *CommitHistoryService {
	return &CommitHistoryService{
		windowStart: cfg.CommitWindowStart,
		windowEnd:   cfg.CommitWindowEnd,
	}
}

// MonthlySeries buckets commits by calendar month. The series is reindexed so
// every month between the first and last active month is present, zero-filled;
// a month is never skipped for having no activity. Degenerate inputs produce a
// described "no data" series, not an error.
func (s *CommitHistoryService) MonthlySeries(commits []*models.Commit) *models.CommitSeries {
	if len(commits) == 0 {
		return &models.CommitSeries{Message: "No commit data"}
	}

	var dates []time.Time
	for _, commit := range commits {
		if commit.Date != nil {
			dates = append(dates, commit.Date.UTC())
		}
	}
	if len(dates) == 0 {
		return &models.CommitSeries{Message: "No valid dates in commits"}
	}

	counts := make(map[time.Time]int)
	var first, last time.Time
	total := 0
	for _, d := range dates {
		if d.Before(s.windowStart) || d.After(s.windowEnd) {
			continue
		}
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[month]++
		total++
		if first.IsZero() || month.Before(first) {
			first = month
		}
		if month.After(last) {
			last = month
		}
	}
	if total == 0 {
		return &models.CommitSeries{Message: "No commits in the selected period"}
	}

	series := &models.CommitSeries{TotalCommits: total}
	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		series.Points = append(series.Points, models.MonthlyCount{
			Month: month,
			Count: counts[month],
		})
	}
	return series
}
