package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juanis2112/repoexplorer/internal/middleware"
	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/juanis2112/repoexplorer/internal/services"
)

// DashboardHandler serves the overview numbers, chart aggregations and
// filter state for one dashboard session.
type DashboardHandler struct {
	sessionService *services.SessionService
	aggregations   *services.AggregationService
	commitHistory  *services.CommitHistoryService
	exportService  *services.ExportService
}

func NewDashboardHandler(
	sessionService *services.SessionService,
	aggregations *services.AggregationService,
	commitHistory *services.CommitHistoryService,
	exportService *services.ExportService,
) *DashboardHandler {
	return &DashboardHandler{
		sessionService: sessionService,
		aggregations:   aggregations,
		commitHistory:  commitHistory,
		exportService:  exportService,
	}
}

// session resolves the request's dashboard session, creating one and setting
// the cookie when needed.
func (h *DashboardHandler) session(c *gin.Context) *services.Session {
	session := h.sessionService.GetOrCreate(middleware.GetSessionID(c))
	middleware.SetSessionID(c, session.ID)
	return session
}

// Overview handles the value-box numbers for the current filtered view
func (h *DashboardHandler) Overview(c *gin.Context) {
	session := h.session(c)
	overview := session.Aggregate("overview", func(rows []*models.Repository) interface{} {
		return h.aggregations.Overview(rows)
	})
	c.JSON(http.StatusOK, overview)
}

// Chart handles a named chart aggregation over the current filtered view
func (h *DashboardHandler) Chart(c *gin.Context) {
	session := h.session(c)
	name := c.Param("name")

	var result interface{}
	switch name {
	case "feature-counts":
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			return h.aggregations.FeatureCounts(rows, models.FeatureColumns)
		})
	case "feature-counts-by-type":
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			return h.aggregations.FeatureCountsByType(rows, models.FeatureColumns)
		})
	case "type-distribution":
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			return h.aggregations.TypeDistribution(rows)
		})
	case "language-distribution":
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			return h.aggregations.LanguageDistribution(rows)
		})
	case "license-distribution":
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			return h.aggregations.LicenseDistribution(rows)
		})
	case "language-by-type":
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			return h.aggregations.LanguageDistributionByType(rows)
		})
	case "license-by-type":
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			return h.aggregations.LicenseDistributionByType(rows)
		})
	case "university-distribution":
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			return h.aggregations.UniversityDistribution(rows)
		})
	case "star-heatmap":
		// The heatmap reads DEV repositories only.
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			var dev []*models.Repository
			for _, row := range rows {
				if row.TypeName() == "DEV" {
					dev = append(dev, row)
				}
			}
			return h.aggregations.StarBucketHeatmap(dev, models.FeatureColumns)
		})
	case "star-buckets":
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			return h.aggregations.FeatureBuckets(rows, models.FeatureColumns)
		})
	case "commit-history":
		result = session.Aggregate(name, func(rows []*models.Repository) interface{} {
			return h.commitHistory.MonthlySeries(commitsFor(session.Dataset(), rows))
		})
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown chart %q", name)})
		return
	}

	c.JSON(http.StatusOK, result)
}

// commitsFor restricts the commits table to repositories present in the
// current filtered view.
func commitsFor(dataset *models.Dataset, rows []*models.Repository) []*models.Commit {
	urls := make(map[string]bool, len(rows))
	for _, row := range rows {
		urls[row.HTMLURL] = true
	}
	var commits []*models.Commit
	for _, commit := range dataset.Commits {
		if urls[commit.RepositoryURL] {
			commits = append(commits, commit)
		}
	}
	return commits
}

// GetFilters handles reading the current and default filter parameters
func (h *DashboardHandler) GetFilters(c *gin.Context) {
	session := h.session(c)
	c.JSON(http.StatusOK, gin.H{
		"params":   session.Params(),
		"defaults": session.Defaults(),
	})
}

// UpdateFilters handles replacing the manual filter parameters
func (h *DashboardHandler) UpdateFilters(c *gin.Context) {
	session := h.session(c)

	var params models.FilterParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter parameters"})
		return
	}

	session.SetParams(&params)
	c.JSON(http.StatusOK, gin.H{
		"params": session.Params(),
		"total":  len(session.Filtered()),
	})
}

// ResetFilters handles restoring defaults and signalling the chat adapter
func (h *DashboardHandler) ResetFilters(c *gin.Context) {
	session := h.session(c)
	session.Reset()
	c.JSON(http.StatusOK, gin.H{
		"params": session.Params(),
		"total":  len(session.Filtered()),
	})
}

// Export handles the xlsx download of the current filtered view
func (h *DashboardHandler) Export(c *gin.Context) {
	session := h.session(c)
	rows := session.Filtered()

	filename := fmt.Sprintf("repositories_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exportService.Export(rows, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
	}
}
