package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/juanis2112/repoexplorer/internal/middleware"
	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/juanis2112/repoexplorer/internal/services"
)

// RepositoryHandler serves the repository table and per-repository detail.
type RepositoryHandler struct {
	sessionService *services.SessionService
	filterService  *services.FilterService
}

func NewRepositoryHandler(sessionService *services.SessionService, filterService *services.FilterService) *RepositoryHandler {
	return &RepositoryHandler{
		sessionService: sessionService,
		filterService:  filterService,
	}
}

// repositoryRow is the table projection of a repository. The heavy document
// bodies stay out of the list payload.
type repositoryRow struct {
	ID           int64    `json:"id"`
	FullName     string   `json:"full_name"`
	Owner        string   `json:"owner"`
	University   string   `json:"university"`
	HTMLURL      string   `json:"html_url"`
	License      string   `json:"license"`
	Language     string   `json:"language"`
	Type         string   `json:"type"`
	Stars        *float64 `json:"stargazers_count"`
	Forks        *float64 `json:"forks_count"`
	OpenIssues   *float64 `json:"open_issues_count"`
	Downloads    *float64 `json:"release_downloads"`
	Contributors *float64 `json:"contributor_count"`
	BusFactor    *float64 `json:"bus_factor"`
	Affiliation  *float64 `json:"affiliation_prediction"`
}

func toRow(repo *models.Repository) repositoryRow {
	return repositoryRow{
		ID:           repo.ID,
		FullName:     repo.FullName,
		Owner:        repo.Owner,
		University:   repo.University,
		HTMLURL:      repo.HTMLURL,
		License:      repo.LicenseName(),
		Language:     repo.LanguageName(),
		Type:         repo.TypeName(),
		Stars:        repo.Stars,
		Forks:        repo.Forks,
		OpenIssues:   repo.OpenIssues,
		Downloads:    repo.ReleaseDownloads,
		Contributors: repo.ContributorCount,
		BusFactor:    repo.BusFactor,
		Affiliation:  repo.AffiliationPrediction,
	}
}

// List handles the repository table for the current filtered view. An
// optional search term narrows the displayed rows without touching the
// session's filter state.
func (h *RepositoryHandler) List(c *gin.Context) {
	session := h.sessionService.GetOrCreate(middleware.GetSessionID(c))
	middleware.SetSessionID(c, session.ID)

	rows := session.Filtered()
	if term := strings.TrimSpace(c.Query("search")); term != "" {
		rows = h.filterService.Apply(rows, []services.Predicate{services.SearchPredicate(term)})
	}

	out := make([]repositoryRow, 0, len(rows))
	for _, repo := range rows {
		out = append(out, toRow(repo))
	}

	c.JSON(http.StatusOK, gin.H{
		"total":        len(out),
		"repositories": out,
	})
}

// Get handles the detail view of one repository from the current filtered
// view, including its community documents and security scorecard.
func (h *RepositoryHandler) Get(c *gin.Context) {
	session := h.sessionService.GetOrCreate(middleware.GetSessionID(c))
	middleware.SetSessionID(c, session.ID)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid repository id"})
		return
	}

	var repo *models.Repository
	for _, candidate := range session.Filtered() {
		if candidate.ID == id {
			repo = candidate
			break
		}
	}
	if repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "repository not found"})
		return
	}

	features := make(map[string]bool, len(models.FeatureColumns))
	for _, feature := range models.FeatureColumns {
		name := models.FeatureDisplayNames[feature]
		features[name] = repo.HasFeature(feature)
	}

	c.JSON(http.StatusOK, gin.H{
		"repository":      toRow(repo),
		"description":     repo.Description,
		"readme":          repo.Readme,
		"contributing":    repo.Contributing,
		"security_policy": repo.SecurityPolicy,
		"features":        features,
		"security":        session.Dataset().SecurityFor(repo.HTMLURL),
	})
}
