package repositories

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/juanis2112/repoexplorer/internal/models"
)

// repositoryColumns is the configured column subset read from every source.
// Fewer columns means faster load; "university" is derived, not read.
const repositoryColumns = `
	id, full_name, owner, html_url, license, language, type_prediction,
	stargazers_count, forks_count, open_issues_count, release_downloads,
	contributor_count, bus_factor, size, subscribers_count,
	affiliation_prediction, description, readme, contributing,
	code_of_conduct_file, security_policy, issue_templates,
	pull_request_template`

type RepositoryRepository struct {
	db *sql.DB
}

func NewRepositoryRepository(db *sql.DB) *RepositoryRepository {
	return &RepositoryRepository{db: db}
}

// GetAll retrieves every repository row from a per-institution source. The
// university attribute is left empty for the loader to fill.
func (r *RepositoryRepository) GetAll() ([]*models.Repository, error) {
	rows, err := r.db.Query(`SELECT` + repositoryColumns + ` FROM repositories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRepositories(rows, false)
}

// GetAllCombined retrieves every row from the pre-merged fast-path source,
// which carries a university column of its own.
func (r *RepositoryRepository) GetAllCombined() ([]*models.Repository, error) {
	rows, err := r.db.Query(`SELECT` + repositoryColumns + `, university FROM repositories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRepositories(rows, true)
}

func scanRepositories(rows *sql.Rows, withUniversity bool) ([]*models.Repository, error) {
	var result []*models.Repository

	for rows.Next() {
		var (
			id, fullName, owner, htmlURL          sql.NullString
			license, language, typePrediction     sql.NullString
			stars, forks, openIssues, downloads   sql.NullString
			contributors, busFactor, size, subs   sql.NullString
			affiliation                           sql.NullString
			description, readme, contributing     sql.NullString
			codeOfConduct, securityPolicy         sql.NullString
			issueTemplates, prTemplate            sql.NullString
			university                            sql.NullString
		)

		dest := []interface{}{
			&id, &fullName, &owner, &htmlURL, &license, &language, &typePrediction,
			&stars, &forks, &openIssues, &downloads, &contributors, &busFactor,
			&size, &subs, &affiliation, &description, &readme, &contributing,
			&codeOfConduct, &securityPolicy, &issueTemplates, &prTemplate,
		}
		if withUniversity {
			dest = append(dest, &university)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		// A row without a parseable id cannot participate in the id-based
		// union or the chat join, so it is dropped here.
		rowID, ok := parseID(id)
		if !ok {
			continue
		}

		repo := &models.Repository{
			ID:                    rowID,
			FullName:              id2str(fullName),
			Owner:                 id2str(owner),
			HTMLURL:               id2str(htmlURL),
			License:               nullable(license),
			Language:              nullable(language),
			TypePrediction:        nullable(typePrediction),
			Stars:                 models.CoerceFloat(nullable(stars)),
			Forks:                 models.CoerceFloat(nullable(forks)),
			OpenIssues:            models.CoerceFloat(nullable(openIssues)),
			ReleaseDownloads:      models.CoerceFloat(nullable(downloads)),
			ContributorCount:      models.CoerceFloat(nullable(contributors)),
			BusFactor:             models.CoerceFloat(nullable(busFactor)),
			Size:                  models.CoerceFloat(nullable(size)),
			Subscribers:           models.CoerceFloat(nullable(subs)),
			AffiliationPrediction: models.CoerceFloat(nullable(affiliation)),
			Description:           nullable(description),
			Readme:                nullable(readme),
			Contributing:          nullable(contributing),
			CodeOfConduct:         nullable(codeOfConduct),
			SecurityPolicy:        nullable(securityPolicy),
			IssueTemplates:        nullable(issueTemplates),
			PRTemplate:            nullable(prTemplate),
		}
		if withUniversity {
			repo.University = id2str(university)
			if repo.University == "" {
				repo.University = "Unknown"
			}
		}

		result = append(result, repo)
	}

	return result, rows.Err()
}

func parseID(v sql.NullString) (int64, bool) {
	if !v.Valid {
		return 0, false
	}
	s := strings.TrimSpace(v.String)
	if s == "" {
		return 0, false
	}
	// Some sources store the id as a float (e.g. "12345.0").
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}

func nullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func id2str(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}
