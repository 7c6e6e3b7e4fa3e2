package repositories

import (
	"database/sql"

	"github.com/juanis2112/repoexplorer/internal/models"
)

type SecurityRepository struct {
	db *sql.DB
}

func NewSecurityRepository(db *sql.DB) *SecurityRepository {
	return &SecurityRepository{db: db}
}

// GetAll retrieves every scorecard row keyed by html_url. Rows without an
// html_url cannot be joined and are skipped.
func (r *SecurityRepository) GetAll() (map[string]*models.SecurityScorecard, error) {
	query := `
		SELECT html_url, Binary_Artifacts, Branch_Protection, CI_Tests,
			   CII_Best_Practices, Code_Review, Contributors, Dangerous_Workflow,
			   Dependency_Update_Tool, Fuzzing, License, Maintained, Packaging,
			   Pinned_Dependencies, SAST, Security_Policy, Signed_Releases,
			   Token_Permissions, Vulnerabilities, Total_Score
		FROM security
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]*models.SecurityScorecard)
	for rows.Next() {
		var htmlURL sql.NullString
		raw := make([]sql.NullString, 19)
		dest := []interface{}{&htmlURL}
		for i := range raw {
			dest = append(dest, &raw[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if !htmlURL.Valid || htmlURL.String == "" {
			continue
		}

		result[htmlURL.String] = &models.SecurityScorecard{
			HTMLURL:              htmlURL.String,
			BinaryArtifacts:      models.CoerceFloat(nullable(raw[0])),
			BranchProtection:     models.CoerceFloat(nullable(raw[1])),
			CITests:              models.CoerceFloat(nullable(raw[2])),
			CIIBestPractices:     models.CoerceFloat(nullable(raw[3])),
			CodeReview:           models.CoerceFloat(nullable(raw[4])),
			Contributors:         models.CoerceFloat(nullable(raw[5])),
			DangerousWorkflow:    models.CoerceFloat(nullable(raw[6])),
			DependencyUpdateTool: models.CoerceFloat(nullable(raw[7])),
			Fuzzing:              models.CoerceFloat(nullable(raw[8])),
			License:              models.CoerceFloat(nullable(raw[9])),
			Maintained:           models.CoerceFloat(nullable(raw[10])),
			Packaging:            models.CoerceFloat(nullable(raw[11])),
			PinnedDependencies:   models.CoerceFloat(nullable(raw[12])),
			SAST:                 models.CoerceFloat(nullable(raw[13])),
			SecurityPolicy:       models.CoerceFloat(nullable(raw[14])),
			SignedReleases:       models.CoerceFloat(nullable(raw[15])),
			TokenPermissions:     models.CoerceFloat(nullable(raw[16])),
			Vulnerabilities:      models.CoerceFloat(nullable(raw[17])),
			TotalScore:           models.CoerceFloat(nullable(raw[18])),
		}
	}

	return result, rows.Err()
}
