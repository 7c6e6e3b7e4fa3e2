package repositories

import (
	"database/sql"

	"github.com/juanis2112/repoexplorer/internal/models"
)

type CommitRepository struct {
	db *sql.DB
}

func NewCommitRepository(db *sql.DB) *CommitRepository {
	return &CommitRepository{db: db}
}

// GetAll retrieves every commit event. Dates are coerced at this boundary;
// unparseable dates stay nil and are dropped later by the aggregation.
func (r *CommitRepository) GetAll() ([]*models.Commit, error) {
	rows, err := r.db.Query(`SELECT html_url, date FROM commits`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Commit
	for rows.Next() {
		var htmlURL, date sql.NullString
		if err := rows.Scan(&htmlURL, &date); err != nil {
			return nil, err
		}
		result = append(result, &models.Commit{
			RepositoryURL: id2str(htmlURL),
			Date:          models.CoerceTime(nullable(date)),
		})
	}

	return result, rows.Err()
}
