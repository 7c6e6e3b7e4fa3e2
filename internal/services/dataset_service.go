package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/juanis2112/repoexplorer/internal/models"
	"github.com/juanis2112/repoexplorer/internal/repositories"
	"github.com/juanis2112/repoexplorer/pkg/config"
	"github.com/juanis2112/repoexplorer/pkg/database"
	"github.com/juanis2112/repoexplorer/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// DatasetService builds the immutable in-memory table set at startup. The
// repository table comes either from a single pre-merged source (fast path) or
// from per-institution sources loaded in parallel and unioned (slow path).
type DatasetService struct {
	cfg config.DataConfig

	// loadInstitution is swappable so the parallel union can be tested
	// without sqlite fixtures.
	loadInstitution func(acronym, dir string) ([]*models.Repository, error)
}

func NewDatasetService(cfg config.DataConfig) *DatasetService {
	s := &DatasetService{cfg: cfg}
	s.loadInstitution = s.loadInstitutionFromDB
	return s
}

// Load builds the dataset. Load never fails the process: a broken source is
// skipped with a log line and the worst case is an empty table.
func (s *DatasetService) Load() *models.Dataset {
	dataset := &models.Dataset{
		Security: make(map[string]*models.SecurityScorecard),
	}

	if _, err := os.Stat(s.cfg.CombinedDB); err == nil {
		dataset.Repositories = s.loadCombined()
	} else {
		dataset.Repositories = s.loadPerInstitution()
	}

	dataset.Security = s.loadSecurity()
	dataset.Commits = s.loadCommits()

	logger.WithFields(map[string]interface{}{
		"repositories": len(dataset.Repositories),
		"security":     len(dataset.Security),
		"commits":      len(dataset.Commits),
	}).Info("Dataset loaded")

	return dataset
}

// loadCombined reads the pre-merged fast-path source, falling back to an
// empty table on failure.
func (s *DatasetService) loadCombined() []*models.Repository {
	db, err := database.Open(s.cfg.CombinedDB)
	if err != nil {
		logger.WithError(err).Errorf("Failed to open combined source %s", s.cfg.CombinedDB)
		return nil
	}
	defer db.Close()

	repos, err := repositories.NewRepositoryRepository(db).GetAllCombined()
	if err != nil {
		logger.WithError(err).Errorf("Failed to load combined source %s", s.cfg.CombinedDB)
		return nil
	}
	return dedupeByID(repos)
}

// loadPerInstitution loads each institution source concurrently with a
// bounded worker count and unions the fragments. A failing institution is
// skipped, never fatal.
func (s *DatasetService) loadPerInstitution() []*models.Repository {
	dirs := s.sourceDirs()

	type fragment struct {
		acronym string
		repos   []*models.Repository
	}

	workers := s.cfg.LoadWorkers
	if n := len(s.cfg.Institutions); workers > n && n > 0 {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	fragments := make([]fragment, len(s.cfg.Institutions))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, acronym := range s.cfg.Institutions {
		i, acronym := i, acronym
		dir, ok := dirs[strings.ToLower(strings.ReplaceAll(acronym, " ", "_"))]
		if !ok {
			continue
		}
		g.Go(func() error {
			repos, err := s.loadInstitution(acronym, dir)
			if err != nil {
				logger.WithError(err).Errorf("Failed to load source for %s", acronym)
				return nil
			}
			university := s.universityName(acronym)
			for _, repo := range repos {
				repo.University = university
			}
			fragments[i] = fragment{acronym: acronym, repos: repos}
			return nil
		})
	}
	g.Wait()

	var union []*models.Repository
	for _, f := range fragments {
		union = append(union, f.repos...)
	}
	return dedupeByID(union)
}

func (s *DatasetService) loadInstitutionFromDB(acronym, dir string) ([]*models.Repository, error) {
	path := filepath.Join(s.cfg.BaseDir, dir, "repositories.db")
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return repositories.NewRepositoryRepository(db).GetAll()
}

// sourceDirs maps lowercased directory names under the data dir to their
// actual names, so acronym matching is case-insensitive.
func (s *DatasetService) sourceDirs() map[string]string {
	dirs := make(map[string]string)
	entries, err := os.ReadDir(s.cfg.BaseDir)
	if err != nil {
		logger.WithError(err).Warnf("Failed to list data dir %s", s.cfg.BaseDir)
		return dirs
	}
	for _, e := range entries {
		if e.IsDir() {
			dirs[strings.ToLower(e.Name())] = e.Name()
		}
	}
	return dirs
}

// universityName resolves the display name for an institution from its config
// file, falling back to the acronym.
func (s *DatasetService) universityName(acronym string) string {
	path := filepath.Join(s.cfg.ConfigDir, fmt.Sprintf("config_%s.json", strings.ReplaceAll(acronym, " ", "_")))
	raw, err := os.ReadFile(path)
	if err != nil {
		return acronym
	}
	var cfg struct {
		UniversityName string `json:"UNIVERSITY_NAME"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil || cfg.UniversityName == "" {
		return acronym
	}
	return cfg.UniversityName
}

func (s *DatasetService) loadSecurity() map[string]*models.SecurityScorecard {
	db, err := database.Open(s.cfg.SecurityDB)
	if err != nil {
		logger.WithError(err).Warnf("No security source at %s", s.cfg.SecurityDB)
		return make(map[string]*models.SecurityScorecard)
	}
	defer db.Close()

	scorecards, err := repositories.NewSecurityRepository(db).GetAll()
	if err != nil {
		logger.WithError(err).Errorf("Failed to load security source %s", s.cfg.SecurityDB)
		return make(map[string]*models.SecurityScorecard)
	}
	return scorecards
}

func (s *DatasetService) loadCommits() []*models.Commit {
	db, err := database.Open(s.cfg.CommitsDB)
	if err != nil {
		logger.WithError(err).Warnf("No commits source at %s", s.cfg.CommitsDB)
		return nil
	}
	defer db.Close()

	commits, err := repositories.NewCommitRepository(db).GetAll()
	if err != nil {
		logger.WithError(err).Errorf("Failed to load commits source %s", s.cfg.CommitsDB)
		return nil
	}
	return commits
}

// dedupeByID enforces the unique-id invariant across the union: the first
// occurrence wins and duplicates are logged instead of silently kept.
func dedupeByID(repos []*models.Repository) []*models.Repository {
	if len(repos) == 0 {
		return repos
	}
	seen := make(map[int64]bool, len(repos))
	result := make([]*models.Repository, 0, len(repos))
	duplicates := 0
	for _, repo := range repos {
		if seen[repo.ID] {
			duplicates++
			continue
		}
		seen[repo.ID] = true
		result = append(result, repo)
	}
	if duplicates > 0 {
		logger.Warnf("Dropped %d duplicate repository ids during union", duplicates)
	}
	return result
}
