package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Data    DataConfig
	Charts  ChartConfig
	Session SessionConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DataConfig struct {
	// BaseDir holds the sqlite data sources. The fast path reads CombinedDB
	// directly; the slow path reads BaseDir/<acronym>/repositories.db per
	// institution.
	BaseDir           string
	CombinedDB        string
	SecurityDB        string
	CommitsDB         string
	ConfigDir         string
	Institutions      []string
	LoadWorkers       int
	CommitWindowStart time.Time
	CommitWindowEnd   time.Time
}

type ChartConfig struct {
	// Share thresholds below which a category is folded into "Other".
	LanguageOtherThreshold       float64
	LanguageByTypeOtherThreshold float64
	LicenseOtherThreshold        float64
}

type SessionConfig struct {
	Secret string
}

// Institutions tracked by default. Overridable via INSTITUTIONS (comma-separated).
var defaultInstitutions = []string{
	"UCB", "UCI", "UCD", "UCLA", "UCM", "UCR", "UCSB", "UCSC", "UCSD", "UCSF",
	"Biohub", "CMU", "ETH", "GWU", "Lero", "MGB", "MSU", "OSU", "RIT", "SLU",
	"Syracuse", "TCD", "UGA", "SnT", "UCL", "UMich", "UVM", "UWMadison", "JHU",
	"Georgia Tech", "UT Austin", "Stanford",
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Data: DataConfig{
			BaseDir:           getEnv("DATA_DIR", "./data/sqlite"),
			CombinedDB:        getEnv("COMBINED_DB", "./data/sqlite/repositories_combined.db"),
			SecurityDB:        getEnv("SECURITY_DB", "./data/sqlite/security_combined.db"),
			CommitsDB:         getEnv("COMMITS_DB", "./data/sqlite/commits_combined.db"),
			ConfigDir:         getEnv("INSTITUTION_CONFIG_DIR", "./config"),
			Institutions:      getEnvAsList("INSTITUTIONS", defaultInstitutions),
			LoadWorkers:       getEnvAsInt("LOAD_WORKERS", 8),
			CommitWindowStart: getEnvAsDate("COMMIT_WINDOW_START", time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)),
			CommitWindowEnd:   getEnvAsDate("COMMIT_WINDOW_END", time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)),
		},
		Charts: ChartConfig{
			LanguageOtherThreshold:       getEnvAsFloat("LANGUAGE_OTHER_THRESHOLD", 0.05),
			LanguageByTypeOtherThreshold: getEnvAsFloat("LANGUAGE_BY_TYPE_OTHER_THRESHOLD", 0.02),
			LicenseOtherThreshold:        getEnvAsFloat("LICENSE_OTHER_THRESHOLD", 0.02),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "default-secret-key"),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvAsDate gets an environment variable as a UTC date or returns a default value
func getEnvAsDate(key string, defaultValue time.Time) time.Time {
	if value := os.Getenv(key); value != "" {
		if t, err := time.ParseInLocation("2006-01-02", value, time.UTC); err == nil {
			return t
		}
	}
	return defaultValue
}

// getEnvAsList gets a comma-separated environment variable or returns a default value
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
