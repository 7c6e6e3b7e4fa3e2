package models

import "time"

// Commit represents one commit-like event from the combined commits table.
// Commits are only consumed in aggregate, grouped by calendar month.
type Commit struct {
	RepositoryURL string     `json:"html_url"`
	Date          *time.Time `json:"date"`
}
