package models

// Dataset is the immutable in-memory table set built once at startup.
type Dataset struct {
	Repositories []*Repository
	Security     map[string]*SecurityScorecard // keyed by html_url
	Commits      []*Commit
}

// SecurityFor returns the scorecard joined by html_url, or nil when the
// repository has no security data.
func (d *Dataset) SecurityFor(htmlURL string) *SecurityScorecard {
	if d == nil || d.Security == nil {
		return nil
	}
	return d.Security[htmlURL]
}
