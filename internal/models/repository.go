package models

import "strings"

// Repository represents one source repository row of the unioned base table.
// Nullable source columns are pointers; numeric columns are coerced at the load
// boundary so internal logic never sees mixed types.
type Repository struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Owner    string `json:"owner"`
	HTMLURL  string `json:"html_url"`

	License        *string `json:"license"`
	Language       *string `json:"language"`
	TypePrediction *string `json:"type_prediction"`

	// University is not present in the raw sources. The loader fills it from
	// the institution config, falling back to the acronym.
	University string `json:"university"`

	Stars                 *float64 `json:"stargazers_count"`
	Forks                 *float64 `json:"forks_count"`
	OpenIssues            *float64 `json:"open_issues_count"`
	ReleaseDownloads      *float64 `json:"release_downloads"`
	ContributorCount      *float64 `json:"contributor_count"`
	BusFactor             *float64 `json:"bus_factor"`
	Size                  *float64 `json:"size"`
	Subscribers           *float64 `json:"subscribers_count"`
	AffiliationPrediction *float64 `json:"affiliation_prediction"`

	Description    *string `json:"description"`
	Readme         *string `json:"readme,omitempty"`
	Contributing   *string `json:"contributing,omitempty"`
	CodeOfConduct  *string `json:"code_of_conduct_file,omitempty"`
	SecurityPolicy *string `json:"security_policy,omitempty"`
	IssueTemplates *string `json:"issue_templates,omitempty"`
	PRTemplate     *string `json:"pull_request_template,omitempty"`
}

// Community-health feature columns, in source order.
const (
	FeatureDescription    = "description"
	FeatureReadme         = "readme"
	FeatureLicense        = "license"
	FeatureCodeOfConduct  = "code_of_conduct_file"
	FeatureContributing   = "contributing"
	FeatureSecurityPolicy = "security_policy"
	FeatureIssueTemplates = "issue_templates"
	FeaturePRTemplate     = "pull_request_template"
)

// FeatureColumns is the fixed vocabulary used by the feature-presence charts.
var FeatureColumns = []string{
	FeatureDescription,
	FeatureReadme,
	FeatureLicense,
	FeatureCodeOfConduct,
	FeatureContributing,
	FeatureSecurityPolicy,
	FeatureIssueTemplates,
	FeaturePRTemplate,
}

// FeatureDisplayNames maps feature columns to chart labels.
var FeatureDisplayNames = map[string]string{
	FeatureDescription:    "Description",
	FeatureReadme:         "README",
	FeatureLicense:        "License",
	FeatureCodeOfConduct:  "Code of Conduct",
	FeatureContributing:   "Contributing Guide",
	FeatureSecurityPolicy: "Security Policy",
	FeatureIssueTemplates: "Issue Templates",
	FeaturePRTemplate:     "PR Template",
}

// FeatureValue returns the raw value of a feature column, or nil for an
// unknown column.
func (r *Repository) FeatureValue(column string) *string {
	switch column {
	case FeatureDescription:
		return r.Description
	case FeatureReadme:
		return r.Readme
	case FeatureLicense:
		return r.License
	case FeatureCodeOfConduct:
		return r.CodeOfConduct
	case FeatureContributing:
		return r.Contributing
	case FeatureSecurityPolicy:
		return r.SecurityPolicy
	case FeatureIssueTemplates:
		return r.IssueTemplates
	case FeaturePRTemplate:
		return r.PRTemplate
	}
	return nil
}

// HasFeature reports whether a community-health feature is present. Presence
// means non-null and non-empty; absence is a measured signal, not an error.
func (r *Repository) HasFeature(column string) bool {
	v := r.FeatureValue(column)
	return v != nil && strings.TrimSpace(*v) != ""
}

// LicenseName returns the license label, with nulls mapped to "None".
func (r *Repository) LicenseName() string {
	if r.License == nil || strings.TrimSpace(*r.License) == "" {
		return "None"
	}
	return *r.License
}

// LanguageName returns the language label, or "" when unset.
func (r *Repository) LanguageName() string {
	if r.Language == nil {
		return ""
	}
	return *r.Language
}

// TypeName returns the project-type label, or "" when unset.
func (r *Repository) TypeName() string {
	if r.TypePrediction == nil {
		return ""
	}
	return *r.TypePrediction
}

// IsTypeError reports whether the project-type classification is the "error"
// sentinel, which type-distribution charts must exclude.
func (r *Repository) IsTypeError() bool {
	return strings.EqualFold(strings.TrimSpace(r.TypeName()), "error")
}
