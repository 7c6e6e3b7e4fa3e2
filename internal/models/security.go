package models

// SecurityScorecard holds the OpenSSF scorecard check results for one
// repository, joined to the base table by html_url. A missing join means "no
// security data", not an error.
type SecurityScorecard struct {
	HTMLURL string `json:"html_url"`

	BinaryArtifacts      *float64 `json:"Binary_Artifacts"`
	BranchProtection     *float64 `json:"Branch_Protection"`
	CITests              *float64 `json:"CI_Tests"`
	CIIBestPractices     *float64 `json:"CII_Best_Practices"`
	CodeReview           *float64 `json:"Code_Review"`
	Contributors         *float64 `json:"Contributors"`
	DangerousWorkflow    *float64 `json:"Dangerous_Workflow"`
	DependencyUpdateTool *float64 `json:"Dependency_Update_Tool"`
	Fuzzing              *float64 `json:"Fuzzing"`
	License              *float64 `json:"License"`
	Maintained           *float64 `json:"Maintained"`
	Packaging            *float64 `json:"Packaging"`
	PinnedDependencies   *float64 `json:"Pinned_Dependencies"`
	SAST                 *float64 `json:"SAST"`
	SecurityPolicy       *float64 `json:"Security_Policy"`
	SignedReleases       *float64 `json:"Signed_Releases"`
	TokenPermissions     *float64 `json:"Token_Permissions"`
	Vulnerabilities      *float64 `json:"Vulnerabilities"`
	TotalScore           *float64 `json:"Total_Score"`
}
