package models

type Recommendation struct {
	Job             JobPosting `json:"job"`
	MatchPercentage int        `json:"matchPercentage"`
	MatchReason     string     `json:"matchReason"`
	SkillMatches    []string   `json:"skillMatches,omitempty"`
}
