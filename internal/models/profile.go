package models

import "strings"

type Experience struct {
	Title       string
	Company     string
	Description string
}

// UserProfileSummary is the slice of a user profile the recommendation
// pipeline needs, supplied by the user-profile collaborator. Experiences
// are ordered most recent first.
type UserProfileSummary struct {
	UserID      uint
	JobTitle    string
	Skills      []string
	Location    string
	Bio         string
	Experiences []Experience
}

// EmbeddingText flattens the profile into the text the embedding model
// sees: title, skills, bio and the most recent experience description.
func (p UserProfileSummary) EmbeddingText() string {
	var parts []string
	if p.JobTitle != "" {
		parts = append(parts, p.JobTitle)
	}
	if len(p.Skills) > 0 {
		parts = append(parts, strings.Join(p.Skills, ", "))
	}
	if p.Bio != "" {
		parts = append(parts, p.Bio)
	}
	if len(p.Experiences) > 0 && p.Experiences[0].Description != "" {
		parts = append(parts, p.Experiences[0].Description)
	}
	return strings.Join(parts, "\n")
}

func (p UserProfileSummary) IsEmpty() bool {
	return p.JobTitle == "" && len(p.Skills) == 0
}
