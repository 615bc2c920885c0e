package scrape

import "strings"

// skillVocabulary is the fixed set of technology keywords matched against
// scraped text. Scraped boards expose no structured skills field, so this
// substring heuristic is the only signal available.
var skillVocabulary = []string{
	"javascript", "typescript", "python", "java", "golang", "go", "rust",
	"c++", "c#", "php", "ruby", "swift", "kotlin", "scala",
	"react", "angular", "vue", "svelte", "node", "django", "flask",
	"spring", "rails", "laravel", ".net", "express",
	"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch",
	"kafka", "rabbitmq", "graphql", "rest",
	"docker", "kubernetes", "terraform", "aws", "azure", "gcp",
	"linux", "git", "ci/cd", "jenkins",
	"machine learning", "data science", "tensorflow", "pytorch",
}

func deriveSkills(text string) []string {
	lower := strings.ToLower(text)

	var skills []string
	for _, skill := range skillVocabulary {
		if containsWord(lower, skill) {
			skills = append(skills, skill)
		}
	}
	return skills
}

// containsWord avoids "go" matching inside "google" for the short
// language names; longer keywords fall back to plain substring match.
func containsWord(text, keyword string) bool {
	if len(keyword) > 3 {
		return strings.Contains(text, keyword)
	}

	idx := 0
	for {
		found := strings.Index(text[idx:], keyword)
		if found < 0 {
			return false
		}
		start := idx + found
		end := start + len(keyword)
		beforeOk := start == 0 || !isAlnum(text[start-1])
		afterOk := end == len(text) || !isAlnum(text[end])
		if beforeOk && afterOk {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z'
}

func deriveContractType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "part-time") || strings.Contains(lower, "part time"):
		return "Part-time"
	case strings.Contains(lower, "contract"):
		return "Contract"
	case strings.Contains(lower, "internship") || strings.Contains(lower, "intern "):
		return "Internship"
	default:
		return "Full-time"
	}
}
