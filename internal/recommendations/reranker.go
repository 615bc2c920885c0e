package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/openjobs/jobscout/internal/models"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// ErrRerankParse is returned when no JSON array can be located and parsed
// in the model's reply. It is a hard failure: callers must be able to
// tell "no jobs met the bar" (empty result) from "the model output was
// unusable" (this error).
var ErrRerankParse = errors.New("no parsable JSON array in model response")

type textGenerator interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

const (
	rerankPoolLimit     = 300
	rerankMinPercentage = 65
	rerankDescLimit     = 300
)

// jsonArrayPattern is permissive over exact JSON boundaries: the first
// bracketed span in the reply is treated as the array, whatever the model
// wrapped around it.
var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// Reranker is the generative re-scoring pass: it shows the model the
// profile and a numbered candidate list and extracts structured match
// tuples from the free-text reply.
type Reranker struct {
	generator textGenerator
}

func NewReranker(generator textGenerator) *Reranker {
	return &Reranker{generator: generator}
}

type rerankEntry struct {
	JobIndex        int    `json:"jobIndex"`
	MatchPercentage int    `json:"matchPercentage"`
	MatchReason     string `json:"matchReason"`
}

func (r *Reranker) Rerank(ctx context.Context, profile models.UserProfileSummary,
	pool []models.JobPosting) ([]models.Recommendation, error) {

	if len(pool) > rerankPoolLimit {
		pool = pool[:rerankPoolLimit]
	}

	candidates := r.filterCandidates(profile, pool)
	if len(candidates) == 0 {
		return nil, nil
	}

	reply, err := r.generator.GenerateResponse(ctx, r.buildPrompt(profile, candidates))
	if err != nil {
		return nil, err
	}

	entries, err := parseRerankReply(reply)
	if err != nil {
		return nil, err
	}

	var recommendations []models.Recommendation
	for _, entry := range entries {
		if entry.MatchPercentage < rerankMinPercentage {
			continue
		}

		// The prompt numbers candidates from 1.
		index := entry.JobIndex - 1
		if index < 0 || index >= len(candidates) {
			log.Warnf("model referenced job index %v outside candidate list", entry.JobIndex)
			continue
		}

		job := candidates[index]
		recommendations = append(recommendations, models.Recommendation{
			Job:             job,
			MatchPercentage: entry.MatchPercentage,
			MatchReason:     entry.MatchReason,
			SkillMatches:    MatchSkills(profile.Skills, job.Description),
		})
	}

	return recommendations, nil
}

// filterCandidates keeps jobs whose title contains the profile's job
// title and whose location contains the profile's location; an empty
// profile field imposes no constraint.
func (r *Reranker) filterCandidates(profile models.UserProfileSummary,
	pool []models.JobPosting) []models.JobPosting {

	title := strings.ToLower(profile.JobTitle)
	location := strings.ToLower(profile.Location)

	return lo.Filter(pool, func(job models.JobPosting, _ int) bool {
		if title != "" && !strings.Contains(strings.ToLower(job.Title), title) {
			return false
		}
		if location != "" && !strings.Contains(strings.ToLower(job.Location), location) {
			return false
		}
		return true
	})
}

func (r *Reranker) buildPrompt(profile models.UserProfileSummary,
	candidates []models.JobPosting) string {

	var sb strings.Builder

	sb.WriteString("You are a career assistant matching a candidate against job postings.\n\n")
	sb.WriteString("Candidate profile:\n")
	sb.WriteString("Job title: " + profile.JobTitle + "\n")
	if len(profile.Skills) > 0 {
		sb.WriteString("Skills: " + strings.Join(profile.Skills, ", ") + "\n")
	}
	if profile.Location != "" {
		sb.WriteString("Location: " + profile.Location + "\n")
	}
	if profile.Bio != "" {
		sb.WriteString("Bio: " + profile.Bio + "\n")
	}

	sb.WriteString("\nCandidate jobs:\n")
	for i, job := range candidates {
		sb.WriteString(fmt.Sprintf("%d. %s at %s\n", i+1, job.Title, job.Company))
		if job.Description != "" {
			sb.WriteString("   " + truncateText(job.Description, rerankDescLimit) + "\n")
		}
		if len(job.SkillsRequired) > 0 {
			sb.WriteString("   Skills: " + strings.Join(job.SkillsRequired, ", ") + "\n")
		}
	}

	sb.WriteString("\nRate how well each job matches the candidate. Respond with only a JSON array ")
	sb.WriteString("of objects {\"jobIndex\": number, \"matchPercentage\": number 0-100, ")
	sb.WriteString("\"matchReason\": string}, using the job numbers above. ")
	sb.WriteString("Include only jobs worth recommending.")

	return sb.String()
}

func parseRerankReply(reply string) ([]rerankEntry, error) {
	raw := jsonArrayPattern.FindString(reply)
	if raw == "" {
		return nil, errors.Wrapf(ErrRerankParse, "reply: %v", truncateText(reply, 200))
	}

	var entries []rerankEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errors.Wrapf(ErrRerankParse, "invalid array: %v", err)
	}

	return entries, nil
}

func truncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
