package recommendations

import (
	"context"
	"testing"

	"github.com/openjobs/jobscout/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type stubTextGenerator struct {
	reply  string
	err    error
	prompt string
}

func (g *stubTextGenerator) GenerateResponse(_ context.Context, request string) (string, error) {
	g.prompt = request
	return g.reply, g.err
}

func rerankPool() []models.JobPosting {
	return []models.JobPosting{
		{ID: "1", Title: "Senior Go Developer", Company: "Acme", Location: "Berlin", Description: "Go and Kubernetes"},
		{ID: "2", Title: "Go Developer", Company: "Initech", Location: "Berlin, DE", Description: "Microservices in Go"},
		{ID: "3", Title: "Accountant", Company: "Books Ltd", Location: "Berlin"},
	}
}

func Test_Reranker_ParsesReplyAndFiltersByPercentage(t *testing.T) {

	assert := assert.New(t)

	generator := &stubTextGenerator{reply: "Here are my picks:\n" +
		`[{"jobIndex": 1, "matchPercentage": 92, "matchReason": "Strong Go background"},` +
		`{"jobIndex": 2, "matchPercentage": 40, "matchReason": "Weaker fit"}]` +
		"\nHope that helps!"}

	profile := models.UserProfileSummary{JobTitle: "Go Developer", Location: "Berlin", Skills: []string{"Go"}}

	recommendations, err := NewReranker(generator).Rerank(context.Background(), profile, rerankPool())
	assert.NoError(err)

	// The accountant never reaches the model; the 40% entry falls below
	// the rerank floor.
	assert.Len(recommendations, 1)
	assert.Equal("1", recommendations[0].Job.ID)
	assert.Equal(92, recommendations[0].MatchPercentage)
	assert.Equal("Strong Go background", recommendations[0].MatchReason)
	assert.Equal([]string{"Go"}, recommendations[0].SkillMatches)

	assert.Contains(generator.prompt, "1. Senior Go Developer at Acme")
	assert.NotContains(generator.prompt, "Accountant")
}

func Test_Reranker_UnparsableReplyIsHardFailure(t *testing.T) {

	assert := assert.New(t)

	generator := &stubTextGenerator{reply: "I could not rate these jobs, sorry."}
	profile := models.UserProfileSummary{JobTitle: "Go Developer"}

	recommendations, err := NewReranker(generator).Rerank(context.Background(), profile, rerankPool())

	assert.Nil(recommendations)
	assert.True(errors.Is(err, ErrRerankParse))
}

func Test_Reranker_MalformedArrayIsHardFailure(t *testing.T) {

	generator := &stubTextGenerator{reply: `[{"jobIndex": "not a number"]`}
	profile := models.UserProfileSummary{JobTitle: "Go Developer"}

	_, err := NewReranker(generator).Rerank(context.Background(), profile, rerankPool())

	assert.True(t, errors.Is(err, ErrRerankParse))
}

func Test_Reranker_OutOfRangeIndexIsSkipped(t *testing.T) {

	assert := assert.New(t)

	generator := &stubTextGenerator{reply: `[
		{"jobIndex": 99, "matchPercentage": 90, "matchReason": "hallucinated"},
		{"jobIndex": 2, "matchPercentage": 70, "matchReason": "solid"}]`}
	profile := models.UserProfileSummary{JobTitle: "Go Developer"}

	recommendations, err := NewReranker(generator).Rerank(context.Background(), profile, rerankPool())
	assert.NoError(err)

	assert.Len(recommendations, 1)
	assert.Equal("2", recommendations[0].Job.ID)
}

func Test_Reranker_NoCandidatesSkipsModelCall(t *testing.T) {

	assert := assert.New(t)

	generator := &stubTextGenerator{}
	profile := models.UserProfileSummary{JobTitle: "Astronaut"}

	recommendations, err := NewReranker(generator).Rerank(context.Background(), profile, rerankPool())

	assert.NoError(err)
	assert.Empty(recommendations)
	assert.Empty(generator.prompt)
}
