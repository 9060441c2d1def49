package ai

import (
	"fmt"
	"strings"
	"testing"

	"tutorhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildChatPrompt_HistoryThenNewMessageInOrder(t *testing.T) {
	builder := NewPromptBuilder(10, 6000)
	history := []Turn{{Role: domain.RoleUser, Content: "what is a list?"}}

	req := builder.BuildChatPrompt(history, "give an example")

	prior := strings.Index(req.Prompt, "what is a list?")
	current := strings.Index(req.Prompt, "give an example")
	require.GreaterOrEqual(t, prior, 0)
	require.GreaterOrEqual(t, current, 0)
	assert.Less(t, prior, current, "history must precede the new message")
	assert.True(t, strings.HasSuffix(req.Prompt, "give an example"+chatClose),
		"prompt must end with the new message")
}

func TestBuildChatPrompt_WindowBoundsHistory(t *testing.T) {
	builder := NewPromptBuilder(5, 100000)
	var history []Turn
	for i := 0; i < 40; i++ {
		history = append(history, Turn{Role: domain.RoleUser, Content: fmt.Sprintf("turn-%03d", i)})
	}

	req := builder.BuildChatPrompt(history, "latest question")

	assert.NotContains(t, req.Prompt, "turn-000")
	assert.NotContains(t, req.Prompt, "turn-034")
	assert.Contains(t, req.Prompt, "turn-035")
	assert.Contains(t, req.Prompt, "turn-039")
}

func TestBuildChatPrompt_CharBudgetTruncatesOldestFirst(t *testing.T) {
	budget := 600
	builder := NewPromptBuilder(50, budget)
	var history []Turn
	for i := 0; i < 30; i++ {
		history = append(history, Turn{Role: domain.RoleUser, Content: fmt.Sprintf("turn-%03d padding padding padding", i)})
	}

	req := builder.BuildChatPrompt(history, "latest question")

	assert.LessOrEqual(t, len(req.Prompt), budget)
	// the most recent turn survives truncation
	assert.Contains(t, req.Prompt, "turn-029")
	assert.NotContains(t, req.Prompt, "turn-000")
	assert.True(t, strings.HasSuffix(req.Prompt, "latest question"+chatClose))
}

func TestBuildChatPrompt_EmptyHistory(t *testing.T) {
	builder := NewPromptBuilder(10, 6000)

	req := builder.BuildChatPrompt(nil, "hello")

	assert.NotContains(t, req.Prompt, "Previous conversation:")
	assert.Contains(t, req.Prompt, "hello")
	assert.InDelta(t, 0.7, req.Temperature, 0.001)
	assert.Positive(t, req.MaxNewTokens)
}

func TestBuildQuizPrompt_PinsFormatAndSpec(t *testing.T) {
	builder := NewPromptBuilder(0, 0)
	spec := domain.QuizSpec{Topic: "goroutines", QuestionCount: 5, Difficulty: domain.DifficultyHard}

	req := builder.BuildQuizPrompt(spec)

	assert.Contains(t, req.Prompt, "5 multiple-choice questions")
	assert.Contains(t, req.Prompt, "goroutines")
	assert.Contains(t, req.Prompt, "hard level")
	assert.Contains(t, req.Prompt, "exactly 4 options")
	assert.Contains(t, req.Prompt, "Answer: a)")
	assert.Contains(t, req.Prompt, "Explanation:")
}

func TestBuildResourcePrompt_AsksForBulletedList(t *testing.T) {
	builder := NewPromptBuilder(0, 0)

	req := builder.BuildResourcePrompt("context cancellation in Go")

	assert.Contains(t, req.Prompt, "context cancellation in Go")
	assert.Contains(t, req.Prompt, "- Resource title: URL")
}

func TestBuildRoadmapPrompt_AsksForStagedMarkdown(t *testing.T) {
	builder := NewPromptBuilder(0, 0)

	req := builder.BuildRoadmapPrompt("distributed systems")

	assert.Contains(t, req.Prompt, "Learning Roadmap for distributed systems")
	assert.Contains(t, req.Prompt, "### 1.")
}
