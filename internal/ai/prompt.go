package ai

import (
	"fmt"
	"strings"

	"tutorhub/internal/domain"
)

// Turn is a read-only view of one prior chat message.
type Turn struct {
	Role    string
	Content string
}

const (
	defaultHistoryWindow = 10
	defaultCharBudget    = 6000

	chatPreamble = "[INST] You are a programming tutor. Use the following conversation history as context for your response:\n\n"
	chatClose    = "\n\n[/INST]"
)

// PromptBuilder turns feature requests into generation requests. It is
// pure: no I/O, and it never fails (payload validation happens upstream).
type PromptBuilder struct {
	historyWindow int
	charBudget    int
}

func NewPromptBuilder(historyWindow, charBudget int) *PromptBuilder {
	if historyWindow <= 0 {
		historyWindow = defaultHistoryWindow
	}
	if charBudget <= 0 {
		charBudget = defaultCharBudget
	}
	return &PromptBuilder{historyWindow: historyWindow, charBudget: charBudget}
}

// BuildChatPrompt assembles the tutor prompt from a bounded window of prior
// turns plus the new message. History is truncated from the oldest end
// first whenever the serialized prompt would exceed the character budget;
// the new message is always kept.
func (b *PromptBuilder) BuildChatPrompt(history []Turn, message string) GenerationRequest {
	window := history
	if len(window) > b.historyWindow {
		window = window[len(window)-b.historyWindow:]
	}

	prompt := renderChatPrompt(window, message)
	for len(prompt) > b.charBudget && len(window) > 0 {
		window = window[1:]
		prompt = renderChatPrompt(window, message)
	}

	return GenerationRequest{
		Prompt:       prompt,
		MaxNewTokens: 1024,
		Temperature:  0.7,
		TopP:         0.95,
		Stop:         []string{"[INST]", "User:", "Assistant:"},
	}
}

func renderChatPrompt(window []Turn, message string) string {
	var sb strings.Builder
	sb.WriteString(chatPreamble)
	if len(window) > 0 {
		sb.WriteString("Previous conversation:\n")
		for _, turn := range window {
			label := "User"
			if turn.Role == domain.RoleAssistant {
				label = "Assistant"
			}
			sb.WriteString(label)
			sb.WriteString(": ")
			sb.WriteString(turn.Content)
			sb.WriteString("\n\n")
		}
	}
	sb.WriteString("Current question:\n\n")
	sb.WriteString(message)
	sb.WriteString(chatClose)
	return sb.String()
}

type difficultySpec struct {
	description  string
	requirements []string
	example      string
}

var difficultySpecs = map[string]difficultySpec{
	domain.DifficultyEasy: {
		description: "Focus on fundamental concepts and simple syntax",
		requirements: []string{
			"Test basic terminology and definitions",
			"Use simple, straightforward questions",
			"Avoid complex scenarios",
			"Questions should be suitable for complete beginners",
		},
		example: `1. What is machine learning?
a) A type of artificial intelligence that learns from data
b) A programming language
c) A type of computer hardware
d) A database management system

Answer: a) A type of artificial intelligence that learns from data
Explanation: Machine learning allows systems to learn and improve from experience.`,
	},
	domain.DifficultyMedium: {
		description: "Include problem-solving and practical applications",
		requirements: []string{
			"Focus on implementation details",
			"Test practical knowledge and common use cases",
			"Cover common challenges",
			"Questions should require hands-on experience",
		},
		example: `1. What problem might arise when using gradient descent with a learning rate that's too high?
a) Overshooting the optimal solution
b) Memory overflow
c) CPU overheating
d) Network timeout

Answer: a) Overshooting the optimal solution
Explanation: A high learning rate can cause the algorithm to overshoot the optimal solution.`,
	},
	domain.DifficultyHard: {
		description: "Focus on complex concepts and edge cases",
		requirements: []string{
			"Include advanced technical concepts",
			"Cover optimization techniques and limitations",
			"Address edge cases",
			"Questions should challenge experienced practitioners",
		},
		example: `1. What potential issue could arise in a distributed system using asynchronous SGD?
a) Stale gradient updates affecting convergence
b) Network latency improving accuracy
c) Memory usage decreasing
d) Training speed slowing down

Answer: a) Stale gradient updates affecting convergence
Explanation: Workers computing gradients on outdated parameters produce stale updates that hurt convergence.`,
	},
}

// BuildQuizPrompt embeds topic, count and difficulty, and pins the exact
// line format the quiz parser splits on.
func (b *PromptBuilder) BuildQuizPrompt(spec domain.QuizSpec) GenerationRequest {
	ds, ok := difficultySpecs[spec.Difficulty]
	if !ok {
		ds = difficultySpecs[domain.DifficultyMedium]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %d multiple-choice questions about %s at %s level.\n\n",
		spec.QuestionCount, spec.Topic, spec.Difficulty)
	fmt.Fprintf(&sb, "Description: %s\n\nRequirements:\n", ds.description)
	for _, req := range ds.requirements {
		sb.WriteString("- ")
		sb.WriteString(req)
		sb.WriteString("\n")
	}
	sb.WriteString("\nExample question at this difficulty level:\n")
	sb.WriteString(ds.example)
	sb.WriteString(`

Format each question exactly like the example above:
1. Question text
a) Option
b) Option
c) Option
d) Option

Answer: a) Option
Explanation: Clear technical explanation

Important:
1. Each question must have exactly 4 options
2. All questions must be about ` + spec.Topic + `
3. Wrong answers should be plausible but clearly incorrect
4. Include a short technical explanation for every question`)

	maxTokens := 256*spec.QuestionCount + 256
	if maxTokens > 3072 {
		maxTokens = 3072
	}

	return GenerationRequest{
		Prompt:       sb.String(),
		MaxNewTokens: maxTokens,
		Temperature:  0.3,
		TopP:         0.9,
	}
}

// BuildResourcePrompt asks for an explanation followed by a bulleted link
// list the resource parser can split deterministically.
func (b *PromptBuilder) BuildResourcePrompt(query string) GenerationRequest {
	prompt := fmt.Sprintf(`Given the learning topic or question: "%s"

First give a brief, direct explanation of the topic, then list recommended
learning resources. Format the resources as a bulleted list, one per line:
- Resource title: URL

Include official documentation, tutorials, videos and practice exercises
where relevant. Make the explanation self-contained so the reader can learn
directly from it.`, query)

	return GenerationRequest{
		Prompt:       prompt,
		MaxNewTokens: 1024,
		Temperature:  0.5,
		TopP:         0.95,
	}
}

// BuildRoadmapPrompt asks for a staged markdown learning plan.
func (b *PromptBuilder) BuildRoadmapPrompt(topic string) GenerationRequest {
	prompt := fmt.Sprintf(`Create a detailed learning roadmap for: %s

Format the roadmap as markdown with numbered stage headings, for example:

## Learning Roadmap for %s

### 1. Understanding the Fundamentals
- concrete steps with estimated durations

### 2. Building Blocks
- ...

Cover fundamentals through real-world application, include estimated time
per stage, and keep every bullet actionable.`, topic, topic)

	return GenerationRequest{
		Prompt:       prompt,
		MaxNewTokens: 1536,
		Temperature:  0.6,
		TopP:         0.95,
	}
}

// BuildTitlePrompt asks for a short chat title from the opening message.
func (b *PromptBuilder) BuildTitlePrompt(firstMessage string) GenerationRequest {
	const maxSnippet = 300
	if len(firstMessage) > maxSnippet {
		firstMessage = firstMessage[:maxSnippet]
	}
	prompt := fmt.Sprintf(`Summarize the following question as a chat title of at most 6 words.
Reply with the title only, no quotes.

Question: %s`, firstMessage)

	return GenerationRequest{
		Prompt:       prompt,
		MaxNewTokens: 16,
		Temperature:  0.2,
	}
}
