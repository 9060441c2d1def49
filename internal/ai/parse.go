package ai

import (
	"regexp"
	"strings"

	"tutorhub/internal/domain"
)

var (
	questionLineRe = regexp.MustCompile(`^(\d+)[.)]\s+(.+)$`)
	optionLineRe   = regexp.MustCompile(`^([a-dA-D])[.)]\s*(.+)$`)
	answerLineRe   = regexp.MustCompile(`(?i)^(?:correct answer|answer)\s*:\s*(.+)$`)
	explainLineRe  = regexp.MustCompile(`(?i)^explanation\s*:\s*(.+)$`)
	bulletLineRe   = regexp.MustCompile(`^[-*•]\s+(.+)$`)
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	urlRe          = regexp.MustCompile(`https?://\S+`)
)

// ParseQuiz splits model output in the numbered/lettered question format
// into validated questions. Malformed questions are dropped; the call fails
// only when nothing usable remains.
func ParseQuiz(text string) ([]domain.QuizQuestion, error) {
	var (
		questions []domain.QuizQuestion
		current   *rawQuestion
	)

	flush := func() {
		if current == nil {
			return
		}
		if q, ok := current.build(); ok {
			questions = append(questions, q)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := questionLineRe.FindStringSubmatch(line); m != nil {
			flush()
			current = &rawQuestion{question: strings.TrimSpace(m[2])}
			continue
		}
		if current == nil {
			continue
		}
		if m := optionLineRe.FindStringSubmatch(line); m != nil {
			current.options = append(current.options, strings.TrimSpace(m[2]))
			continue
		}
		if m := answerLineRe.FindStringSubmatch(line); m != nil {
			current.answer = strings.TrimSpace(m[1])
			continue
		}
		if m := explainLineRe.FindStringSubmatch(line); m != nil {
			current.explanation = strings.TrimSpace(m[1])
		}
	}
	flush()

	if len(questions) == 0 {
		return nil, &GenerationError{Kind: KindParseFailure, Detail: "no well-formed quiz questions in response"}
	}
	return questions, nil
}

type rawQuestion struct {
	question    string
	options     []string
	answer      string
	explanation string
}

// build resolves the answer line to an option index and enforces the
// four-distinct-options invariant.
func (r *rawQuestion) build() (domain.QuizQuestion, bool) {
	q := domain.QuizQuestion{
		Question:    r.question,
		Options:     r.options,
		Explanation: r.explanation,
	}
	if r.answer == "" || len(r.options) != domain.OptionsPerQuestion {
		return q, false
	}

	q.CorrectIndex = -1
	// "a) text" or a bare letter maps by position; otherwise match the
	// answer text against the options.
	if m := optionLineRe.FindStringSubmatch(r.answer); m != nil {
		q.CorrectIndex = int(strings.ToLower(m[1])[0] - 'a')
	} else if len(r.answer) == 1 {
		if c := strings.ToLower(r.answer)[0]; c >= 'a' && c <= 'd' {
			q.CorrectIndex = int(c - 'a')
		}
	} else {
		for i, opt := range r.options {
			if strings.EqualFold(strings.TrimSpace(opt), r.answer) {
				q.CorrectIndex = i
				break
			}
		}
	}

	if !q.Valid() {
		return q, false
	}
	return q, true
}

// ParseResources splits model output into an explanation and a bulleted
// link list. Absent bullets are not an error: the explanation alone is a
// valid result.
func ParseResources(text string) (*domain.ResourceList, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &GenerationError{Kind: KindParseFailure, Detail: "empty resource response"}
	}

	var (
		explanation []string
		links       []domain.ResourceLink
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := bulletLineRe.FindStringSubmatch(line)
		if m == nil {
			explanation = append(explanation, line)
			continue
		}
		if link, ok := parseResourceLine(strings.TrimSpace(m[1])); ok {
			links = append(links, link)
		}
	}

	return &domain.ResourceList{
		Explanation: strings.Join(explanation, "\n"),
		Links:       links,
	}, nil
}

func parseResourceLine(item string) (domain.ResourceLink, bool) {
	if item == "" {
		return domain.ResourceLink{}, false
	}

	if m := markdownLinkRe.FindStringSubmatch(item); m != nil {
		return domain.ResourceLink{Title: strings.TrimSpace(m[1]), URL: strings.TrimSpace(m[2])}, true
	}

	url := urlRe.FindString(item)
	title := strings.TrimSpace(urlRe.ReplaceAllString(item, ""))
	title = strings.TrimRight(title, ":- ")
	if title == "" {
		title = url
	}
	return domain.ResourceLink{Title: title, URL: url}, true
}
